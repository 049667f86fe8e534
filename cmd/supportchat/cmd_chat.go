package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"supportchat/cmd/supportchat/chat"
	"supportchat/internal/config"
	"supportchat/internal/logging"
)

var initialPath string

// runInteractiveChat starts the full-screen client and keeps the config file
// watched for the lifetime of the program.
func runInteractiveChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if verbose {
		cfg.Logging.DebugMode = true
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging.LogsDir(), cfg.Logging.ToLogging()); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logging.Boot("config loaded from %s", configPath)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	model := chat.New(chat.Options{
		Config:      cfg,
		Context:     ctx,
		InitialPath: initialPath,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	watcher, err := config.NewWatcher(configPath, func(next *config.Config) {
		p.Send(chat.ConfigReloadedMsg{Config: next})
	})
	if err != nil {
		logging.BootError("config watcher unavailable: %v", err)
	} else if err := watcher.Start(ctx); err != nil {
		logging.BootError("config watcher not started: %v", err)
	}
	if watcher != nil {
		defer watcher.Stop()
	}

	final, err := p.Run()
	if m, ok := final.(chat.Model); ok {
		m.Shutdown()
	} else {
		model.Shutdown()
	}
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("chat exited: %w", err)
	}
	logging.Boot("chat exited")
	return nil
}
