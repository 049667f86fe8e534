package main

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"supportchat/cmd/supportchat/ui"
	"supportchat/internal/clock"
	"supportchat/internal/config"
	"supportchat/internal/contacts"
	"supportchat/internal/conversation"
	"supportchat/internal/route"
	"supportchat/internal/timeline"
)

const defaultSimulateTimeout = 30 * time.Second

var (
	simulateDelay   time.Duration
	simulateTimeout time.Duration
	simulateSeed    bool
)

// simulateCmd runs a headless conversation
var simulateCmd = &cobra.Command{
	Use:   "simulate <message>...",
	Short: "Send messages headlessly and print the conversation",
	Long: `Loads the chat workspace and conversation page the way the interactive client
does, then sends every argument as one message, waits for every reply on the
wall clock and prints the timeline.

Example:
  supportchat simulate "Hello" "Is anyone there?" --delay 200ms`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSimulate,
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), simulateTimeout)
	defer cancel()

	clk := clock.Real()
	dir, opts, err := acquireChat(ctx, clk, cfg)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("delay") {
		opts.ReplyDelay = conversation.Delay(simulateDelay)
	}
	if simulateSeed {
		opts.Seed = timeline.DemoSeed()
	}

	logger.Debug("simulating", zap.String("messages", joinArgs(args)))
	msgs, err := simulate(ctx, clk, opts, args)
	if err != nil {
		return err
	}

	title := "Conversation"
	if active, ok := dir.Active(); ok {
		title += " with " + active.DisplayName
	}
	tbl := ui.NewTable(title, "time", "from", "message")
	for _, m := range msgs {
		tbl.AddRow(m.Timestamp.Format(cfg.GetTimeFormat()), m.Sender.String(), m.Text)
	}
	fmt.Fprint(cmd.OutOrStdout(), tbl.Render(ui.NewStyles(ui.ThemeByName("light"))))
	return nil
}

// acquireChat navigates a composer to the chat area and blocks until both the
// workspace (the contact directory) and the conversation page (the session
// options) are ready.
func acquireChat(ctx context.Context, clk clock.Clock, cfg *config.Config) (*contacts.Directory, conversation.Options, error) {
	comp := route.NewComposer(ctx, clk, route.Modules[*contacts.Directory, conversation.Options]{
		Shell: func(context.Context) (*contacts.Directory, error) {
			return cfg.Directory(), nil
		},
		ShellDelay: cfg.GetShellDelay(),
		Page: func(context.Context) (conversation.Options, error) {
			return cfg.SessionOptions(), nil
		},
		PageDelay: cfg.GetPageDelay(),
	})
	defer comp.Close()

	comp.Navigate(route.PathChat)
	if err := comp.Wait(ctx); err != nil {
		// An expired ctx also cancels the loads; report the cause.
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return nil, conversation.Options{}, fmt.Errorf("loading chat: %w", err)
	}
	dir, _ := comp.Shell()
	opts, _ := comp.Page()
	logger.Debug("chat loaded", zap.Int("contacts", dir.Len()))
	return dir, opts, nil
}

// simulate sends each message and blocks until every reply has landed.
func simulate(ctx context.Context, clk clock.Clock, opts conversation.Options, messages []string) ([]timeline.Message, error) {
	sess := conversation.Start(ctx, clk, opts)
	defer sess.Close()

	sendable := 0
	for _, m := range messages {
		if strings.TrimSpace(m) != "" {
			sendable++
		}
	}
	want := sess.Store().Len() + 2*sendable

	done := make(chan struct{})
	var once sync.Once
	unsubscribe := sess.Store().Subscribe(func(msgs []timeline.Message) {
		if len(msgs) >= want {
			once.Do(func() { close(done) })
		}
	})
	defer unsubscribe()

	for _, m := range messages {
		if _, ok := sess.Send(m); !ok {
			logger.Warn("skipping blank message")
		}
	}
	if sendable == 0 {
		return sess.Store().Current(), nil
	}

	select {
	case <-done:
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for replies: %w", ctx.Err())
	}
	logger.Info("simulation complete",
		zap.Int("sent", sendable),
		zap.Int("messages", sess.Store().Len()))
	return sess.Store().Current(), nil
}
