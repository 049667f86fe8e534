package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"supportchat/internal/config"
	"supportchat/internal/logging"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Logger for the non-interactive commands
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "supportchat",
	Short: "supportchat - terminal client for a simulated support conversation",
	Long: `supportchat opens a full-screen chat with a simulated support agent.

Navigation works like a small router: /auth is a placeholder sign-in area,
/chat loads the workspace and the conversation, anything else redirects to
sign in. Every message you send is answered by the agent after a short delay.

Run without arguments to start the interactive interface.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The interactive UI owns the terminal and logs to files only.
		if cmd == cmd.Root() {
			return nil
		}

		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: runInteractiveChat,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to the YAML config file")
	rootCmd.Flags().StringVarP(&initialPath, "path", "p", "", "Initial navigation path (default from config)")

	simulateCmd.Flags().DurationVar(&simulateDelay, "delay", 0, "Reply delay override (default from config)")
	simulateCmd.Flags().DurationVar(&simulateTimeout, "timeout", defaultSimulateTimeout, "How long to wait for replies")
	simulateCmd.Flags().BoolVar(&simulateSeed, "seed", false, "Start from the demo history")

	configInitCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(routeCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(contactsCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads and validates the config at configPath.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return cfg, nil
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
