package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()
	v := newViper()

	rootCmd := &cobra.Command{
		Use:   "scoretracker",
		Short: "CLI tool for the score tracker API",
		Long: `scoretracker is a CLI tool for interacting with the score tracker JSON API.

It covers the whole session: the player roster, scoring rules, recording and
editing rounds, the leaderboard, reset and clear, and live event streaming.

Settings can come from flags, SCORETRACKER_* environment variables or
~/.scoretracker/config.yaml.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(v, cmd.Flags()); err != nil {
				return err
			}

			// Create HTTP client
			client = NewClient(cfg.ServerURL)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().String("server", defaultServerURL, "Server URL (env: SCORETRACKER_SERVER)")
	rootCmd.PersistentFlags().StringP("output", "o", "text", "Output format: text, json (env: SCORETRACKER_OUTPUT)")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.scoretracker/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newHealthCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newLeaderboardCmd())
	rootCmd.AddCommand(newPlayerCmd())
	rootCmd.AddCommand(newGameCmd())
	rootCmd.AddCommand(newRulesCmd())
	rootCmd.AddCommand(newRoundCmd())
	rootCmd.AddCommand(newEventsCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
