// Package commands implements the srbot CLI using cobra.
package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the root command with all subcommands registered.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "srbot",
		Short: "SR AI Bot - Telegram assistant",
		Long: `SR AI Bot is a Telegram assistant that answers text and voice
messages with an LLM, draws images on request, and keeps a short
per-user conversation memory.

Examples:
  srbot serve    # webhook mode, requires WEBHOOK_URL
  srbot poll     # long-polling mode`,
		Version: version,
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newPollCmd(),
	)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	return rootCmd
}
