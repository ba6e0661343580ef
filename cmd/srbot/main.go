// srbot is the SR AI Telegram bot.
package main

import (
	"fmt"
	"os"

	"github.com/svrvs/sr-ai-bot/cmd/srbot/commands"
)

// version is injected at build time via ldflags.
var version = "dev"

func main() {
	rootCmd := commands.NewRootCmd(version)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
