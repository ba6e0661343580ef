package commands

import (
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
)

func newPollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "poll",
		Short: "Run in long-polling mode",
		Long: `Fetch updates by long polling instead of a webhook. Updates are
processed one at a time.`,
		RunE: runPoll,
	}
}

func runPoll(cmd *cobra.Command, _ []string) error {
	a, err := buildApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	// Drop any webhook left from a previous serve run; polling and
	// webhooks are mutually exclusive on the Telegram side.
	if _, err := a.tg.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		a.logger.Warn("Failed to delete webhook", "error", err)
	}

	a.bot.Start(1)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := a.tg.GetUpdatesChan(u)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-stop
		a.logger.Info("Shutting down", "signal", sig.String())
		a.tg.StopReceivingUpdates()
	}()

	a.logger.Info("Polling for updates")
	for update := range updates {
		if update.Message != nil {
			a.bot.Enqueue(update)
		}
	}
	return nil
}
