package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"

	"github.com/svrvs/sr-ai-bot/internal/server"
)

const serveWorkers = 4

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run in webhook mode",
		Long: `Register the webhook with Telegram and serve inbound updates over
HTTP. Requires WEBHOOK_URL, the public base URL Telegram can reach.`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := buildApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.cfg.ValidateWebhook(); err != nil {
		return err
	}

	wh, err := tgbotapi.NewWebhook(a.cfg.WebhookURL + "/webhook")
	if err != nil {
		return fmt.Errorf("building webhook config: %w", err)
	}
	if _, err := a.tg.Request(wh); err != nil {
		return fmt.Errorf("registering webhook: %w", err)
	}
	a.logger.Info("Webhook registered", "url", a.cfg.WebhookURL+"/webhook")

	a.bot.Start(serveWorkers)

	srv := &http.Server{
		Addr:    ":" + a.cfg.Port,
		Handler: server.New(a.bot, a.logger),
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Starting webhook server", "port", a.cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		a.logger.Info("Shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}
