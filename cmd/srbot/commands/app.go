package commands

import (
	"log/slog"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/svrvs/sr-ai-bot/api"
	"github.com/svrvs/sr-ai-bot/internal/bot"
	"github.com/svrvs/sr-ai-bot/internal/config"
	"github.com/svrvs/sr-ai-bot/internal/eventlog"
	"github.com/svrvs/sr-ai-bot/internal/media"
	"github.com/svrvs/sr-ai-bot/internal/memory"
	"github.com/svrvs/sr-ai-bot/internal/reply"
)

// app bundles the process-scoped state: constructed at startup, injected
// into handlers, torn down at shutdown.
type app struct {
	cfg     *config.Config
	tg      *tgbotapi.BotAPI
	bot     *bot.Bot
	archive *eventlog.Archive
	logger  *slog.Logger
}

func buildApp(cmd *cobra.Command) (*app, error) {
	verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose")
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	// The event table owns stdout; structured logs go to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	tg, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, err
	}
	tg.Debug = cfg.BotDebug
	logger.Info("Authorized on Telegram", "account", tg.Self.UserName)

	client := api.NewClient(cfg.OpenAIAPIKey)
	store := memory.NewStore(cfg.MaxSessions)
	gen := reply.NewGenerator(store, client, cfg.ChatModel, cfg.HistoryLimit)
	bridge := media.NewBridge(client, client, cfg.TranscribeModel, cfg.ImageModel, cfg.ImageSize)

	opts := []eventlog.Option{eventlog.WithClearScreen(cfg.ClearScreen)}
	var archive *eventlog.Archive
	if cfg.EventDBPath != "" {
		archive, err = eventlog.OpenArchive(cfg.EventDBPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, eventlog.WithArchive(archive))
		logger.Info("Event archive enabled", "path", cfg.EventDBPath)
	}
	events := eventlog.New(os.Stdout, cfg.LogDisplay, logger, opts...)

	return &app{
		cfg:     cfg,
		tg:      tg,
		bot:     bot.New(tg, store, gen, bridge, events, logger),
		archive: archive,
		logger:  logger,
	}, nil
}

func (a *app) close() {
	a.bot.Stop()
	if a.archive != nil {
		if err := a.archive.Close(); err != nil {
			a.logger.Error("Failed to close event archive", "error", err)
		}
	}
}
