// Package bot drives Telegram updates through the intent classifier, reply
// generator, and media bridge.
package bot

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/svrvs/sr-ai-bot/internal/eventlog"
	"github.com/svrvs/sr-ai-bot/internal/media"
	"github.com/svrvs/sr-ai-bot/internal/memory"
	"github.com/svrvs/sr-ai-bot/internal/reply"
)

// TelegramAPI is the slice of *tgbotapi.BotAPI the handlers use.
type TelegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

// Bot holds the process-scoped state and dispatches inbound updates to a
// worker pool.
type Bot struct {
	tg         TelegramAPI
	store      *memory.Store
	gen        *reply.Generator
	bridge     *media.Bridge
	events     *eventlog.Log
	logger     *slog.Logger
	httpClient *http.Client

	jobs chan tgbotapi.Update
	wg   sync.WaitGroup
}

func New(tg TelegramAPI, store *memory.Store, gen *reply.Generator, bridge *media.Bridge, events *eventlog.Log, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		tg:         tg,
		store:      store,
		gen:        gen,
		bridge:     bridge,
		events:     events,
		logger:     logger,
		httpClient: &http.Client{},
		jobs:       make(chan tgbotapi.Update, 100),
	}
}

// Start launches the worker pool. The polling variant runs a single worker
// so updates are processed one at a time; the webhook variant runs several
// and relies on the store's per-user exchange lock for ordering.
func (b *Bot) Start(workers int) {
	if workers <= 0 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		b.wg.Add(1)
		go b.worker()
	}
}

// Enqueue hands one update to the worker pool.
func (b *Bot) Enqueue(update tgbotapi.Update) {
	b.jobs <- update
}

// Stop drains the pool and waits for in-flight updates.
func (b *Bot) Stop() {
	close(b.jobs)
	b.wg.Wait()
}

func (b *Bot) worker() {
	defer b.wg.Done()
	for update := range b.jobs {
		b.HandleUpdate(context.Background(), update)
	}
}

// HandleUpdate processes one inbound update.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	message := update.Message
	if message == nil || message.From == nil {
		return
	}

	switch {
	case message.IsCommand():
		b.handleCommand(message)
	case message.Voice != nil:
		b.handleVoice(ctx, message)
	case message.Text != "":
		b.handleText(ctx, message, message.Text)
	default:
		b.logger.Debug("ignoring unsupported message", "message_id", message.MessageID)
	}
}
