// Package server exposes the webhook and health endpoints.
package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Enqueuer accepts decoded updates for processing.
type Enqueuer interface {
	Enqueue(update tgbotapi.Update)
}

// New builds the HTTP handler: POST /webhook for Telegram updates and
// GET / as a health check.
func New(sink Enqueuer, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/webhook", func(w http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			logger.Error("failed to read webhook body", "error", err)
			writeJSON(w, http.StatusBadRequest, map[string]bool{"ok": false})
			return
		}

		var update tgbotapi.Update
		if err := json.Unmarshal(body, &update); err != nil {
			// One bad payload must not take the handler down; reject it
			// and keep serving.
			logger.Warn("rejecting malformed update", "error", err)
			writeJSON(w, http.StatusBadRequest, map[string]bool{"ok": false})
			return
		}

		sink.Enqueue(update)
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
