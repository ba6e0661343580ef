// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration.
type Config struct {
	TelegramToken string
	OpenAIAPIKey  string
	WebhookURL    string
	Port          string

	ChatModel       string
	ImageModel      string
	ImageSize       string
	TranscribeModel string

	HistoryLimit int
	MaxSessions  int
	EventDBPath  string
	LogDisplay   int
	ClearScreen  bool
	BotDebug     bool
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		WebhookURL:    strings.TrimRight(os.Getenv("WEBHOOK_URL"), "/"),
		Port:          getEnv("PORT", "8000"),

		ChatModel:       getEnv("CHAT_MODEL", "gpt-4.1-mini"),
		ImageModel:      getEnv("IMAGE_MODEL", "dall-e-3"),
		ImageSize:       getEnv("IMAGE_SIZE", "1024x1024"),
		TranscribeModel: getEnv("TRANSCRIBE_MODEL", "whisper-1"),

		HistoryLimit: getEnvInt("HISTORY_LIMIT", 20),
		MaxSessions:  getEnvInt("MAX_SESSIONS", 1000),
		EventDBPath:  getEnv("EVENT_DB_PATH", ""),
		LogDisplay:   getEnvInt("LOG_DISPLAY", 15),
		ClearScreen:  getEnvBool("LOG_CLEAR_SCREEN", true),
		BotDebug:     getEnvBool("BOT_DEBUG", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN cannot be empty")
	}
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY cannot be empty")
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("HISTORY_LIMIT must be > 0")
	}
	if c.MaxSessions <= 0 {
		return fmt.Errorf("MAX_SESSIONS must be > 0")
	}
	if c.LogDisplay <= 0 {
		return fmt.Errorf("LOG_DISPLAY must be > 0")
	}
	return nil
}

// ValidateWebhook additionally requires the public callback URL, which only
// the webhook run mode needs.
func (c *Config) ValidateWebhook() error {
	if c.WebhookURL == "" {
		return fmt.Errorf("WEBHOOK_URL cannot be empty in webhook mode")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}
