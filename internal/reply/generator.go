// Package reply turns a user message plus bounded history into one
// assistant reply via the chat-completion API.
package reply

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/svrvs/sr-ai-bot/api"
	"github.com/svrvs/sr-ai-bot/internal/memory"
)

// SystemPrompt pins the bot's identity for every completion call.
const SystemPrompt = "Sen SvRvS_3003 tomonidan yaratilgan AI botsan. " +
	"2025-yilda ishga tushirilgansan. " +
	"Hech qachon OpenAI deb aytma."

// FailureKind distinguishes why a completion failed so callers can log and
// alert on something better than one apology string.
type FailureKind int

const (
	FailureNetwork FailureKind = iota
	FailureAuth
	FailureQuota
	FailureEmpty
)

func (k FailureKind) String() string {
	switch k {
	case FailureAuth:
		return "auth"
	case FailureQuota:
		return "quota"
	case FailureEmpty:
		return "empty"
	default:
		return "network"
	}
}

// Failure wraps a completion error with its kind.
type Failure struct {
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("completion failed (%s)", f.Kind)
	}
	return fmt.Sprintf("completion failed (%s): %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

func classify(err error) *Failure {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &Failure{Kind: FailureAuth, Err: err}
		case http.StatusTooManyRequests, http.StatusPaymentRequired:
			return &Failure{Kind: FailureQuota, Err: err}
		}
	}
	return &Failure{Kind: FailureNetwork, Err: err}
}

// Completer is the slice of the API client the generator needs.
type Completer interface {
	CreateChatCompletion(ctx context.Context, req api.ChatCompletionRequest) (*api.ChatCompletionResponse, error)
}

// Generator composes the system prompt with a user's recent history and
// requests one completion.
type Generator struct {
	store        *memory.Store
	client       Completer
	model        string
	systemPrompt string
	historyLimit int
}

func NewGenerator(store *memory.Store, client Completer, model string, historyLimit int) *Generator {
	if historyLimit <= 0 {
		historyLimit = 20
	}
	return &Generator{
		store:        store,
		client:       client,
		model:        model,
		systemPrompt: SystemPrompt,
		historyLimit: historyLimit,
	}
}

// Generate appends the user turn, requests a completion over the system
// prompt plus the last historyLimit turns, appends the assistant turn, and
// returns the reply text.
//
// On failure the user turn stays in the store and no assistant turn is
// added, so the unanswered turn is replayed as context on the next
// exchange. That retained-turn behavior is intentional and tested.
func (g *Generator) Generate(ctx context.Context, userID int64, text string) (string, error) {
	unlock := g.store.LockUser(userID)
	defer unlock()

	g.store.Append(userID, memory.RoleUser, text)

	history := g.store.Recent(userID, g.historyLimit)
	messages := make([]api.Message, 0, len(history)+1)
	messages = append(messages, api.Message{Role: memory.RoleSystem, Content: g.systemPrompt})
	for _, m := range history {
		messages = append(messages, api.Message{Role: m.Role, Content: m.Content})
	}

	resp, err := g.client.CreateChatCompletion(ctx, api.ChatCompletionRequest{
		Model:    g.model,
		Messages: messages,
	})
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", &Failure{Kind: FailureEmpty, Err: fmt.Errorf("no choices in response")}
	}

	replyText := api.ContentToString(resp.Choices[0].Message.Content)
	g.store.Append(userID, memory.RoleAssistant, replyText)
	return replyText, nil
}
