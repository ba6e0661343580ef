package reply

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/svrvs/sr-ai-bot/api"
	"github.com/svrvs/sr-ai-bot/internal/memory"
)

type fakeCompleter struct {
	err   error
	reply string
	calls []api.ChatCompletionRequest
}

func (f *fakeCompleter) CreateChatCompletion(_ context.Context, req api.ChatCompletionRequest) (*api.ChatCompletionResponse, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	return &api.ChatCompletionResponse{
		Choices: []api.Choice{{Message: api.Message{Role: "assistant", Content: f.reply}}},
	}, nil
}

func TestGenerateAppendsBothTurns(t *testing.T) {
	store := memory.NewStore(10)
	client := &fakeCompleter{reply: "va alaykum assalom"}
	gen := NewGenerator(store, client, "gpt-4.1-mini", 20)

	got, err := gen.Generate(context.Background(), 1, "salom")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "va alaykum assalom" {
		t.Fatalf("unexpected reply: %q", got)
	}

	turns := store.Recent(1, 20)
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0].Role != memory.RoleUser || turns[0].Content != "salom" {
		t.Fatalf("unexpected first turn: %+v", turns[0])
	}
	if turns[1].Role != memory.RoleAssistant || turns[1].Content != "va alaykum assalom" {
		t.Fatalf("unexpected second turn: %+v", turns[1])
	}
}

func TestGenerateMessageListShape(t *testing.T) {
	store := memory.NewStore(10)
	for i := 0; i < 30; i++ {
		store.Append(5, memory.RoleUser, fmt.Sprintf("old-%d", i))
	}

	client := &fakeCompleter{reply: "ok"}
	gen := NewGenerator(store, client, "gpt-4.1-mini", 20)

	if _, err := gen.Generate(context.Background(), 5, "yangi savol"); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	req := client.calls[0]
	// Exactly one system entry first, then at most 20 turns, newest last.
	if len(req.Messages) != 21 {
		t.Fatalf("expected 21 outbound messages, got %d", len(req.Messages))
	}
	if req.Messages[0].Role != memory.RoleSystem {
		t.Fatalf("first message must be system, got %s", req.Messages[0].Role)
	}
	for _, m := range req.Messages[1:] {
		if m.Role == memory.RoleSystem {
			t.Fatal("found a second system entry in the outbound list")
		}
	}
	last := req.Messages[len(req.Messages)-1]
	if last.Content != "yangi savol" {
		t.Fatalf("new user turn must be last, got %v", last.Content)
	}
}

func TestGenerateFailureKeepsUserTurn(t *testing.T) {
	store := memory.NewStore(10)
	client := &fakeCompleter{err: &api.APIError{StatusCode: http.StatusInternalServerError, Status: "500"}}
	gen := NewGenerator(store, client, "gpt-4.1-mini", 20)

	_, err := gen.Generate(context.Background(), 2, "javobsiz savol")
	if err == nil {
		t.Fatal("expected failure")
	}

	turns := store.Recent(2, 20)
	if len(turns) != 1 {
		t.Fatalf("expected only the user turn retained, got %d turns", len(turns))
	}
	if turns[0].Role != memory.RoleUser || turns[0].Content != "javobsiz savol" {
		t.Fatalf("unexpected retained turn: %+v", turns[0])
	}

	// The unanswered turn is replayed as context on the next exchange.
	client.err = nil
	client.reply = "endi javob"
	if _, err := gen.Generate(context.Background(), 2, "yana urinish"); err != nil {
		t.Fatalf("second Generate: %v", err)
	}
	req := client.calls[1]
	found := false
	for _, m := range req.Messages {
		if m.Content == "javobsiz savol" {
			found = true
		}
	}
	if !found {
		t.Fatal("unanswered turn missing from replayed context")
	}
}

func TestFailureClassification(t *testing.T) {
	cases := []struct {
		err  error
		want FailureKind
	}{
		{&api.APIError{StatusCode: http.StatusUnauthorized}, FailureAuth},
		{&api.APIError{StatusCode: http.StatusForbidden}, FailureAuth},
		{&api.APIError{StatusCode: http.StatusTooManyRequests}, FailureQuota},
		{&api.APIError{StatusCode: http.StatusInternalServerError}, FailureNetwork},
		{errors.New("dial tcp: connection refused"), FailureNetwork},
	}

	for _, c := range cases {
		store := memory.NewStore(10)
		gen := NewGenerator(store, &fakeCompleter{err: c.err}, "m", 20)

		_, err := gen.Generate(context.Background(), 1, "x")
		var f *Failure
		if !errors.As(err, &f) {
			t.Fatalf("expected *Failure, got %T", err)
		}
		if f.Kind != c.want {
			t.Errorf("classify(%v) = %s, want %s", c.err, f.Kind, c.want)
		}
	}
}

func TestGenerateEmptyChoices(t *testing.T) {
	store := memory.NewStore(10)
	empty := &fakeCompleterEmpty{}
	gen := NewGenerator(store, empty, "m", 20)

	_, err := gen.Generate(context.Background(), 1, "x")
	var f *Failure
	if !errors.As(err, &f) || f.Kind != FailureEmpty {
		t.Fatalf("expected empty-choices failure, got %v", err)
	}
	if turns := store.Recent(1, 20); len(turns) != 1 {
		t.Fatalf("expected only the user turn, got %d", len(turns))
	}
}

type fakeCompleterEmpty struct{}

func (fakeCompleterEmpty) CreateChatCompletion(context.Context, api.ChatCompletionRequest) (*api.ChatCompletionResponse, error) {
	return &api.ChatCompletionResponse{}, nil
}
