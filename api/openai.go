// Package api is a thin client for the OpenAI HTTP endpoints the bot uses:
// chat completions, image generation, and audio transcription.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Client talks to the OpenAI API. BaseURL is overridable for tests.
type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:     apiKey,
		BaseURL:    defaultBaseURL,
		HTTPClient: &http.Client{},
	}
}

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("non-OK HTTP status: %s\nResponse body: %s", e.Status, e.Body)
}

type ChatCompletionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`

	TopP *float32 `json:"top_p,omitempty"`
	N    *int     `json:"n,omitempty"`
}

type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Message struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"` // string or []{type,text} segments
}

type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CreateChatCompletion requests one completion for the given message list.
func (c *Client) CreateChatCompletion(ctx context.Context, requestBody ChatCompletionRequest) (*ChatCompletionResponse, error) {
	var completionResponse ChatCompletionResponse
	if err := c.postJSON(ctx, "/chat/completions", requestBody, &completionResponse); err != nil {
		return nil, err
	}
	return &completionResponse, nil
}

func (c *Client) postJSON(ctx context.Context, path string, requestBody any, out any) error {
	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return fmt.Errorf("error marshalling request body: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error creating HTTP request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.APIKey))

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error sending HTTP request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("error unmarshalling response body: %v", err)
	}
	return nil
}

// ContentToString flattens a message content field that may be a plain
// string or a list of typed segments.
func ContentToString(content interface{}) string {
	if s, ok := content.(string); ok {
		return s
	}

	if parts, ok := content.([]interface{}); ok {
		var sb strings.Builder
		for _, p := range parts {
			m, ok := p.(map[string]interface{})
			if !ok {
				continue
			}
			t, _ := m["type"].(string)
			if t == "text" {
				if txt, ok := m["text"].(string); ok {
					sb.WriteString(txt)
				}
			}
		}
		if sb.Len() > 0 {
			return sb.String()
		}
		return fmt.Sprintf("%v", content)
	}

	return fmt.Sprintf("%v", content)
}
