package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

type transcriptionResponse struct {
	Text string `json:"text"`
}

// TranscribeAudio uploads a local audio file and returns the transcribed text.
func (c *Client) TranscribeAudio(ctx context.Context, model, audioPath string) (string, error) {
	data, err := os.ReadFile(audioPath)
	if err != nil {
		return "", fmt.Errorf("error reading audio file: %v", err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", fmt.Errorf("error creating form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("error writing form file: %v", err)
	}
	if err := writer.WriteField("model", model); err != nil {
		return "", fmt.Errorf("error writing model field: %v", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("error closing multipart writer: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/audio/transcriptions", &buf)
	if err != nil {
		return "", fmt.Errorf("error creating HTTP request: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.APIKey))

	var transcription transcriptionResponse
	if err := c.do(req, &transcription); err != nil {
		return "", err
	}
	return transcription.Text, nil
}
