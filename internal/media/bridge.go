// Package media proxies voice transcription and image generation.
package media

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Transcriber converts a local audio file to text.
type Transcriber interface {
	TranscribeAudio(ctx context.Context, model, audioPath string) (string, error)
}

// ImageGenerator turns a text prompt into an image URL.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, model, prompt, size string) (string, error)
}

// Bridge is a pure proxy to the speech and image endpoints. No retries;
// callers catch and report failures.
type Bridge struct {
	transcriber     Transcriber
	imageGenerator  ImageGenerator
	transcribeModel string
	imageModel      string
	imageSize       string
}

func NewBridge(t Transcriber, g ImageGenerator, transcribeModel, imageModel, imageSize string) *Bridge {
	return &Bridge{
		transcriber:     t,
		imageGenerator:  g,
		transcribeModel: transcribeModel,
		imageModel:      imageModel,
		imageSize:       imageSize,
	}
}

// Transcribe returns the text for a local audio file.
func (b *Bridge) Transcribe(ctx context.Context, audioPath string) (string, error) {
	return b.transcriber.TranscribeAudio(ctx, b.transcribeModel, audioPath)
}

// TranscribeReader spools the audio stream to a temporary file, transcribes
// it, and removes the file whether or not transcription succeeded.
func (b *Bridge) TranscribeReader(ctx context.Context, r io.Reader) (string, error) {
	tmp, err := os.CreateTemp("", "voice-*.ogg")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	return b.Transcribe(ctx, tmp.Name())
}

// GenerateImage returns a URL for an image matching the prompt.
func (b *Bridge) GenerateImage(ctx context.Context, prompt string) (string, error) {
	return b.imageGenerator.GenerateImage(ctx, b.imageModel, prompt, b.imageSize)
}
