package api

import (
	"context"
	"fmt"
)

type ImageGenerationRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

type ImageGenerationResponse struct {
	Created int64 `json:"created"`
	Data    []struct {
		URL           string `json:"url"`
		RevisedPrompt string `json:"revised_prompt"`
	} `json:"data"`
}

// GenerateImage requests one image for the prompt and returns its URL.
func (c *Client) GenerateImage(ctx context.Context, model, prompt, size string) (string, error) {
	requestBody := ImageGenerationRequest{
		Model:  model,
		Prompt: prompt,
		N:      1,
		Size:   size,
	}

	var imageResponse ImageGenerationResponse
	if err := c.postJSON(ctx, "/images/generations", requestBody, &imageResponse); err != nil {
		return "", err
	}

	if len(imageResponse.Data) == 0 {
		return "", fmt.Errorf("no images in response")
	}
	return imageResponse.Data[0].URL, nil
}
