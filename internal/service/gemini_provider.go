package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiProvider implements AIContentProvider on the Gemini API. Text models are
// tried in order and the next one is used when a model is rate limited or missing.
type GeminiProvider struct {
	client     *genai.Client
	textModels []string
	imageModel string
}

func NewGeminiProvider(ctx context.Context, apiKey string, textModels []string, imageModel string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is required")
	}
	if len(textModels) == 0 {
		return nil, errors.New("at least one text model is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	return &GeminiProvider{client: client, textModels: textModels, imageModel: imageModel}, nil
}

func (g *GeminiProvider) GenerateJSON(ctx context.Context, systemPrompt, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
		ResponseMIMEType:  "application/json",
	}

	var lastErr error
	for _, model := range g.textModels {
		result, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), config)
		if err != nil {
			if retryableModelError(err) {
				lastErr = err
				continue
			}
			return "", err
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil &&
			len(result.Candidates[0].Content.Parts) > 0 {
			return result.Candidates[0].Content.Parts[0].Text, nil
		}
		lastErr = fmt.Errorf("model %s returned no content", model)
	}

	return "", fmt.Errorf("all text models failed: %w", lastErr)
}

func (g *GeminiProvider) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	resp, err := g.client.Models.GenerateImages(ctx, g.imageModel, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return nil, errors.New("image model returned no image")
	}
	return resp.GeneratedImages[0].Image.ImageBytes, nil
}

func retryableModelError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"429", "rate limit", "exhausted", "404", "not found"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
