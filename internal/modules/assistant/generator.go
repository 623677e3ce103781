package assistant

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// Generator turns a prompt into free text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator calls the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a generator for model.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.9),
		TopK:            genai.Ptr[float32](1),
		TopP:            genai.Ptr[float32](1),
		MaxOutputTokens: 2048,
	})
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("Gemini API returned an empty response")
	}
	return text, nil
}

// unavailable stands in when no API key is configured.
type unavailable struct{}

// Unavailable returns a Generator that always fails.
func Unavailable() Generator { return unavailable{} }

func (unavailable) Generate(context.Context, string) (string, error) {
	return "", errors.New("the AI assistant is not configured")
}
