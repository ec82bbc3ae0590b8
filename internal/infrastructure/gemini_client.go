package infrastructure

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const geminiModel = "gemini-2.0-flash"

// GeminiClient wraps the Gemini generative-text API behind the AIClient port.
type GeminiClient struct {
	client *genai.Client
}

// NewGeminiClient returns an error when no API key is configured; callers
// treat that as the Unconfigured state rather than carrying a nil client.
func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiClient{client: client}, nil
}

// GenerateText runs one completion with bounded output length. Every error
// class (auth, quota, network, empty candidates) surfaces uniformly as an
// error so the caller can fall back to templates.
func (g *GeminiClient) GenerateText(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(temperature),
		TopP:            genai.Ptr[float32](0.95),
		MaxOutputTokens: int32(maxTokens),
	}

	result, err := g.client.Models.GenerateContent(ctx, geminiModel, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	return result.Candidates[0].Content.Parts[0].Text, nil
}
