package llm

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"
)

// GeminiClient implements StreamClient for Gemini via the Google AI API.
type GeminiClient struct {
	client  *genai.Client
	modelID string

	Temperature float32
	MaxTokens   int32
}

func NewGeminiClient(ctx context.Context, modelName string, temperature float64) (*GeminiClient, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY must be set")
	}

	modelID := modelName
	if modelID == "" {
		modelID = os.Getenv("GEMINI_MODEL_ID")
	}
	if modelID == "" {
		modelID = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	return &GeminiClient{
		client:      client,
		modelID:     modelID,
		Temperature: float32(temperature),
		MaxTokens:   2048,
	}, nil
}

func (g *GeminiClient) Stream(ctx context.Context, systemMessage string, prompt string, onFragment func(string) error) error {
	genConfig := &genai.GenerateContentConfig{
		Temperature:     &g.Temperature,
		MaxOutputTokens: g.MaxTokens,
	}
	if systemMessage != "" {
		genConfig.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemMessage}},
		}
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	for resp, err := range g.client.Models.GenerateContentStream(ctx, g.modelID, contents, genConfig) {
		if err != nil {
			return fmt.Errorf("gemini GenerateContentStream: %w", err)
		}
		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				if part.Text == "" {
					continue
				}
				if err := onFragment(part.Text); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func (g *GeminiClient) Close() error {
	return nil
}
