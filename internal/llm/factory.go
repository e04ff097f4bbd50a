package llm

import (
	"context"
	"fmt"
	"strings"
)

// NewStreamClient selects a provider by configuration tag. Unknown tags fail
// before any upstream call is made.
func NewStreamClient(ctx context.Context, modelType string, modelName string, temperature float64) (StreamClient, error) {
	switch strings.ToLower(modelType) {
	case "gemini":
		return NewGeminiClient(ctx, modelName, temperature)
	case "openai":
		return NewOpenAIClient(modelName, temperature)
	default:
		return nil, fmt.Errorf("unknown provider %s", modelType)
	}
}
