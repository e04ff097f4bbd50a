package llm

import (
	"context"
)

// StreamClient produces one generation as an ordered sequence of text
// fragments delivered through onFragment. Stream returns after the upstream
// sequence ends; a non-nil error means the generation terminated abnormally.
type StreamClient interface {
	Stream(ctx context.Context, systemMessage string, prompt string, onFragment func(fragment string) error) error
	Close() error
}

// ClientFactory resolves a provider tag to a concrete StreamClient.
type ClientFactory func(ctx context.Context, modelType string, modelName string, temperature float64) (StreamClient, error)
