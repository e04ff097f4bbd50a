package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAIClient implements StreamClient for OpenAI-compatible APIs through
// langchaingo. API key falls back to the OPENAI_API_KEY env var.
type OpenAIClient struct {
	llm         llms.Model
	temperature float64
}

func NewOpenAIClient(modelName string, temperature float64) (*OpenAIClient, error) {
	if modelName == "" {
		modelName = "gpt-4o-mini"
	}

	llm, err := openai.New(openai.WithModel(modelName))
	if err != nil {
		return nil, fmt.Errorf("create langchain openai client: %w", err)
	}

	return &OpenAIClient{llm: llm, temperature: temperature}, nil
}

func (c *OpenAIClient) Stream(ctx context.Context, systemMessage string, prompt string, onFragment func(string) error) error {
	msgContents := make([]llms.MessageContent, 0, 2)
	if systemMessage != "" {
		msgContents = append(msgContents, llms.TextParts(llms.ChatMessageTypeSystem, systemMessage))
	}
	msgContents = append(msgContents, llms.TextParts(llms.ChatMessageTypeHuman, prompt))

	_, err := c.llm.GenerateContent(ctx, msgContents,
		llms.WithTemperature(c.temperature),
		llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
			if len(chunk) == 0 {
				return nil
			}
			return onFragment(string(chunk))
		}),
	)
	return err
}

func (c *OpenAIClient) Close() error {
	return nil
}
