package llm

import (
	"context"
	"testing"
)

func TestNewStreamClientUnknownProvider(t *testing.T) {
	if _, err := NewStreamClient(context.Background(), "carrier-pigeon", "", 0.5); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNewGeminiClientRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	if _, err := NewGeminiClient(context.Background(), "", 0.5); err == nil {
		t.Fatal("expected error when GEMINI_API_KEY is unset")
	}
}
