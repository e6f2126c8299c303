package models

import (
	"context"
)

// LLM is the chat-completion capability consumed by the summarizer.
// Implementations wrap an external model service; precis never runs
// inference itself.
type LLM interface {
	// Call runs a chat completion against the prompt and returns the
	// completion text.
	Call(ctx context.Context, prompt string, maxTokens int) (string, error)
	// GetTokenCount returns the number of tokens in the given text.
	GetTokenCount(text string) (int, error)
	// MaxInputTokens returns the context budget available for prompts.
	MaxInputTokens() int
}
