package service

import "context"

// Completer defines the interface for chat completion generation. Every
// call is a single attempt; callers fall back deterministically on failure
// rather than retrying.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float32) (string, error)
}
