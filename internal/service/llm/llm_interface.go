package llm

import "context"

// ChatProvider defines the interface for chat-completion providers
type ChatProvider interface {
	// Complete sends a single system + user exchange and returns the reply text
	Complete(ctx context.Context, systemPrompt, userMessage string, maxTokens int, temperature float32) (string, error)

	// IsConfigured reports whether the provider has credentials
	IsConfigured() bool
}
