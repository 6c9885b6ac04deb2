package ai

import "context"

// Message is the provider-neutral chat turn passed to a Completer.
type Message struct {
	Role    string // "system" | "user" | "assistant"
	Content string
}

// Completer is the outbound LLM port. Implementations must honor ctx
// cancellation; callers are expected to pass bounded-timeout contexts.
type Completer interface {
	// Complete runs a single system+user exchange and returns the raw text.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// Chat runs a multi-turn exchange and returns the raw assistant text.
	Chat(ctx context.Context, messages []Message) (string, error)
}
