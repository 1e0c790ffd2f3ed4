package llm

import "context"

// Message is a single turn in a chat conversation.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// GenerateOptions carries the per-call knobs common to all providers.
type GenerateOptions struct {
	// System is the system prompt. Providers that take it as a top-level
	// field pass it there; chat-shaped providers prepend a system message.
	System string

	// Temperature controls sampling randomness. Zero means provider default.
	Temperature float32

	// MaxTokens caps the response length. Zero means provider default.
	MaxTokens int
}

// Response is the standardized response from any provider.
type Response struct {
	Content      string         `json:"content"`
	Provider     string         `json:"provider"`
	Model        string         `json:"model"`
	TokensUsed   int            `json:"tokens_used,omitempty"`
	FinishReason string         `json:"finish_reason,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// Provider is the uniform capability wrapper around one LLM backend.
// Callers never see protocol differences between backends.
type Provider interface {
	// Name returns the provider identifier (e.g. "ollama").
	Name() string

	// Generate produces a single completion for a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (*Response, error)

	// GenerateStream produces a finite sequence of text chunks. The
	// channel is closed when the response completes or fails; a stream
	// is not restartable.
	GenerateStream(ctx context.Context, prompt string, opts GenerateOptions) (<-chan string, error)

	// Chat produces a completion for a multi-turn conversation.
	Chat(ctx context.Context, messages []Message, opts GenerateOptions) (*Response, error)
}
