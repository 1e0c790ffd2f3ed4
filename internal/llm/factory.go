package llm

import (
	"context"
	"fmt"

	"github.com/Shivay00001/goatcode/internal/config"
)

// New creates a provider by registered name. Supported names: "ollama",
// "openai", "anthropic", "gemini".
func New(ctx context.Context, cfg config.ProviderConfig) (Provider, error) {
	switch cfg.Name {
	case "ollama":
		return NewOllamaProvider(OllamaConfig{
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			HTTPTimeout: cfg.HTTPTimeout,
		})
	case "openai":
		return NewOpenAIProvider(OpenAIConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	case "anthropic":
		return NewAnthropicProvider(AnthropicConfig{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			HTTPTimeout: cfg.HTTPTimeout,
		})
	case "gemini":
		return NewGeminiProvider(ctx, GeminiConfig{
			APIKey: cfg.APIKey,
			Model:  cfg.Model,
		})
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Name)
	}
}

// NewRouterFromConfig builds the failover chain from config entries,
// in order.
func NewRouterFromConfig(ctx context.Context, entries []config.ProviderConfig) (*Router, error) {
	providers := make([]Provider, 0, len(entries))
	for _, entry := range entries {
		p, err := New(ctx, entry)
		if err != nil {
			return nil, fmt.Errorf("provider %s: %w", entry.Name, err)
		}
		providers = append(providers, p)
	}
	return NewRouter(providers)
}
