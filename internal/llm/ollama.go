package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/Shivay00001/goatcode/internal/logging"
)

// OllamaConfig holds configuration for the local Ollama server.
type OllamaConfig struct {
	BaseURL     string        // Default: "http://localhost:11434"
	Model       string        // e.g. "llama3.2", "qwen2.5-coder"
	HTTPTimeout time.Duration // HTTP request timeout (default: 120s)
}

// OllamaProvider implements Provider against a local Ollama server.
type OllamaProvider struct {
	client *api.Client
	config OllamaConfig
}

// NewOllamaProvider creates a provider for the Ollama HTTP API.
func NewOllamaProvider(config OllamaConfig) (*OllamaProvider, error) {
	if config.Model == "" {
		return nil, fmt.Errorf("model name is required")
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}
	if config.HTTPTimeout == 0 {
		config.HTTPTimeout = 120 * time.Second
	}

	baseURL, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid BaseURL: %w", err)
	}

	httpClient := &http.Client{Timeout: config.HTTPTimeout}

	return &OllamaProvider{
		client: api.NewClient(baseURL, httpClient),
		config: config,
	}, nil
}

func (p *OllamaProvider) Name() string { return "ollama" }

// Healthcheck probes the server via GET /api/tags.
func (p *OllamaProvider) Healthcheck(ctx context.Context) error {
	if _, err := p.client.List(ctx); err != nil {
		return &ProviderUnavailableError{Provider: p.Name(), Err: err}
	}
	return nil
}

// ListModels returns the models available on the server.
func (p *OllamaProvider) ListModels(ctx context.Context) ([]string, error) {
	resp, err := p.client.List(ctx)
	if err != nil {
		return nil, p.wrapErr(err)
	}
	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

func (p *OllamaProvider) Generate(ctx context.Context, prompt string, opts GenerateOptions) (*Response, error) {
	req := &api.GenerateRequest{
		Model:   p.config.Model,
		Prompt:  prompt,
		System:  opts.System,
		Stream:  apiPtr(false),
		Options: buildOllamaOptions(opts),
	}

	var out *Response
	err := p.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		out = &Response{
			Content:    resp.Response,
			Provider:   p.Name(),
			Model:      p.config.Model,
			TokensUsed: resp.EvalCount,
			Metadata: map[string]any{
				"total_duration": resp.TotalDuration,
				"load_duration":  resp.LoadDuration,
			},
		}
		if resp.Done {
			out.FinishReason = "stop"
		}
		return nil
	})
	if err != nil {
		return nil, p.wrapErr(err)
	}
	if out == nil {
		return nil, &ProviderError{Provider: p.Name(), Message: "empty response"}
	}
	return out, nil
}

func (p *OllamaProvider) GenerateStream(ctx context.Context, prompt string, opts GenerateOptions) (<-chan string, error) {
	req := &api.GenerateRequest{
		Model:   p.config.Model,
		Prompt:  prompt,
		System:  opts.System,
		Stream:  apiPtr(true),
		Options: buildOllamaOptions(opts),
	}

	chunks := make(chan string, 10)
	go func() {
		defer close(chunks)
		err := p.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
			if resp.Response != "" {
				select {
				case chunks <- resp.Response:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
		if err != nil {
			logging.Warn("ollama stream ended with error", "error", err)
		}
	}()
	return chunks, nil
}

func (p *OllamaProvider) Chat(ctx context.Context, messages []Message, opts GenerateOptions) (*Response, error) {
	apiMessages := make([]api.Message, 0, len(messages)+1)
	if opts.System != "" {
		apiMessages = append(apiMessages, api.Message{Role: "system", Content: opts.System})
	}
	for _, m := range messages {
		apiMessages = append(apiMessages, api.Message{Role: m.Role, Content: m.Content})
	}

	req := &api.ChatRequest{
		Model:    p.config.Model,
		Messages: apiMessages,
		Stream:   apiPtr(false),
		Options:  buildOllamaOptions(opts),
	}

	var out *Response
	err := p.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		out = &Response{
			Content:    resp.Message.Content,
			Provider:   p.Name(),
			Model:      p.config.Model,
			TokensUsed: resp.EvalCount,
		}
		if resp.Done {
			out.FinishReason = "stop"
		}
		return nil
	})
	if err != nil {
		return nil, p.wrapErr(err)
	}
	if out == nil {
		return nil, &ProviderError{Provider: p.Name(), Message: "empty response"}
	}
	return out, nil
}

// wrapErr maps transport failures to ProviderUnavailableError and backend
// status failures to ProviderError.
func (p *OllamaProvider) wrapErr(err error) error {
	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		return &ProviderError{
			Provider:   p.Name(),
			StatusCode: statusErr.StatusCode,
			Message:    statusErr.ErrorMessage,
		}
	}
	return &ProviderUnavailableError{Provider: p.Name(), Err: err}
}

func buildOllamaOptions(opts GenerateOptions) map[string]any {
	options := map[string]any{}
	if opts.Temperature > 0 {
		options["temperature"] = opts.Temperature
	}
	if opts.MaxTokens > 0 {
		options["num_predict"] = opts.MaxTokens
	}
	return options
}

func apiPtr[T any](v T) *T { return &v }
