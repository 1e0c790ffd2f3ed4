package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/Shivay00001/goatcode/internal/logging"
)

// GeminiConfig holds configuration for the Gemini API backend.
type GeminiConfig struct {
	APIKey string
	Model  string // e.g. "gemini-2.5-flash"
}

// GeminiProvider implements Provider against the Gemini API.
type GeminiProvider struct {
	client *genai.Client
	config GeminiConfig
}

// NewGeminiProvider creates a Gemini API provider.
func NewGeminiProvider(ctx context.Context, config GeminiConfig) (*GeminiProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if config.Model == "" {
		return nil, fmt.Errorf("model name is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  config.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{client: client, config: config}, nil
}

func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) Generate(ctx context.Context, prompt string, opts GenerateOptions) (*Response, error) {
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	return p.generate(ctx, contents, opts)
}

func (p *GeminiProvider) Chat(ctx context.Context, messages []Message, opts GenerateOptions) (*Response, error) {
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		role := genai.Role(genai.RoleUser)
		if m.Role == "assistant" {
			role = genai.RoleModel
		}
		if m.Role == "system" {
			if opts.System == "" {
				opts.System = m.Content
			}
			continue
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}
	return p.generate(ctx, contents, opts)
}

func (p *GeminiProvider) generate(ctx context.Context, contents []*genai.Content, opts GenerateOptions) (*Response, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.config.Model, contents, p.buildConfig(opts))
	if err != nil {
		return nil, p.wrapErr(err)
	}

	out := &Response{
		Content:  resp.Text(),
		Provider: p.Name(),
		Model:    p.config.Model,
	}
	if resp.UsageMetadata != nil {
		out.TokensUsed = int(resp.UsageMetadata.TotalTokenCount)
	}
	if len(resp.Candidates) > 0 {
		out.FinishReason = string(resp.Candidates[0].FinishReason)
	}
	return out, nil
}

func (p *GeminiProvider) GenerateStream(ctx context.Context, prompt string, opts GenerateOptions) (<-chan string, error) {
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	iter := p.client.Models.GenerateContentStream(ctx, p.config.Model, contents, p.buildConfig(opts))

	chunks := make(chan string, 10)
	go func() {
		defer close(chunks)
		for resp, err := range iter {
			if err != nil {
				logging.Warn("gemini stream ended with error", "error", err)
				return
			}
			if text := resp.Text(); text != "" {
				select {
				case chunks <- text:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return chunks, nil
}

// wrapErr maps backend status failures to ProviderError and everything else
// to ProviderUnavailableError.
func (p *GeminiProvider) wrapErr(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &ProviderError{
			Provider:   p.Name(),
			StatusCode: apiErr.Code,
			Message:    apiErr.Message,
		}
	}
	return &ProviderUnavailableError{Provider: p.Name(), Err: err}
}

func (p *GeminiProvider) buildConfig(opts GenerateOptions) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}
	if opts.Temperature > 0 {
		config.Temperature = genai.Ptr(opts.Temperature)
	}
	if opts.MaxTokens > 0 {
		config.MaxOutputTokens = int32(opts.MaxTokens)
	}
	if opts.System != "" {
		config.SystemInstruction = genai.NewContentFromText(opts.System, genai.RoleUser)
	}
	return config
}
