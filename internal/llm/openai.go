package llm

import (
	"context"
	"errors"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIConfig holds configuration for a chat-completions backend.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string // Optional, for OpenAI-compatible endpoints
	Model   string // e.g. "gpt-4o", "gpt-4o-mini"
}

// OpenAIProvider implements Provider against the chat-completions API.
type OpenAIProvider struct {
	client *openai.Client
	config OpenAIConfig
}

// NewOpenAIProvider creates a chat-completions provider.
func NewOpenAIProvider(config OpenAIConfig) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if config.Model == "" {
		return nil, fmt.Errorf("model name is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Generate(ctx context.Context, prompt string, opts GenerateOptions) (*Response, error) {
	return p.Chat(ctx, []Message{{Role: "user", Content: prompt}}, opts)
}

func (p *OpenAIProvider) Chat(ctx context.Context, messages []Message, opts GenerateOptions) (*Response, error) {
	resp, err := p.client.CreateChatCompletion(ctx, p.buildRequest(messages, opts, false))
	if err != nil {
		return nil, p.wrapErr(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &ProviderError{Provider: p.Name(), Message: "no choices in response"}
	}

	return &Response{
		Content:      resp.Choices[0].Message.Content,
		Provider:     p.Name(),
		Model:        p.config.Model,
		TokensUsed:   resp.Usage.TotalTokens,
		FinishReason: string(resp.Choices[0].FinishReason),
	}, nil
}

func (p *OpenAIProvider) GenerateStream(ctx context.Context, prompt string, opts GenerateOptions) (<-chan string, error) {
	req := p.buildRequest([]Message{{Role: "user", Content: prompt}}, opts, true)

	stream, err := p.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, p.wrapErr(err)
	}

	chunks := make(chan string, 10)
	go func() {
		defer close(chunks)
		defer stream.Close()
		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) || err != nil {
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}
			if delta := resp.Choices[0].Delta.Content; delta != "" {
				select {
				case chunks <- delta:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return chunks, nil
}

func (p *OpenAIProvider) buildRequest(messages []Message, opts GenerateOptions, stream bool) openai.ChatCompletionRequest {
	apiMessages := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	if opts.System != "" {
		apiMessages = append(apiMessages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: opts.System,
		})
	}
	for _, m := range messages {
		apiMessages = append(apiMessages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	return openai.ChatCompletionRequest{
		Model:       p.config.Model,
		Messages:    apiMessages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		Stream:      stream,
	}
}

func (p *OpenAIProvider) wrapErr(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &ProviderError{
			Provider:   p.Name(),
			StatusCode: apiErr.HTTPStatusCode,
			Message:    apiErr.Message,
		}
	}
	return &ProviderUnavailableError{Provider: p.Name(), Err: err}
}
