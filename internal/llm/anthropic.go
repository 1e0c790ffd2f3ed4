package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Shivay00001/goatcode/internal/logging"
)

const anthropicVersion = "2023-06-01"

// AnthropicConfig holds configuration for a messages-API backend. BaseURL
// may point at any Anthropic-compatible endpoint.
type AnthropicConfig struct {
	APIKey      string
	BaseURL     string // Default: "https://api.anthropic.com"
	Model       string
	HTTPTimeout time.Duration
}

// AnthropicProvider implements Provider against the messages API.
type AnthropicProvider struct {
	config     AnthropicConfig
	httpClient *http.Client
}

// NewAnthropicProvider creates a messages-API provider.
func NewAnthropicProvider(config AnthropicConfig) (*AnthropicProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config.Model == "" {
		return nil, fmt.Errorf("model name is required")
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://api.anthropic.com"
	}
	if !strings.HasPrefix(config.BaseURL, "http://") && !strings.HasPrefix(config.BaseURL, "https://") {
		return nil, fmt.Errorf("invalid BaseURL: must start with http:// or https://")
	}
	if config.HTTPTimeout == 0 {
		config.HTTPTimeout = 120 * time.Second
	}

	return &AnthropicProvider{
		config:     config,
		httpClient: &http.Client{Timeout: config.HTTPTimeout},
	}, nil
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

// Wire types for the messages API.
type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float32            `json:"temperature,omitempty"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	Stream      bool               `json:"stream,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *AnthropicProvider) Generate(ctx context.Context, prompt string, opts GenerateOptions) (*Response, error) {
	return p.send(ctx, []anthropicMessage{{Role: "user", Content: prompt}}, opts)
}

func (p *AnthropicProvider) Chat(ctx context.Context, messages []Message, opts GenerateOptions) (*Response, error) {
	apiMessages := make([]anthropicMessage, 0, len(messages))
	for _, m := range messages {
		// System turns travel in the top-level system field, not the list.
		if m.Role == "system" {
			if opts.System == "" {
				opts.System = m.Content
			}
			continue
		}
		apiMessages = append(apiMessages, anthropicMessage{Role: m.Role, Content: m.Content})
	}
	return p.send(ctx, apiMessages, opts)
}

func (p *AnthropicProvider) send(ctx context.Context, messages []anthropicMessage, opts GenerateOptions) (*Response, error) {
	body, err := p.doRequest(ctx, p.buildRequest(messages, opts, false))
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var parsed anthropicResponse
	if err := json.NewDecoder(body).Decode(&parsed); err != nil {
		return nil, &ProviderError{Provider: p.Name(), Message: fmt.Sprintf("malformed response body: %v", err)}
	}

	var content string
	if len(parsed.Content) > 0 {
		content = parsed.Content[0].Text
	}

	return &Response{
		Content:      content,
		Provider:     p.Name(),
		Model:        p.config.Model,
		TokensUsed:   parsed.Usage.InputTokens + parsed.Usage.OutputTokens,
		FinishReason: parsed.StopReason,
	}, nil
}

func (p *AnthropicProvider) GenerateStream(ctx context.Context, prompt string, opts GenerateOptions) (<-chan string, error) {
	req := p.buildRequest([]anthropicMessage{{Role: "user", Content: prompt}}, opts, true)
	body, err := p.doRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	chunks := make(chan string, 10)
	go func() {
		defer close(chunks)
		defer body.Close()

		scanner := bufio.NewScanner(body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data: ") {
				continue
			}
			var event struct {
				Type  string `json:"type"`
				Delta struct {
					Type string `json:"type"`
					Text string `json:"text"`
				} `json:"delta"`
			}
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event); err != nil {
				continue
			}
			switch event.Type {
			case "content_block_delta":
				if event.Delta.Text != "" {
					select {
					case chunks <- event.Delta.Text:
					case <-ctx.Done():
						return
					}
				}
			case "message_stop":
				return
			}
		}
		if err := scanner.Err(); err != nil {
			logging.Warn("anthropic stream read failed", "error", err)
		}
	}()
	return chunks, nil
}

func (p *AnthropicProvider) buildRequest(messages []anthropicMessage, opts GenerateOptions, stream bool) anthropicRequest {
	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}
	return anthropicRequest{
		Model:       p.config.Model,
		MaxTokens:   maxTokens,
		Temperature: opts.Temperature,
		System:      opts.System,
		Messages:    messages,
		Stream:      stream,
	}
}

func (p *AnthropicProvider) doRequest(ctx context.Context, reqBody anthropicRequest) (io.ReadCloser, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	url := strings.TrimSuffix(p.config.BaseURL, "/") + "/v1/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.config.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, &ProviderUnavailableError{Provider: p.Name(), Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		msg := readErrorMessage(resp.Body)
		return nil, &ProviderError{
			Provider:   p.Name(),
			StatusCode: resp.StatusCode,
			Message:    msg,
		}
	}

	return resp.Body, nil
}

// readErrorMessage extracts the error message from a failed response body,
// falling back to raw text when the body is not JSON.
func readErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 8*1024))
	if err != nil {
		return "request failed"
	}
	var parsed anthropicResponse
	if err := json.Unmarshal(data, &parsed); err == nil && parsed.Error != nil {
		return parsed.Error.Message
	}
	return strings.TrimSpace(string(data))
}
