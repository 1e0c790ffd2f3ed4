package llm

import (
	"context"
	"fmt"
	"sync"

	"github.com/Shivay00001/goatcode/internal/logging"
)

// Caller is the subset of Provider the orchestrator needs. Router satisfies
// it, as does any single Provider.
type Caller interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (*Response, error)
	Chat(ctx context.Context, messages []Message, opts GenerateOptions) (*Response, error)
}

// Router sequences multiple providers with failover. The index of the last
// successful provider is sticky: it becomes the starting point for the next
// call, so failover cost is paid once per unhealthy provider, not per call.
type Router struct {
	providers []Provider
	current   int
	mu        sync.Mutex
}

// NewRouter creates a router over an ordered provider chain.
// At least one provider must be given.
func NewRouter(providers []Provider) (*Router, error) {
	if len(providers) == 0 {
		return nil, fmt.Errorf("router requires at least one provider")
	}
	return &Router{providers: providers}, nil
}

// Current returns the index of the currently preferred provider.
func (r *Router) Current() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Providers returns the router's provider chain in order.
func (r *Router) Providers() []Provider {
	return r.providers
}

// Generate tries providers starting at the current index, wrapping around.
// One pass only: a transient failure on every provider within a single call
// is surfaced, not retried.
func (r *Router) Generate(ctx context.Context, prompt string, opts GenerateOptions) (*Response, error) {
	return r.route(ctx, func(ctx context.Context, p Provider) (*Response, error) {
		return p.Generate(ctx, prompt, opts)
	})
}

// Chat tries providers with the same failover discipline as Generate.
func (r *Router) Chat(ctx context.Context, messages []Message, opts GenerateOptions) (*Response, error) {
	return r.route(ctx, func(ctx context.Context, p Provider) (*Response, error) {
		return p.Chat(ctx, messages, opts)
	})
}

func (r *Router) route(ctx context.Context, call func(context.Context, Provider) (*Response, error)) (*Response, error) {
	r.mu.Lock()
	start := r.current
	r.mu.Unlock()

	n := len(r.providers)
	var lastErr error

	for i := 0; i < n; i++ {
		idx := (start + i) % n
		provider := r.providers[idx]

		resp, err := call(ctx, provider)
		if err == nil {
			r.mu.Lock()
			r.current = idx
			r.mu.Unlock()
			return resp, nil
		}

		lastErr = err
		logging.Warn("provider call failed, advancing",
			"provider", provider.Name(),
			"index", idx,
			"error", err.Error())

		// A cancelled context fails everywhere; stop the pass early.
		if ctx.Err() != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("all providers failed, last error: %w", lastErr)
}
