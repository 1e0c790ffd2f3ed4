package tools

import (
	"context"
	"fmt"
	"sync"

	"github.com/Shivay00001/goatcode/internal/logging"
	"github.com/Shivay00001/goatcode/internal/memory"
)

// Registry manages the collection of available tools.
type Registry struct {
	tools map[string]Tool
	mu    sync.RWMutex
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// DefaultRegistry creates a registry with the full tool catalog
// registered. The memory store backs memory_lookup and memory_store.
func DefaultRegistry(store *memory.Store) *Registry {
	r := NewRegistry()
	catalog := []Tool{
		&ReadFileTool{},
		&WriteFileTool{},
		&ListDirectoryTool{},
		&SearchProjectTool{},
		&RunTestsTool{},
		&RunLinterTool{},
		&RunTypecheckTool{},
		&GitDiffTool{},
		&SemanticSearchTool{},
		NewMemoryLookupTool(store),
		NewMemoryStoreTool(store),
		NewSecurityScanTool(),
	}
	for _, tool := range catalog {
		if err := r.Register(tool); err != nil {
			logging.Warn("failed to register tool", "tool", tool.Name(), "error", err)
		}
	}
	return r
}

// Register adds a tool to the registry.
func (r *Registry) Register(tool Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := tool.Name()
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool already registered: %s", name)
	}

	r.tools[name] = tool
	return nil
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, ok := r.tools[name]
	return tool, ok
}

// Names returns the names of all registered tools.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	return names
}

// Listing describes a registered tool for prompt injection.
type Listing struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Schema      Schema `json:"parameters"`
}

// List returns a listing of every registered tool.
func (r *Registry) List() []Listing {
	r.mu.RLock()
	defer r.mu.RUnlock()

	listings := make([]Listing, 0, len(r.tools))
	for _, tool := range r.tools {
		listings = append(listings, Listing{
			Name:        tool.Name(),
			Description: tool.Description(),
			Schema:      tool.Schema(),
		})
	}
	return listings
}

// Execute runs a tool by name. It never returns a Go error: unknown
// tools, missing required parameters, tool errors, and panics all
// surface as a failed ToolResult.
func (r *Registry) Execute(ctx context.Context, name string, params map[string]any) (result ToolResult) {
	defer func() {
		if rec := recover(); rec != nil {
			logging.Error("tool panicked", "tool", name, "panic", rec)
			result = NewErrorResult(fmt.Sprintf("Tool %s panicked: %v", name, rec))
		}
	}()

	tool, ok := r.Get(name)
	if !ok {
		return NewErrorResult(fmt.Sprintf("Tool not found: %s", name))
	}

	for _, key := range tool.Schema().Required {
		if _, present := params[key]; !present {
			return NewErrorResult(fmt.Sprintf("Invalid parameters for tool %s: missing %s", name, key))
		}
	}

	res, err := tool.Execute(ctx, params)
	if err != nil {
		logging.Warn("tool execution error", "tool", name, "error", err)
		return NewErrorResult(err.Error())
	}
	return res
}
