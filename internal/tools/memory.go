package tools

import (
	"context"
	"encoding/json"

	"github.com/Shivay00001/goatcode/internal/memory"
)

// MemoryLookupTool searches the pattern store for past resolutions.
type MemoryLookupTool struct {
	store *memory.Store
}

// NewMemoryLookupTool creates a lookup tool backed by the given store.
func NewMemoryLookupTool(store *memory.Store) *MemoryLookupTool {
	return &MemoryLookupTool{store: store}
}

func (t *MemoryLookupTool) Name() string { return "memory_lookup" }

func (t *MemoryLookupTool) Description() string {
	return "Search memory for similar solutions"
}

func (t *MemoryLookupTool) Schema() Schema {
	return Schema{
		Required: []string{"query"},
		Properties: map[string]Property{
			"query": {Type: "string", Description: "Search query"},
			"limit": {Type: "integer", Description: "Max patterns to return"},
		},
	}
}

func (t *MemoryLookupTool) Execute(ctx context.Context, args map[string]any) (ToolResult, error) {
	query, _ := GetString(args, "query")
	limit := GetIntDefault(args, "limit", 3)

	patterns := t.store.Lookup(query, limit)
	return NewSuccessResultWithMeta(patterns, map[string]any{
		"count": len(patterns),
	}), nil
}

// MemoryStoreTool records a resolution pattern in the store.
type MemoryStoreTool struct {
	store *memory.Store
}

// NewMemoryStoreTool creates a store tool backed by the given store.
func NewMemoryStoreTool(store *memory.Store) *MemoryStoreTool {
	return &MemoryStoreTool{store: store}
}

func (t *MemoryStoreTool) Name() string { return "memory_store" }

func (t *MemoryStoreTool) Description() string {
	return "Store a resolution pattern"
}

func (t *MemoryStoreTool) Schema() Schema {
	return Schema{
		Required: []string{"pattern"},
		Properties: map[string]Property{
			"pattern": {Type: "object", Description: "Resolution pattern to store"},
		},
	}
}

func (t *MemoryStoreTool) Execute(ctx context.Context, args map[string]any) (ToolResult, error) {
	pattern, err := decodePattern(args["pattern"])
	if err != nil {
		return NewErrorResult("invalid pattern: " + err.Error()), nil
	}

	t.store.Store(pattern)
	return NewSuccessResult("Pattern stored"), nil
}

// decodePattern accepts either a memory.Pattern or a JSON-shaped map.
func decodePattern(v any) (memory.Pattern, error) {
	if p, ok := v.(memory.Pattern); ok {
		return p, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return memory.Pattern{}, err
	}
	var p memory.Pattern
	if err := json.Unmarshal(raw, &p); err != nil {
		return memory.Pattern{}, err
	}
	return p, nil
}
