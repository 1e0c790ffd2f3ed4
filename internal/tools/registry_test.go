package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivay00001/goatcode/internal/memory"
)

// stubTool lets tests script tool behavior, including misbehavior.
type stubTool struct {
	name     string
	required []string
	execute  func(ctx context.Context, args map[string]any) (ToolResult, error)
}

func (t *stubTool) Name() string        { return t.name }
func (t *stubTool) Description() string { return "stub" }
func (t *stubTool) Schema() Schema      { return Schema{Required: t.required} }

func (t *stubTool) Execute(ctx context.Context, args map[string]any) (ToolResult, error) {
	return t.execute(ctx, args)
}

func TestRegistryExecuteUnknownTool(t *testing.T) {
	r := NewRegistry()
	res := r.Execute(context.Background(), "nope", nil)
	assert.False(t, res.Success)
	assert.Equal(t, "Tool not found: nope", res.Error)
}

func TestRegistryExecuteValidatesRequired(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&stubTool{
		name:     "needy",
		required: []string{"path"},
		execute: func(ctx context.Context, args map[string]any) (ToolResult, error) {
			return NewSuccessResult("ran"), nil
		},
	}))

	res := r.Execute(context.Background(), "needy", map[string]any{})
	assert.False(t, res.Success)
	assert.Equal(t, "Invalid parameters for tool needy: missing path", res.Error)

	res = r.Execute(context.Background(), "needy", map[string]any{"path": "/tmp"})
	assert.True(t, res.Success)
}

func TestRegistryExecuteConvertsError(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&stubTool{
		name: "broken",
		execute: func(ctx context.Context, args map[string]any) (ToolResult, error) {
			return ToolResult{}, errors.New("internal failure")
		},
	}))

	res := r.Execute(context.Background(), "broken", nil)
	assert.False(t, res.Success)
	assert.Equal(t, "internal failure", res.Error)
}

func TestRegistryExecuteRecoversPanic(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&stubTool{
		name: "bomb",
		execute: func(ctx context.Context, args map[string]any) (ToolResult, error) {
			panic("boom")
		},
	}))

	res := r.Execute(context.Background(), "bomb", nil)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "boom")
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	tool := &stubTool{name: "dup", execute: func(ctx context.Context, args map[string]any) (ToolResult, error) {
		return NewSuccessResult(nil), nil
	}}
	require.NoError(t, r.Register(tool))
	assert.Error(t, r.Register(tool))
}

func TestDefaultRegistryCatalog(t *testing.T) {
	r := DefaultRegistry(memory.NewStore())

	expected := []string{
		"read_file", "write_file", "list_directory", "search_project",
		"run_tests", "run_linter", "run_typecheck", "git_diff",
		"semantic_search", "memory_lookup", "memory_store", "security_scan",
	}
	names := r.Names()
	for _, name := range expected {
		assert.Contains(t, names, name)
	}
	assert.Len(t, names, len(expected))

	listings := r.List()
	for _, l := range listings {
		assert.NotEmpty(t, l.Name)
		assert.NotEmpty(t, l.Description)
	}
}
