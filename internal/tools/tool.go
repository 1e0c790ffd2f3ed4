package tools

import (
	"context"
)

// Tool defines the interface for all tools.
type Tool interface {
	// Name returns the unique name of the tool.
	Name() string

	// Description returns a human-readable description.
	Description() string

	// Schema returns the parameter schema for this tool.
	Schema() Schema

	// Execute runs the tool with the given arguments.
	Execute(ctx context.Context, args map[string]any) (ToolResult, error)
}

// ToolResult represents the result of a tool execution. Tools report
// failures through the Error field rather than a Go error; a non-nil
// error from Execute means the tool itself broke, not that the
// operation it performs failed.
type ToolResult struct {
	// Success indicates if the tool executed successfully.
	Success bool `json:"success"`

	// Data contains the result payload (text or structured data).
	Data any `json:"data"`

	// Error contains an error message if the tool failed.
	Error string `json:"error,omitempty"`

	// Metadata carries execution details (paths, commands, counts).
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Schema describes a tool's parameters.
type Schema struct {
	Required   []string            `json:"required,omitempty"`
	Properties map[string]Property `json:"properties,omitempty"`
}

// Property describes a single schema parameter.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// NewSuccessResult creates a successful tool result.
func NewSuccessResult(data any) ToolResult {
	return ToolResult{
		Success: true,
		Data:    data,
	}
}

// NewSuccessResultWithMeta creates a successful tool result with metadata.
func NewSuccessResultWithMeta(data any, metadata map[string]any) ToolResult {
	return ToolResult{
		Success:  true,
		Data:     data,
		Metadata: metadata,
	}
}

// NewErrorResult creates a failed tool result.
func NewErrorResult(errMsg string) ToolResult {
	return ToolResult{
		Success: false,
		Error:   errMsg,
	}
}

// GetString extracts a string argument from the args map.
func GetString(args map[string]any, key string) (string, bool) {
	val, ok := args[key]
	if !ok {
		return "", false
	}
	str, ok := val.(string)
	return str, ok
}

// GetStringDefault extracts a string argument with a default value.
func GetStringDefault(args map[string]any, key, defaultVal string) string {
	if val, ok := GetString(args, key); ok {
		return val
	}
	return defaultVal
}

// GetInt extracts an integer argument from the args map.
func GetInt(args map[string]any, key string) (int, bool) {
	val, ok := args[key]
	if !ok {
		return 0, false
	}
	// JSON decoding produces numbers as float64
	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

// GetIntDefault extracts an integer argument with a default value.
func GetIntDefault(args map[string]any, key string, defaultVal int) int {
	if val, ok := GetInt(args, key); ok {
		return val
	}
	return defaultVal
}

// GetBool extracts a boolean argument from the args map.
func GetBool(args map[string]any, key string) (bool, bool) {
	val, ok := args[key]
	if !ok {
		return false, false
	}
	b, ok := val.(bool)
	return b, ok
}

// GetBoolDefault extracts a boolean argument with a default value.
func GetBoolDefault(args map[string]any, key string, defaultVal bool) bool {
	if val, ok := GetBool(args, key); ok {
		return val
	}
	return defaultVal
}
