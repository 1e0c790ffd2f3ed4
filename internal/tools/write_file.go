package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// WriteFileTool writes content to a file, backing up any prior version.
type WriteFileTool struct{}

func (t *WriteFileTool) Name() string { return "write_file" }

func (t *WriteFileTool) Description() string {
	return "Write or overwrite a file"
}

func (t *WriteFileTool) Schema() Schema {
	return Schema{
		Required: []string{"path", "content"},
		Properties: map[string]Property{
			"path":    {Type: "string", Description: "Path to write"},
			"content": {Type: "string", Description: "File content"},
		},
	}
}

func (t *WriteFileTool) Execute(ctx context.Context, args map[string]any) (ToolResult, error) {
	path, _ := GetString(args, "path")
	content, _ := GetString(args, "content")

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return NewErrorResult(err.Error()), nil
	}

	// Preserve the prior version next to the file before overwriting.
	if prior, err := os.ReadFile(path); err == nil {
		if err := os.WriteFile(backupPath(path), prior, 0644); err != nil {
			return NewErrorResult(err.Error()), nil
		}
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return NewErrorResult(err.Error()), nil
	}

	return NewSuccessResultWithMeta(path, map[string]any{
		"bytes_written": len(content),
	}), nil
}

// backupPath swaps the file extension for .bak (a.txt becomes a.bak).
func backupPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".bak"
}
