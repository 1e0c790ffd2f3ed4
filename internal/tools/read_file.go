package tools

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// ReadFileTool reads file contents, optionally limited to the first N lines.
type ReadFileTool struct{}

func (t *ReadFileTool) Name() string { return "read_file" }

func (t *ReadFileTool) Description() string {
	return "Read the contents of a file"
}

func (t *ReadFileTool) Schema() Schema {
	return Schema{
		Required: []string{"path"},
		Properties: map[string]Property{
			"path":  {Type: "string", Description: "Path to the file"},
			"limit": {Type: "integer", Description: "Max lines to read"},
		},
	}
}

func (t *ReadFileTool) Execute(ctx context.Context, args map[string]any) (ToolResult, error) {
	path, _ := GetString(args, "path")
	limit := GetIntDefault(args, "limit", 0)

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewErrorResult(fmt.Sprintf("File not found: %s", path)), nil
		}
		return NewErrorResult(err.Error()), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return NewErrorResult(err.Error()), nil
	}

	content := string(raw)
	if limit > 0 {
		lines := strings.SplitAfter(content, "\n")
		if len(lines) > limit {
			content = strings.Join(lines[:limit], "")
		}
	}

	return NewSuccessResultWithMeta(content, map[string]any{
		"path":  path,
		"size":  info.Size(),
		"lines": strings.Count(content, "\n"),
	}), nil
}
