package tools

import (
	"context"
	"strings"
	"time"
)

// GitDiffTool shows uncommitted changes in a repository.
type GitDiffTool struct{}

func (t *GitDiffTool) Name() string { return "git_diff" }

func (t *GitDiffTool) Description() string {
	return "Show git changes"
}

func (t *GitDiffTool) Schema() Schema {
	return Schema{
		Required: []string{"path"},
		Properties: map[string]Property{
			"path": {Type: "string", Description: "Repository directory"},
		},
	}
}

func (t *GitDiffTool) Execute(ctx context.Context, args map[string]any) (ToolResult, error) {
	path, _ := GetString(args, "path")

	result, timedOut := runCommand(ctx, path, 30*time.Second, "git", "diff")
	if timedOut {
		return NewErrorResult("git diff timed out"), nil
	}
	if result.returncode != 0 {
		return NewErrorResult(result.stderr), nil
	}

	return NewSuccessResultWithMeta(result.stdout, map[string]any{
		"files_changed": strings.Count(result.stdout, "diff --git"),
	}), nil
}
