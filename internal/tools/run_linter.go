package tools

import (
	"context"
	"path/filepath"
	"strings"
	"time"
)

const lintTimeout = 60 * time.Second

// RunLinterTool runs a project linter with auto-detection.
type RunLinterTool struct{}

func (t *RunLinterTool) Name() string { return "run_linter" }

func (t *RunLinterTool) Description() string {
	return "Run code linting"
}

func (t *RunLinterTool) Schema() Schema {
	return Schema{
		Required: []string{"path"},
		Properties: map[string]Property{
			"path": {Type: "string", Description: "Project directory"},
		},
	}
}

func (t *RunLinterTool) Execute(ctx context.Context, args map[string]any) (ToolResult, error) {
	path, _ := GetString(args, "path")

	cmd := detectLintCommand(path)
	if cmd == nil {
		return NewErrorResult("Could not detect linter"), nil
	}

	result, timedOut := runCommand(ctx, path, lintTimeout, cmd...)
	if timedOut {
		return NewErrorResult("Linter execution timed out"), nil
	}

	return ToolResult{
		Success:  result.returncode == 0,
		Data:     result.toMap(),
		Metadata: map[string]any{"command": strings.Join(cmd, " ")},
	}, nil
}

func detectLintCommand(dir string) []string {
	switch {
	case fileExists(filepath.Join(dir, "requirements.txt")):
		return []string{"python", "-m", "flake8", "."}
	case fileExists(filepath.Join(dir, ".eslintrc")), fileExists(filepath.Join(dir, ".eslintrc.js")):
		return []string{"npx", "eslint", "."}
	case fileExists(filepath.Join(dir, "pubspec.yaml")):
		return []string{"flutter", "analyze"}
	case fileExists(filepath.Join(dir, "go.mod")):
		return []string{"go", "vet", "./..."}
	}
	return nil
}
