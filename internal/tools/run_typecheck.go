package tools

import (
	"context"
	"path/filepath"
	"strings"
	"time"
)

const typecheckTimeout = 60 * time.Second

// RunTypecheckTool runs a type checker with auto-detection. Projects
// without one get an advisory success rather than a failure.
type RunTypecheckTool struct{}

func (t *RunTypecheckTool) Name() string { return "run_typecheck" }

func (t *RunTypecheckTool) Description() string {
	return "Run type checking"
}

func (t *RunTypecheckTool) Schema() Schema {
	return Schema{
		Required: []string{"path"},
		Properties: map[string]Property{
			"path": {Type: "string", Description: "Project directory"},
		},
	}
}

func (t *RunTypecheckTool) Execute(ctx context.Context, args map[string]any) (ToolResult, error) {
	path, _ := GetString(args, "path")

	cmd := detectTypecheckCommand(path)
	if cmd == nil {
		return NewSuccessResultWithMeta("No type checker configured", map[string]any{
			"note": "No type checker found",
		}), nil
	}

	result, timedOut := runCommand(ctx, path, typecheckTimeout, cmd...)
	if timedOut {
		return NewErrorResult("Type check timed out"), nil
	}

	res := ToolResult{
		Success:  result.returncode == 0,
		Data:     result.stdout,
		Metadata: map[string]any{"command": strings.Join(cmd, " ")},
	}
	if result.returncode != 0 {
		res.Error = result.stderr
		if res.Error == "" {
			res.Error = result.stdout
		}
	}
	return res, nil
}

func detectTypecheckCommand(dir string) []string {
	switch {
	case hasFilesMatching(dir, "*.py"):
		return []string{"python", "-m", "mypy", ".", "--show-error-codes"}
	case fileExists(filepath.Join(dir, "tsconfig.json")):
		return []string{"npx", "tsc", "--noEmit"}
	case fileExists(filepath.Join(dir, "pubspec.yaml")):
		return []string{"dart", "analyze"}
	case fileExists(filepath.Join(dir, "go.mod")):
		return []string{"go", "build", "./..."}
	}
	return nil
}

func hasFilesMatching(dir, pattern string) bool {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	return err == nil && len(matches) > 0
}
