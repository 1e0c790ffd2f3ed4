package tools

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const testTimeout = 120 * time.Second

// RunTestsTool runs the project test suite with framework auto-detection.
type RunTestsTool struct{}

func (t *RunTestsTool) Name() string { return "run_tests" }

func (t *RunTestsTool) Description() string {
	return "Run the project test suite"
}

func (t *RunTestsTool) Schema() Schema {
	return Schema{
		Required: []string{"path"},
		Properties: map[string]Property{
			"path":      {Type: "string", Description: "Project directory"},
			"test_path": {Type: "string", Description: "Specific test file or package"},
		},
	}
}

func (t *RunTestsTool) Execute(ctx context.Context, args map[string]any) (ToolResult, error) {
	path, _ := GetString(args, "path")
	testPath := GetStringDefault(args, "test_path", "")

	cmd := detectTestCommand(path, testPath)
	if cmd == nil {
		return NewErrorResult("Could not detect test framework"), nil
	}

	result, timedOut := runCommand(ctx, path, testTimeout, cmd...)
	if timedOut {
		return NewErrorResult("Test execution timed out"), nil
	}

	return ToolResult{
		Success:  result.returncode == 0,
		Data:     result.toMap(),
		Metadata: map[string]any{"command": strings.Join(cmd, " ")},
	}, nil
}

// detectTestCommand picks a test runner from project manifests.
func detectTestCommand(dir, testPath string) []string {
	switch {
	case fileExists(filepath.Join(dir, "pytest.ini")), fileExists(filepath.Join(dir, "setup.py")):
		cmd := []string{"python", "-m", "pytest", "-v"}
		if testPath != "" {
			cmd = append(cmd, testPath)
		}
		return cmd
	case fileExists(filepath.Join(dir, "package.json")):
		return []string{"npm", "test"}
	case fileExists(filepath.Join(dir, "pubspec.yaml")):
		return []string{"flutter", "test"}
	case fileExists(filepath.Join(dir, "go.mod")):
		return []string{"go", "test", "./..."}
	}
	return nil
}

// commandResult holds the captured output of a subprocess run.
type commandResult struct {
	stdout     string
	stderr     string
	returncode int
}

func (r commandResult) toMap() map[string]any {
	return map[string]any{
		"stdout":     r.stdout,
		"stderr":     r.stderr,
		"returncode": r.returncode,
	}
}

// runCommand executes a command in dir with a deadline. The second
// return value reports whether the deadline expired.
func runCommand(ctx context.Context, dir string, timeout time.Duration, name ...string) (commandResult, bool) {
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, name[0], name[1:]...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if errors.Is(cmdCtx.Err(), context.DeadlineExceeded) {
		return commandResult{}, true
	}

	returncode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			returncode = exitErr.ExitCode()
		} else {
			returncode = -1
			if stderr.Len() == 0 {
				stderr.WriteString(err.Error())
			}
		}
	}

	return commandResult{
		stdout:     stdout.String(),
		stderr:     stderr.String(),
		returncode: returncode,
	}, false
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
