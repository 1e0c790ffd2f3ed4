package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/Shivay00001/goatcode/internal/tools"
)

// Validator checks a generated change set against the project.
type Validator interface {
	ValidateAll(ctx context.Context, projectPath string, changes []FileChange, steps []string) *ValidationReport
}

// Engine is the production Validator. It drives the test, lint, and
// typecheck tools through the registry and folds their outcomes into a
// single report. Tool timeouts surface as failed checks, not errors.
type Engine struct {
	registry *tools.Registry
}

// NewEngine creates a validation engine over the given registry.
func NewEngine(registry *tools.Registry) *Engine {
	return &Engine{registry: registry}
}

// checkTools maps plan step keywords to the tools that implement them.
var checkTools = []struct {
	name     string
	keywords []string
}{
	{"run_tests", []string{"test"}},
	{"run_linter", []string{"lint"}},
	{"run_typecheck", []string{"type"}},
}

// ValidateAll runs every applicable check and reports the results.
// Plan validation steps select which checks run; with no recognizable
// steps, all three run.
func (e *Engine) ValidateAll(ctx context.Context, projectPath string, changes []FileChange, steps []string) *ValidationReport {
	report := &ValidationReport{Failures: []string{}}

	selected := selectChecks(steps)
	for _, toolName := range selected {
		res := e.registry.Execute(ctx, toolName, map[string]any{"path": projectPath})

		check := CheckResult{Name: toolName, Passed: res.Success}
		if !res.Success {
			check.Details = res.Error
			if check.Details == "" {
				check.Details = summarizeData(res.Data)
			}
			report.Failures = append(report.Failures, fmt.Sprintf("%s: %s", toolName, check.Details))
		}
		report.Checks = append(report.Checks, check)
	}

	passed := 0
	for _, c := range report.Checks {
		if c.Passed {
			passed++
		}
	}
	report.AllPassed = passed == len(report.Checks) && len(report.Checks) > 0
	report.SomePassed = passed > 0
	return report
}

// selectChecks maps plan steps to tool names, preserving check order.
func selectChecks(steps []string) []string {
	if len(steps) == 0 {
		return []string{"run_tests", "run_linter", "run_typecheck"}
	}

	var selected []string
	for _, ct := range checkTools {
		for _, step := range steps {
			lower := strings.ToLower(step)
			matched := false
			for _, kw := range ct.keywords {
				if strings.Contains(lower, kw) {
					matched = true
					break
				}
			}
			if matched {
				selected = append(selected, ct.name)
				break
			}
		}
	}
	if len(selected) == 0 {
		return []string{"run_tests", "run_linter", "run_typecheck"}
	}
	return selected
}

// summarizeData renders tool output data for a failure message.
func summarizeData(data any) string {
	m, ok := data.(map[string]any)
	if !ok {
		return fmt.Sprintf("%v", data)
	}
	if stderr, ok := m["stderr"].(string); ok && stderr != "" {
		return firstLines(stderr, 5)
	}
	if stdout, ok := m["stdout"].(string); ok && stdout != "" {
		return firstLines(stdout, 5)
	}
	return "check failed"
}

func firstLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}
