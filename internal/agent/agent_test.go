package agent

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivay00001/goatcode/internal/config"
	"github.com/Shivay00001/goatcode/internal/llm"
	"github.com/Shivay00001/goatcode/internal/memory"
	"github.com/Shivay00001/goatcode/internal/tools"
)

// scriptedCaller replays a fixed sequence of LLM responses and records
// every prompt it was given.
type scriptedCaller struct {
	responses []string
	errs      []error
	calls     []llm.GenerateOptions
	prompts   []string
}

func (c *scriptedCaller) Generate(ctx context.Context, prompt string, opts llm.GenerateOptions) (*llm.Response, error) {
	idx := len(c.calls)
	c.calls = append(c.calls, opts)
	c.prompts = append(c.prompts, prompt)

	if idx >= len(c.responses) {
		return nil, fmt.Errorf("script exhausted at call %d", idx)
	}
	if idx < len(c.errs) && c.errs[idx] != nil {
		return nil, c.errs[idx]
	}
	return &llm.Response{Content: c.responses[idx], Provider: "scripted"}, nil
}

func (c *scriptedCaller) Chat(ctx context.Context, messages []llm.Message, opts llm.GenerateOptions) (*llm.Response, error) {
	return c.Generate(ctx, "", opts)
}

// stubValidator returns pre-built reports, one per attempt.
type stubValidator struct {
	reports []*ValidationReport
	calls   int
}

func (v *stubValidator) ValidateAll(ctx context.Context, projectPath string, changes []FileChange, steps []string) *ValidationReport {
	idx := v.calls
	if idx >= len(v.reports) {
		idx = len(v.reports) - 1
	}
	v.calls++
	return v.reports[idx]
}

// panicValidator simulates a broken collaborator.
type panicValidator struct{}

func (panicValidator) ValidateAll(ctx context.Context, projectPath string, changes []FileChange, steps []string) *ValidationReport {
	panic("validator exploded")
}

const intentJSON = `{"goal": "add handler", "language": "go", "summary": "Add an HTTP handler"}`
const risksJSON = `{"risks": [{"category": "security", "severity": "low", "description": "none found"}]}`
const planJSON = `{"steps": ["Write handler", "Wire route"], "files": ["handler.go"], "validation_steps": ["Run tests"]}`
const codeJSON = `{"files": [{"path": "handler.go", "content": "package main\n", "action": "create"}]}`

func passReport() *ValidationReport {
	return &ValidationReport{AllPassed: true, SomePassed: true, Failures: []string{}}
}

func failReport(somePassed bool) *ValidationReport {
	return &ValidationReport{
		AllPassed:  false,
		SomePassed: somePassed,
		Failures:   []string{"run_tests: 1 test failed"},
	}
}

func newTestAgent(caller llm.Caller, validator Validator, retries int) (*Agent, *memory.Store) {
	cfg := config.DefaultConfig()
	cfg.Agent.MaxValidationRetries = retries

	store := memory.NewStore()
	registry := tools.DefaultRegistry(store)
	return New(caller, registry, store, validator, cfg), store
}

func TestExecuteFullPass(t *testing.T) {
	caller := &scriptedCaller{responses: []string{intentJSON, risksJSON, planJSON, codeJSON}}
	validator := &stubValidator{reports: []*ValidationReport{passReport()}}
	a, store := newTestAgent(caller, validator, 3)

	projectDir := t.TempDir()
	result, err := a.Execute(context.Background(), "add an http handler", projectDir)
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, 0.95, result.Confidence)
	assert.Equal(t, "Add an HTTP handler", result.Summary)
	assert.Equal(t, []string{"Write handler", "Wire route"}, result.Plan)
	require.Len(t, result.Files, 1)
	assert.NotEmpty(t, result.RunID)
	require.NotNil(t, result.Validation)
	assert.True(t, result.Validation.AllPassed)

	// The change set lands on disk via the write_file tool.
	written, readErr := os.ReadFile(filepath.Join(projectDir, "handler.go"))
	require.NoError(t, readErr)
	assert.Equal(t, "package main\n", string(written))

	// A fully validated run feeds the memory store.
	assert.Equal(t, 1, store.Count())
	patterns := store.Lookup("add handler", 1)
	require.Len(t, patterns, 1)
	assert.Equal(t, []string{"handler.go"}, patterns[0].FilesModified)
}

func TestExecuteRepairsMalformedIntent(t *testing.T) {
	caller := &scriptedCaller{responses: []string{
		"Sure! Here is the analysis you asked for.",
		intentJSON,
		risksJSON, planJSON, codeJSON,
	}}
	validator := &stubValidator{reports: []*ValidationReport{passReport()}}
	a, _ := newTestAgent(caller, validator, 3)

	result, err := a.Execute(context.Background(), "add an http handler", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, result.Status)

	require.GreaterOrEqual(t, len(caller.prompts), 2)
	assert.Contains(t, caller.prompts[1], "Fix this malformed JSON:")
}

func TestExecuteDoubleMalformedIntentIsError(t *testing.T) {
	caller := &scriptedCaller{responses: []string{"not json", "still not json"}}
	a, _ := newTestAgent(caller, &stubValidator{reports: []*ValidationReport{passReport()}}, 3)

	result, err := a.Execute(context.Background(), "do something", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, StatusError, result.Status)
	assert.NotEmpty(t, result.Error)
	assert.NotEmpty(t, result.Logs)
	assert.Equal(t, float64(0), result.Confidence)
}

func TestExecuteEmptyChangeSetIsFailed(t *testing.T) {
	// Codegen returns JSON with no files and no salvageable code blocks.
	caller := &scriptedCaller{responses: []string{intentJSON, risksJSON, planJSON, `{"files": []}`}}
	a, _ := newTestAgent(caller, &stubValidator{reports: []*ValidationReport{passReport()}}, 3)

	result, err := a.Execute(context.Background(), "add an http handler", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, StatusFailed, result.Status)
	assert.Empty(t, result.Files)
	assert.NotEmpty(t, result.Error)
}

func TestExecuteExhaustedSomePassed(t *testing.T) {
	caller := &scriptedCaller{responses: []string{
		intentJSON, risksJSON, planJSON, codeJSON,
		codeJSON, // fix after attempt 1
	}}
	validator := &stubValidator{reports: []*ValidationReport{failReport(true), failReport(true)}}
	a, store := newTestAgent(caller, validator, 2)

	result, err := a.Execute(context.Background(), "add an http handler", t.TempDir())
	require.NoError(t, err)

	// Exhausting the budget is a low-confidence success, not a failure.
	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, 0.5, result.Confidence)
	assert.Equal(t, 2, validator.calls)
	assert.Equal(t, 0, store.Count())
}

func TestExecuteExhaustedNonePassed(t *testing.T) {
	caller := &scriptedCaller{responses: []string{
		intentJSON, risksJSON, planJSON, codeJSON,
		codeJSON,
	}}
	validator := &stubValidator{reports: []*ValidationReport{failReport(false), failReport(false)}}
	a, _ := newTestAgent(caller, validator, 2)

	result, err := a.Execute(context.Background(), "add an http handler", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, 0.2, result.Confidence)
}

func TestExecuteUnparseableFixKeepsChanges(t *testing.T) {
	caller := &scriptedCaller{responses: []string{
		intentJSON, risksJSON, planJSON, codeJSON,
		"I could not fix it, sorry.",
	}}
	validator := &stubValidator{reports: []*ValidationReport{failReport(true), failReport(true)}}
	a, _ := newTestAgent(caller, validator, 2)

	result, err := a.Execute(context.Background(), "add an http handler", t.TempDir())
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	assert.Equal(t, "handler.go", result.Files[0].Path)
	assert.Equal(t, "package main\n", result.Files[0].Content)
}

func TestExecuteRetryBudgetClampedToOne(t *testing.T) {
	caller := &scriptedCaller{responses: []string{intentJSON, risksJSON, planJSON, codeJSON}}
	validator := &stubValidator{reports: []*ValidationReport{failReport(false)}}
	a, _ := newTestAgent(caller, validator, 0)

	result, err := a.Execute(context.Background(), "add an http handler", t.TempDir())
	require.NoError(t, err)

	// A budget of zero still validates once, so the report is defined.
	assert.Equal(t, 1, validator.calls)
	require.NotNil(t, result.Validation)
	assert.Equal(t, 0.2, result.Confidence)
}

func TestExecuteRecoversPanic(t *testing.T) {
	caller := &scriptedCaller{responses: []string{intentJSON, risksJSON, planJSON, codeJSON}}
	a, _ := newTestAgent(caller, panicValidator{}, 3)

	result, err := a.Execute(context.Background(), "add an http handler", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, StatusError, result.Status)
	assert.Contains(t, result.Error, "validator exploded")
	assert.NotEmpty(t, result.Logs)
}

func TestExecuteAdvisoryPhasesSurviveFailures(t *testing.T) {
	// Risk and plan calls fail outright; the run still completes using
	// the fallback plan.
	caller := &scriptedCaller{
		responses: []string{intentJSON, "", "", codeJSON},
		errs:      []error{nil, errors.New("risk call down"), errors.New("plan call down"), nil},
	}
	validator := &stubValidator{reports: []*ValidationReport{passReport()}}
	a, _ := newTestAgent(caller, validator, 3)

	result, err := a.Execute(context.Background(), "add an http handler", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, []string{"Create implementation", "Add tests", "Validate"}, result.Plan)
}

func TestExecuteMemoryHintsReachPlanPrompt(t *testing.T) {
	caller := &scriptedCaller{responses: []string{intentJSON, risksJSON, planJSON, codeJSON}}
	validator := &stubValidator{reports: []*ValidationReport{passReport()}}
	a, store := newTestAgent(caller, validator, 3)

	// The lookup key is "<language> <goal>", so the stored goal must
	// contain it for the substring match to fire.
	store.Store(memory.Pattern{
		IntentGoal: "go add handler middleware",
		Language:   "go",
		Resolution: "used net/http with a mux",
	})

	_, err := a.Execute(context.Background(), "add an http handler", t.TempDir())
	require.NoError(t, err)

	// Call 2 is plan generation; the memory hint travels in its system prompt.
	require.GreaterOrEqual(t, len(caller.calls), 3)
	assert.Contains(t, caller.calls[2].System, "used net/http with a mux")
	assert.Contains(t, caller.calls[2].System, "Previously successful patterns")
}
