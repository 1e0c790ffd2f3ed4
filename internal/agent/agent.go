// Package agent implements the request to validated-code pipeline:
// intent analysis, context gathering, risk analysis, memory lookup,
// planning, code generation, and a bounded validate-fix loop.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/Shivay00001/goatcode/internal/config"
	"github.com/Shivay00001/goatcode/internal/llm"
	"github.com/Shivay00001/goatcode/internal/logging"
	"github.com/Shivay00001/goatcode/internal/memory"
	"github.com/Shivay00001/goatcode/internal/security"
	"github.com/Shivay00001/goatcode/internal/tools"
)

// Agent orchestrates one coding run end to end. All collaborators are
// injected; the agent holds no per-run state, so one instance can serve
// concurrent runs.
type Agent struct {
	router    llm.Caller
	registry  *tools.Registry
	store     *memory.Store
	validator Validator
	scanner   *security.Scanner
	cfg       *config.Config
}

// New creates an agent from its collaborators.
func New(router llm.Caller, registry *tools.Registry, store *memory.Store, validator Validator, cfg *config.Config) *Agent {
	return &Agent{
		router:    router,
		registry:  registry,
		store:     store,
		validator: validator,
		scanner:   security.NewScanner(),
		cfg:       cfg,
	}
}

// run carries the mutable state of a single Execute call.
type run struct {
	id          string
	projectPath string
	logs        []LogEntry
}

func (r *run) log(phase Phase, message string, metadata map[string]any) {
	r.logs = append(r.logs, LogEntry{
		Phase:     phase,
		Message:   message,
		Timestamp: time.Now(),
		Metadata:  metadata,
	})
	logging.Info(message, "run_id", r.id, "phase", string(phase))
}

// Execute runs the full pipeline for a user prompt against a project.
// Failure is always reported through the Result status, never through
// the error return; the error is reserved for future use and is nil.
func (a *Agent) Execute(ctx context.Context, prompt, projectPath string) (result *Result, err error) {
	r := &run{id: uuid.New().String(), projectPath: projectPath}

	defer func() {
		if rec := recover(); rec != nil {
			logging.Error("agent run panicked", "run_id", r.id, "panic", rec)
			result = a.errorResult(r, fmt.Sprintf("panic: %v", rec))
			err = nil
		}
	}()

	res, runErr := a.execute(ctx, r, prompt)
	if runErr != nil {
		logging.Error("agent run failed", "run_id", r.id, "error", runErr)
		return a.errorResult(r, runErr.Error()), nil
	}
	return res, nil
}

func (a *Agent) errorResult(r *run, msg string) *Result {
	r.log(PhaseError, msg, nil)
	return &Result{
		RunID:  r.id,
		Status: StatusError,
		Plan:   []string{},
		Files:  []FileChange{},
		Logs:   r.logs,
		Error:  msg,
	}
}

func (a *Agent) execute(ctx context.Context, r *run, prompt string) (*Result, error) {
	r.log(PhaseIntentAnalysis, "Analyzing user intent...", nil)
	intent, err := a.analyzeIntent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("intent analysis: %w", err)
	}

	r.log(PhaseProjectContext, "Gathering project context...", nil)
	projectCtx := gatherContext(ctx, a.registry, r.projectPath, intent)

	r.log(PhaseRiskAnalysis, "Analyzing risks and edge cases...", nil)
	risks := a.analyzeRisks(ctx, r, intent, projectCtx)

	r.log(PhaseMemoryLookup, "Checking memory for similar solutions...", nil)
	hints := a.checkMemory(r, intent)

	r.log(PhasePlanGeneration, "Generating implementation plan...", nil)
	plan := a.createPlan(ctx, intent, projectCtx, risks, hints)

	r.log(PhaseCodeGeneration, "Generating code...", nil)
	changes := a.generateCode(ctx, intent, projectCtx, plan)
	if len(changes) == 0 {
		r.log(PhaseCodeGeneration, "Code generation produced no changes", nil)
		return &Result{
			RunID:      r.id,
			Status:     StatusFailed,
			Summary:    intent.Summary,
			Plan:       plan.Steps,
			Files:      []FileChange{},
			Confidence: 0,
			Logs:       r.logs,
			Error:      "code generation produced no changes",
		}, nil
	}

	r.log(PhaseValidation, "Running validation suite...", nil)
	finalChanges, report, confidence := a.validateAndFix(ctx, r, changes, plan)

	if report.AllPassed {
		a.storePattern(r, intent, report, finalChanges)
	}

	r.log(PhaseComplete, "Run complete", map[string]any{"confidence": confidence})
	return &Result{
		RunID:      r.id,
		Status:     StatusSuccess,
		Summary:    intent.Summary,
		Plan:       plan.Steps,
		Files:      finalChanges,
		Validation: report,
		Confidence: confidence,
		Logs:       r.logs,
		Diffs:      diffChanges(changes, finalChanges),
	}, nil
}

// analyzeIntent asks the model to structure the request. A malformed
// response gets exactly one repair attempt before the run fails.
func (a *Agent) analyzeIntent(ctx context.Context, prompt string) (Intent, error) {
	resp, err := a.router.Generate(ctx, prompt, llm.GenerateOptions{
		System:      intentSystemPrompt,
		Temperature: a.cfg.Agent.AnalysisTemperature,
	})
	if err != nil {
		return Intent{}, err
	}

	intent, parseErr := parseIntent(resp.Content)
	if parseErr == nil {
		return intent, nil
	}

	logging.Warn("intent response was not valid JSON, attempting repair", "error", parseErr)
	fixed, err := a.router.Generate(ctx, "Fix this malformed JSON: "+resp.Content, llm.GenerateOptions{
		Temperature: a.cfg.Agent.AnalysisTemperature,
	})
	if err != nil {
		return Intent{}, err
	}
	return parseIntent(fixed.Content)
}

// analyzeRisks is advisory: a failed call or unparseable response
// yields an empty assessment. Static scan findings are merged in.
func (a *Agent) analyzeRisks(ctx context.Context, r *run, intent Intent, projectCtx ProjectContext) RiskAssessment {
	assessment := RiskAssessment{Risks: []Risk{}}

	payload := fmt.Sprintf("Intent: %s\nContext: %s", mustJSON(intent), mustJSON(projectCtx))
	resp, err := a.router.Generate(ctx, payload, llm.GenerateOptions{
		System:      riskSystemPrompt,
		Temperature: 0.2,
	})
	if err == nil {
		if parsed, parseErr := parseRisks(resp.Content); parseErr == nil {
			assessment = parsed
		}
	} else {
		logging.Warn("risk analysis call failed", "error", err)
	}

	findings, err := a.scanner.Scan(r.projectPath)
	if err != nil {
		logging.Warn("security scan failed", "path", r.projectPath, "error", err)
	} else if len(findings) > 0 {
		assessment.Findings = findings
		r.log(PhaseRiskAnalysis, fmt.Sprintf("Static scan found %d issues", len(findings)), map[string]any{
			"by_severity": security.Summary(findings),
		})
	}
	return assessment
}

// checkMemory looks up past resolutions keyed by language and goal.
func (a *Agent) checkMemory(r *run, intent Intent) []memory.Pattern {
	key := fmt.Sprintf("%s %s", intent.Language, intent.Goal)
	hints := a.store.Lookup(key, a.cfg.Agent.MemoryLookupLimit)
	if len(hints) > 0 {
		resolutions := make([]string, len(hints))
		for i, h := range hints {
			resolutions[i] = h.Resolution
		}
		r.log(PhaseMemoryLookup, fmt.Sprintf("Found %d similar patterns in memory", len(hints)), map[string]any{
			"patterns": resolutions,
		})
	}
	return hints
}

// createPlan generates the implementation plan, with a fixed fallback
// when the model response cannot be parsed.
func (a *Agent) createPlan(ctx context.Context, intent Intent, projectCtx ProjectContext, risks RiskAssessment, hints []memory.Pattern) Plan {
	memoryContext := ""
	if len(hints) > 0 {
		var b strings.Builder
		b.WriteString("\nPreviously successful patterns:\n")
		for _, h := range hints {
			fmt.Fprintf(&b, "- %s\n", h.Resolution)
		}
		memoryContext = b.String()
	}

	system := fmt.Sprintf(planSystemPromptTemplate, mustJSON(risks), memoryContext)
	payload := fmt.Sprintf("Intent: %s\nContext: %s", mustJSON(intent), mustJSON(projectCtx))

	resp, err := a.router.Generate(ctx, payload, llm.GenerateOptions{
		System:      system,
		Temperature: 0.2,
	})
	if err == nil {
		if plan, parseErr := parsePlan(resp.Content); parseErr == nil {
			return plan
		}
	} else {
		logging.Warn("plan generation call failed", "error", err)
	}

	return Plan{
		Steps:           []string{"Create implementation", "Add tests", "Validate"},
		Files:           []string{},
		ValidationSteps: []string{"Run tests", "Check types"},
	}
}

// generateCode produces the change set. JSON is preferred; fenced code
// blocks are the fallback. An empty slice means generation failed.
func (a *Agent) generateCode(ctx context.Context, intent Intent, projectCtx ProjectContext, plan Plan) []FileChange {
	payload := fmt.Sprintf("Generate code for:\nIntent: %s\nContext: %s\nPlan: %s\n\nGenerate the complete implementation.",
		mustJSON(intent), mustJSON(projectCtx), mustJSON(plan))

	resp, err := a.router.Generate(ctx, payload, llm.GenerateOptions{
		System:      codegenSystemPrompt,
		Temperature: a.cfg.Agent.CodegenTemperature,
		MaxTokens:   a.cfg.Agent.CodegenMaxTokens,
	})
	if err != nil {
		logging.Error("code generation call failed", "error", err)
		return nil
	}
	return parseChangeSet(resp.Content, intent.Language)
}

// validateAndFix writes the change set, validates it, and asks the
// model for fixes until everything passes or the retry budget runs
// out. The budget is clamped to at least one attempt, so the returned
// report is always defined.
func (a *Agent) validateAndFix(ctx context.Context, r *run, changes []FileChange, plan Plan) ([]FileChange, *ValidationReport, float64) {
	retries := a.cfg.Agent.RetryBudget()
	initial := changes

	var report *ValidationReport
	for attempt := 1; attempt <= retries; attempt++ {
		r.log(PhaseValidation, fmt.Sprintf("Validation attempt %d/%d", attempt, retries), nil)

		a.writeChanges(ctx, r, changes)
		report = a.validator.ValidateAll(ctx, r.projectPath, changes, plan.ValidationSteps)

		if report.AllPassed {
			r.log(PhaseValidation, "All validations passed!", nil)
			return changes, report, 0.95
		}

		r.log(PhaseValidation, fmt.Sprintf("Validation failed: %s", strings.Join(report.Failures, "; ")), nil)
		if attempt < retries {
			changes = a.generateFixes(ctx, changes, initial, report)
		}
	}

	confidence := 0.2
	if report.SomePassed {
		confidence = 0.5
	}
	return changes, report, confidence
}

func (a *Agent) writeChanges(ctx context.Context, r *run, changes []FileChange) {
	for _, change := range changes {
		res := a.registry.Execute(ctx, "write_file", map[string]any{
			"path":    filepath.Join(r.projectPath, change.Path),
			"content": change.Content,
		})
		if !res.Success {
			logging.Error("failed to write change", "path", change.Path, "error", res.Error)
		}
	}
}

// generateFixes asks the model to repair validation failures. An
// unparseable response keeps the previous change set.
func (a *Agent) generateFixes(ctx context.Context, changes, initial []FileChange, report *ValidationReport) []FileChange {
	payload := fmt.Sprintf("Files: %s\nValidation Errors: %s", mustJSON(changeSet{Files: changes}), mustJSON(report))
	if diffs := diffChanges(initial, changes); len(diffs) > 0 {
		payload += "\nChanges applied so far: " + mustJSON(diffs)
	}

	resp, err := a.router.Generate(ctx, payload, llm.GenerateOptions{
		System:      fixSystemPrompt,
		Temperature: 0.2,
	})
	if err != nil {
		logging.Warn("fix generation call failed", "error", err)
		return changes
	}

	var fixed changeSet
	if jsonErr := json.Unmarshal([]byte(extractJSON(resp.Content)), &fixed); jsonErr != nil || len(fixed.Files) == 0 {
		logging.Warn("fix response was not a valid change set, keeping previous")
		return changes
	}
	return fixed.Files
}

// storePattern records a fully validated run for future lookups.
func (a *Agent) storePattern(r *run, intent Intent, report *ValidationReport, changes []FileChange) {
	paths := make([]string, len(changes))
	for i, c := range changes {
		paths[i] = c.Path
	}

	a.store.Store(memory.Pattern{
		IntentGoal:    intent.Goal,
		Language:      intent.Language,
		Framework:     intent.Framework,
		Resolution:    mustJSON(report),
		FilesModified: paths,
	})
	r.log(PhaseComplete, "Stored success pattern in memory", nil)
}

// diffChanges renders per-file patches between the first generated
// change set and the one that survived the validate-fix loop.
func diffChanges(before, after []FileChange) map[string]string {
	original := make(map[string]string, len(before))
	for _, c := range before {
		original[c.Path] = c.Content
	}

	dmp := diffmatchpatch.New()
	diffs := make(map[string]string)
	for _, c := range after {
		old := original[c.Path]
		if old == c.Content {
			continue
		}
		patches := dmp.PatchMake(old, c.Content)
		diffs[c.Path] = dmp.PatchToText(patches)
	}
	return diffs
}

// mustJSON marshals for prompt payloads; marshal failures degrade to
// an empty object rather than aborting the run.
func mustJSON(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(raw)
}
