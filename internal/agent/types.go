package agent

import (
	"time"

	"github.com/Shivay00001/goatcode/internal/security"
)

// Phase identifies a stage of the execution pipeline.
type Phase string

const (
	PhaseIntentAnalysis Phase = "intent_analysis"
	PhaseProjectContext Phase = "project_context"
	PhaseRiskAnalysis   Phase = "risk_analysis"
	PhaseMemoryLookup   Phase = "memory_lookup"
	PhasePlanGeneration Phase = "plan_generation"
	PhaseCodeGeneration Phase = "code_generation"
	PhaseValidation     Phase = "validation"
	PhaseComplete       Phase = "complete"
	PhaseError          Phase = "error"
)

// Status is the terminal outcome of a run.
type Status string

const (
	// StatusSuccess means the run produced a change set. Confidence
	// tells how much of the validation suite passed.
	StatusSuccess Status = "success"
	// StatusFailed means the run completed but produced no changes.
	StatusFailed Status = "failed"
	// StatusError means the pipeline itself broke.
	StatusError Status = "error"
)

// Intent is the structured reading of the user's request.
type Intent struct {
	Goal            string   `json:"goal"`
	Language        string   `json:"language"`
	Framework       string   `json:"framework,omitempty"`
	Constraints     []string `json:"constraints,omitempty"`
	OutputFormat    string   `json:"output_format,omitempty"`
	SuccessCriteria []string `json:"success_criteria,omitempty"`
	Summary         string   `json:"summary"`
}

// ProjectContext is what the agent learned about the target project.
type ProjectContext struct {
	Structure     any               `json:"project_structure,omitempty"`
	RelevantFiles any               `json:"relevant_files,omitempty"`
	Dependencies  map[string]string `json:"dependencies,omitempty"`
	Framework     string            `json:"framework,omitempty"`
}

// Risk is a single advisory concern raised during analysis.
type Risk struct {
	Category    string `json:"category"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// RiskAssessment aggregates LLM-reported risks with static scan findings.
type RiskAssessment struct {
	Risks    []Risk             `json:"risks"`
	Findings []security.Finding `json:"findings,omitempty"`
}

// Plan is the implementation plan driving code generation.
type Plan struct {
	Steps           []string `json:"steps"`
	Files           []string `json:"files"`
	ValidationSteps []string `json:"validation_steps"`
}

// FileChange is one file in the generated change set.
type FileChange struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	Action  string `json:"action"` // "create" or "update"
}

// CheckResult records one validation check.
type CheckResult struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Details string `json:"details,omitempty"`
}

// ValidationReport summarizes a validation pass over the change set.
type ValidationReport struct {
	AllPassed  bool          `json:"all_passed"`
	SomePassed bool          `json:"some_passed"`
	Failures   []string      `json:"failures"`
	Checks     []CheckResult `json:"checks,omitempty"`
}

// LogEntry is one step of the execution trace.
type LogEntry struct {
	Phase     Phase          `json:"phase"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Result is the full outcome of one pipeline run.
type Result struct {
	RunID      string            `json:"run_id"`
	Status     Status            `json:"status"`
	Summary    string            `json:"analysis_summary"`
	Plan       []string          `json:"implementation_plan"`
	Files      []FileChange      `json:"files_modified"`
	Validation *ValidationReport `json:"validation_report,omitempty"`
	Confidence float64           `json:"confidence_score"`
	Logs       []LogEntry        `json:"logs"`
	Error      string            `json:"error_message,omitempty"`
	Diffs      map[string]string `json:"diffs,omitempty"`
}
