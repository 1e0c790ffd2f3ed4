package agent

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// extractJSON pulls a JSON object out of an LLM response. Models often
// wrap JSON in markdown fences or prose, so the parser takes the
// outermost brace pair rather than requiring a clean document.
func extractJSON(content string) string {
	trimmed := strings.TrimSpace(content)
	if fence := fencedBlockRe.FindStringSubmatch(trimmed); fence != nil {
		trimmed = strings.TrimSpace(fence[1])
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end < start {
		return trimmed
	}
	return trimmed[start : end+1]
}

var fencedBlockRe = regexp.MustCompile("(?s)```[a-zA-Z]*\n?(.*?)\n?```")

func parseIntent(content string) (Intent, error) {
	var intent Intent
	if err := json.Unmarshal([]byte(extractJSON(content)), &intent); err != nil {
		return Intent{}, err
	}
	return intent, nil
}

func parseRisks(content string) (RiskAssessment, error) {
	var assessment RiskAssessment
	if err := json.Unmarshal([]byte(extractJSON(content)), &assessment); err != nil {
		return RiskAssessment{}, err
	}
	return assessment, nil
}

func parsePlan(content string) (Plan, error) {
	var plan Plan
	if err := json.Unmarshal([]byte(extractJSON(content)), &plan); err != nil {
		return Plan{}, err
	}
	if len(plan.Steps) == 0 {
		return Plan{}, fmt.Errorf("plan has no steps")
	}
	return plan, nil
}

// changeSet is the JSON shape code generation returns.
type changeSet struct {
	Files []FileChange `json:"files"`
}

// parseChangeSet decodes generated files from JSON, falling back to
// fenced code block extraction when the model ignored the contract.
func parseChangeSet(content, language string) []FileChange {
	var cs changeSet
	if err := json.Unmarshal([]byte(extractJSON(content)), &cs); err == nil && len(cs.Files) > 0 {
		return cs.Files
	}
	return extractCodeBlocks(content, language)
}

// extractCodeBlocks salvages fenced code blocks as a change set with
// synthesized file names.
func extractCodeBlocks(text, language string) []FileChange {
	matches := fencedBlockRe.FindAllStringSubmatch(text, -1)

	var files []FileChange
	for i, m := range matches {
		code := strings.TrimSpace(m[1])
		if code == "" {
			continue
		}
		files = append(files, FileChange{
			Path:    fmt.Sprintf("generated_file_%d%s", i, extensionForLanguage(language)),
			Content: code,
			Action:  "create",
		})
	}
	return files
}

func extensionForLanguage(language string) string {
	switch strings.ToLower(language) {
	case "go", "golang":
		return ".go"
	case "javascript", "js", "node":
		return ".js"
	case "typescript", "ts":
		return ".ts"
	case "dart", "flutter":
		return ".dart"
	case "java":
		return ".java"
	case "rust":
		return ".rs"
	case "ruby":
		return ".rb"
	default:
		return ".py"
	}
}
