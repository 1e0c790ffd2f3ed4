package tools

import (
	"context"

	"github.com/Shivay00001/goatcode/internal/security"
)

// SecurityScanTool runs the static vulnerability scanner over a project.
// Findings are advisory; the tool succeeds even when issues are found.
type SecurityScanTool struct {
	scanner *security.Scanner
}

// NewSecurityScanTool creates a scan tool with the default rule set.
func NewSecurityScanTool() *SecurityScanTool {
	return &SecurityScanTool{scanner: security.NewScanner()}
}

func (t *SecurityScanTool) Name() string { return "security_scan" }

func (t *SecurityScanTool) Description() string {
	return "Scan project files for common vulnerability patterns"
}

func (t *SecurityScanTool) Schema() Schema {
	return Schema{
		Required: []string{"path"},
		Properties: map[string]Property{
			"path": {Type: "string", Description: "Project directory to scan"},
		},
	}
}

func (t *SecurityScanTool) Execute(ctx context.Context, args map[string]any) (ToolResult, error) {
	path, _ := GetString(args, "path")

	findings, err := t.scanner.Scan(path)
	if err != nil {
		return NewErrorResult(err.Error()), nil
	}

	return NewSuccessResultWithMeta(findings, map[string]any{
		"total":       len(findings),
		"by_severity": security.Summary(findings),
	}), nil
}
