package security

import (
	"bufio"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/Shivay00001/goatcode/internal/logging"
)

// Finding describes a single pattern match in a scanned file.
type Finding struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	CWE      string `json:"cwe"`
	OWASP    string `json:"owasp"`
	Snippet  string `json:"snippet"`
}

// rule is a compiled vulnerability detection pattern.
type rule struct {
	name     string
	pattern  *regexp.Regexp
	severity string
	cwe      string
	owasp    string
}

// Scanner performs regex-based static analysis over source files.
type Scanner struct {
	rules []rule
}

// Directories never worth scanning.
var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"vendor":       true,
	"venv":         true,
	".venv":        true,
	"__pycache__":  true,
	"dist":         true,
	"build":        true,
}

// Extensions the scanner considers source code.
var sourceExts = map[string]bool{
	".go": true, ".py": true, ".js": true, ".jsx": true,
	".ts": true, ".tsx": true, ".java": true, ".rb": true,
	".php": true, ".c": true, ".cpp": true, ".cs": true,
	".rs": true, ".sh": true, ".sql": true, ".yaml": true,
	".yml": true, ".env": true,
}

// NewScanner builds a scanner with the default rule set.
func NewScanner() *Scanner {
	return &Scanner{rules: defaultRules()}
}

func defaultRules() []rule {
	type spec struct {
		name, pattern, severity, cwe, owasp string
	}
	specs := []spec{
		{"sql_injection", `(?i)(SELECT|INSERT|UPDATE|DELETE).*\+.*\$`, "critical", "CWE-89", "A03"},
		{"command_injection", `(?i)(exec|system|eval)\s*\(.*\$`, "critical", "CWE-78", "A03"},
		{"hardcoded_secrets", `(?i)(password|secret|key|token)\s*=\s*["'][^"']+["']`, "high", "CWE-798", "A02"},
		{"insecure_random", `(?i)Math\.random\(\)|random\.random\(`, "medium", "CWE-338", "A02"},
		{"xss_vulnerability", `(?i)innerHTML.*\+|document\.write.*\+`, "high", "CWE-79", "A03"},
		{"path_traversal", `(?i)open\s*\(.*\+.*\)|readFile.*\+`, "high", "CWE-22", "A01"},
	}
	rules := make([]rule, 0, len(specs))
	for _, s := range specs {
		rules = append(rules, rule{
			name:     s.name,
			pattern:  regexp.MustCompile(s.pattern),
			severity: s.severity,
			cwe:      s.cwe,
			owasp:    s.owasp,
		})
	}
	return rules
}

// ScanFile runs every rule over a single file, line by line.
func (s *Scanner) ScanFile(path string) ([]Finding, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var findings []Finding
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		for _, r := range s.rules {
			if r.pattern.MatchString(line) {
				findings = append(findings, Finding{
					File:     path,
					Line:     lineNo,
					Rule:     r.name,
					Severity: r.severity,
					CWE:      r.cwe,
					OWASP:    r.owasp,
					Snippet:  strings.TrimSpace(line),
				})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return findings, err
	}
	return findings, nil
}

// Scan walks a project tree and scans every source file, skipping
// dependency and VCS directories. Unreadable files are logged and
// skipped rather than failing the whole scan.
func (s *Scanner) Scan(root string) ([]Finding, error) {
	var findings []Finding
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		name := d.Name()
		if !sourceExts[filepath.Ext(name)] && !strings.HasPrefix(name, ".env") {
			return nil
		}
		fileFindings, ferr := s.ScanFile(path)
		if ferr != nil {
			logging.Warn("security scan skipped file", "path", path, "error", ferr)
			return nil
		}
		findings = append(findings, fileFindings...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortFindings(findings)
	return findings, nil
}

// severityRank orders severities from most to least severe.
var severityRank = map[string]int{
	"critical": 0,
	"high":     1,
	"medium":   2,
	"low":      3,
}

func sortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		ri, rj := severityRank[findings[i].Severity], severityRank[findings[j].Severity]
		if ri != rj {
			return ri < rj
		}
		if findings[i].File != findings[j].File {
			return findings[i].File < findings[j].File
		}
		return findings[i].Line < findings[j].Line
	})
}

// Summary aggregates findings by severity.
func Summary(findings []Finding) map[string]int {
	counts := make(map[string]int)
	for _, f := range findings {
		counts[f.Severity]++
	}
	return counts
}
