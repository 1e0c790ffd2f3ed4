package tools

import (
	"bufio"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// maxMatchesPerFile caps matched lines reported for one file.
	maxMatchesPerFile = 5
	// maxFileResults caps the number of files in the result set.
	maxFileResults = 20
)

// SearchProjectTool searches project files for a substring.
type SearchProjectTool struct{}

func (t *SearchProjectTool) Name() string { return "search_project" }

func (t *SearchProjectTool) Description() string {
	return "Search for files containing a term"
}

func (t *SearchProjectTool) Schema() Schema {
	return Schema{
		Required: []string{"query", "path"},
		Properties: map[string]Property{
			"query":        {Type: "string", Description: "Search term"},
			"path":         {Type: "string", Description: "Root directory to search"},
			"file_pattern": {Type: "string", Description: "Glob pattern for files (default *)"},
		},
	}
}

func (t *SearchProjectTool) Execute(ctx context.Context, args map[string]any) (ToolResult, error) {
	query, _ := GetString(args, "query")
	root, _ := GetString(args, "path")
	filePattern := GetStringDefault(args, "file_pattern", "*")

	needle := strings.ToLower(query)
	var results []map[string]any

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			// Unreadable entries are skipped, not fatal.
			return nil
		}
		if len(results) >= maxFileResults {
			return fs.SkipAll
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		matched, _ := doublestar.Match(filePattern, d.Name())
		if !matched {
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return nil
			}
			if matched, _ = doublestar.Match(filePattern, filepath.ToSlash(rel)); !matched {
				return nil
			}
		}

		matches := searchFile(path, needle)
		if len(matches) == 0 {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		results = append(results, map[string]any{
			"file":    rel,
			"matches": matches,
		})
		return nil
	})
	if err != nil {
		return NewErrorResult(err.Error()), nil
	}

	return NewSuccessResult(results), nil
}

// searchFile returns up to maxMatchesPerFile matching lines with line numbers.
func searchFile(path, needle string) []map[string]any {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var matches []map[string]any
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.Contains(strings.ToLower(line), needle) {
			matches = append(matches, map[string]any{
				"line":    lineNo,
				"content": strings.TrimSpace(line),
			})
			if len(matches) >= maxMatchesPerFile {
				break
			}
		}
	}
	return matches
}
