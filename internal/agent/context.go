package agent

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/Shivay00001/goatcode/internal/logging"
	"github.com/Shivay00001/goatcode/internal/tools"
)

// manifestFiles are the dependency manifests worth reading for context.
var manifestFiles = []string{
	"package.json",
	"requirements.txt",
	"Cargo.toml",
	"pubspec.yaml",
	"pom.xml",
	"go.mod",
}

// gatherContext collects best-effort project context through the tool
// registry. Every step may fail independently without aborting the run.
func gatherContext(ctx context.Context, registry *tools.Registry, projectPath string, intent Intent) ProjectContext {
	pc := ProjectContext{Dependencies: make(map[string]string)}

	structure := registry.Execute(ctx, "list_directory", map[string]any{"path": projectPath})
	if structure.Success {
		pc.Structure = structure.Data
	} else {
		logging.Warn("could not list project directory", "path", projectPath, "error", structure.Error)
	}

	if intent.Language != "" {
		search := registry.Execute(ctx, "search_project", map[string]any{
			"query": intent.Language,
			"path":  projectPath,
		})
		if search.Success {
			pc.RelevantFiles = search.Data
		}
	}

	for _, manifest := range manifestFiles {
		res := registry.Execute(ctx, "read_file", map[string]any{
			"path": filepath.Join(projectPath, manifest),
		})
		if !res.Success {
			continue
		}
		if content, ok := res.Data.(string); ok {
			pc.Dependencies[manifest] = content
		}
	}

	pc.Framework = detectFramework(pc.Dependencies)
	return pc
}

// detectFramework infers the project framework from manifest contents.
func detectFramework(deps map[string]string) string {
	if pkg, ok := deps["package.json"]; ok {
		lower := strings.ToLower(pkg)
		switch {
		case strings.Contains(lower, "react"):
			return "react"
		case strings.Contains(lower, "vue"):
			return "vue"
		case strings.Contains(lower, "next"):
			return "nextjs"
		}
	}
	if _, ok := deps["pubspec.yaml"]; ok {
		return "flutter"
	}
	if reqs, ok := deps["requirements.txt"]; ok {
		lower := strings.ToLower(reqs)
		switch {
		case strings.Contains(lower, "django"):
			return "django"
		case strings.Contains(lower, "flask"):
			return "flask"
		case strings.Contains(lower, "fastapi"):
			return "fastapi"
		}
	}
	if mod, ok := deps["go.mod"]; ok {
		if strings.Contains(strings.ToLower(mod), "gin-gonic/gin") {
			return "gin"
		}
	}
	return ""
}
