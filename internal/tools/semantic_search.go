package tools

import (
	"context"
)

// SemanticSearchTool searches code by meaning. Without an embedding
// backend it falls back to plain text search over the project.
type SemanticSearchTool struct{}

func (t *SemanticSearchTool) Name() string { return "semantic_search" }

func (t *SemanticSearchTool) Description() string {
	return "Search code semantically"
}

func (t *SemanticSearchTool) Schema() Schema {
	return Schema{
		Required: []string{"query", "path"},
		Properties: map[string]Property{
			"query": {Type: "string", Description: "Search query"},
			"path":  {Type: "string", Description: "Root directory to search"},
			"top_k": {Type: "integer", Description: "Max results"},
		},
	}
}

func (t *SemanticSearchTool) Execute(ctx context.Context, args map[string]any) (ToolResult, error) {
	search := &SearchProjectTool{}
	return search.Execute(ctx, map[string]any{
		"query": args["query"],
		"path":  args["path"],
	})
}
