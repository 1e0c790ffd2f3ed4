package tools

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ListDirectoryTool lists directory contents, flat or recursive.
type ListDirectoryTool struct{}

func (t *ListDirectoryTool) Name() string { return "list_directory" }

func (t *ListDirectoryTool) Description() string {
	return "List files and directories"
}

func (t *ListDirectoryTool) Schema() Schema {
	return Schema{
		Required: []string{"path"},
		Properties: map[string]Property{
			"path":      {Type: "string", Description: "Directory to list"},
			"recursive": {Type: "boolean", Description: "Walk subdirectories"},
		},
	}
}

func (t *ListDirectoryTool) Execute(ctx context.Context, args map[string]any) (ToolResult, error) {
	path, _ := GetString(args, "path")
	recursive := GetBoolDefault(args, "recursive", false)

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return NewErrorResult(fmt.Sprintf("Directory not found: %s", path)), nil
		}
		return NewErrorResult(err.Error()), nil
	}

	var items []map[string]any
	if recursive {
		err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if p == path {
				return nil
			}
			rel, relErr := filepath.Rel(path, p)
			if relErr != nil {
				return relErr
			}
			items = append(items, describeEntry(rel, d, "path"))
			return nil
		})
		if err != nil {
			return NewErrorResult(err.Error()), nil
		}
	} else {
		entries, err := os.ReadDir(path)
		if err != nil {
			return NewErrorResult(err.Error()), nil
		}
		for _, entry := range entries {
			items = append(items, describeEntry(entry.Name(), entry, "name"))
		}
	}

	return NewSuccessResult(items), nil
}

func describeEntry(name string, d fs.DirEntry, nameKey string) map[string]any {
	item := map[string]any{nameKey: name}
	if d.IsDir() {
		item["type"] = "directory"
	} else {
		item["type"] = "file"
		if info, err := d.Info(); err == nil {
			item["size"] = info.Size()
		}
	}
	return item
}
