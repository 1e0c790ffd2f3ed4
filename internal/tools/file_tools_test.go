package tools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFileTool(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.txt")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\nthree\n"), 0644))

	tool := &ReadFileTool{}

	res, err := tool.Execute(context.Background(), map[string]any{"path": path})
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, "one\ntwo\nthree\n", res.Data)
	assert.Equal(t, path, res.Metadata["path"])
	assert.Equal(t, 3, res.Metadata["lines"])
}

func TestReadFileToolLimit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.txt")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\nthree\n"), 0644))

	tool := &ReadFileTool{}
	res, err := tool.Execute(context.Background(), map[string]any{"path": path, "limit": 2})
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, "one\ntwo\n", res.Data)
}

func TestReadFileToolNotFound(t *testing.T) {
	tool := &ReadFileTool{}
	missing := filepath.Join(t.TempDir(), "gone.txt")

	res, err := tool.Execute(context.Background(), map[string]any{"path": missing})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "File not found: "+missing, res.Error)
}

func TestWriteFileToolCreatesParents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deep", "nested", "out.go")

	tool := &WriteFileTool{}
	res, err := tool.Execute(context.Background(), map[string]any{
		"path":    path,
		"content": "package main\n",
	})
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, path, res.Data)
	assert.Equal(t, len("package main\n"), res.Metadata["bytes_written"])

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "package main\n", string(written))
}

func TestWriteFileToolBacksUpPriorVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0644))

	tool := &WriteFileTool{}
	res, err := tool.Execute(context.Background(), map[string]any{
		"path":    path,
		"content": "new",
	})
	require.NoError(t, err)
	require.True(t, res.Success)

	// The backup replaces the extension: main.go -> main.bak.
	backup, err := os.ReadFile(filepath.Join(dir, "main.bak"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(backup))

	current, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(current))
}

func TestBackupPath(t *testing.T) {
	assert.Equal(t, "a.bak", backupPath("a.txt"))
	assert.Equal(t, "dir/main.bak", backupPath("dir/main.go"))
	assert.Equal(t, "noext.bak", backupPath("noext"))
}

func TestListDirectoryTool(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("aa"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.txt"), []byte("b"), 0644))

	tool := &ListDirectoryTool{}

	res, err := tool.Execute(context.Background(), map[string]any{"path": dir})
	require.NoError(t, err)
	require.True(t, res.Success)
	items := res.Data.([]map[string]any)
	assert.Len(t, items, 2)

	res, err = tool.Execute(context.Background(), map[string]any{"path": dir, "recursive": true})
	require.NoError(t, err)
	require.True(t, res.Success)
	items = res.Data.([]map[string]any)
	assert.Len(t, items, 3)
}

func TestListDirectoryToolNotFound(t *testing.T) {
	tool := &ListDirectoryTool{}
	missing := filepath.Join(t.TempDir(), "gone")

	res, err := tool.Execute(context.Background(), map[string]any{"path": missing})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Directory not found: "+missing, res.Error)
}

func TestSearchProjectTool(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.go"), []byte("package a\n// Needle here\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.go"), []byte("package b\n"), 0644))

	tool := &SearchProjectTool{}
	res, err := tool.Execute(context.Background(), map[string]any{
		"query": "needle",
		"path":  dir,
	})
	require.NoError(t, err)
	require.True(t, res.Success)

	results := res.Data.([]map[string]any)
	require.Len(t, results, 1)
	assert.Equal(t, "a.go", results[0]["file"])

	matches := results[0]["matches"].([]map[string]any)
	require.Len(t, matches, 1)
	assert.Equal(t, 2, matches[0]["line"])
	assert.Equal(t, "// Needle here", matches[0]["content"])
}

func TestSearchProjectToolCapsMatchesPerFile(t *testing.T) {
	dir := t.TempDir()
	content := ""
	for i := 0; i < 10; i++ {
		content += "needle\n"
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "many.txt"), []byte(content), 0644))

	tool := &SearchProjectTool{}
	res, err := tool.Execute(context.Background(), map[string]any{
		"query": "needle",
		"path":  dir,
	})
	require.NoError(t, err)
	require.True(t, res.Success)

	results := res.Data.([]map[string]any)
	require.Len(t, results, 1)
	assert.Len(t, results[0]["matches"], maxMatchesPerFile)
}

func TestSearchProjectToolFilePattern(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.go"), []byte("needle"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte("needle"), 0644))

	tool := &SearchProjectTool{}
	res, err := tool.Execute(context.Background(), map[string]any{
		"query":        "needle",
		"path":         dir,
		"file_pattern": "*.go",
	})
	require.NoError(t, err)
	require.True(t, res.Success)

	results := res.Data.([]map[string]any)
	require.Len(t, results, 1)
	assert.Equal(t, "a.go", results[0]["file"])
}
