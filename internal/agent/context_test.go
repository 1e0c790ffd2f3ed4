package agent

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivay00001/goatcode/internal/memory"
	"github.com/Shivay00001/goatcode/internal/tools"
)

func TestDetectFramework(t *testing.T) {
	cases := []struct {
		name string
		deps map[string]string
		want string
	}{
		{"react", map[string]string{"package.json": `{"dependencies": {"react": "^18"}}`}, "react"},
		{"vue", map[string]string{"package.json": `{"dependencies": {"vue": "^3"}}`}, "vue"},
		{"nextjs without react", map[string]string{"package.json": `{"dependencies": {"next": "^14"}}`}, "nextjs"},
		{"flutter", map[string]string{"pubspec.yaml": "name: app"}, "flutter"},
		{"django", map[string]string{"requirements.txt": "Django==5.0"}, "django"},
		{"flask", map[string]string{"requirements.txt": "flask==3.0"}, "flask"},
		{"fastapi", map[string]string{"requirements.txt": "fastapi\nuvicorn"}, "fastapi"},
		{"gin", map[string]string{"go.mod": "module x\n\nrequire github.com/gin-gonic/gin v1.10.0"}, "gin"},
		{"none", map[string]string{"Cargo.toml": "[package]"}, ""},
		{"empty", map[string]string{}, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, detectFramework(tc.deps))
		})
	}
}

func TestGatherContextReadsManifests(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "requirements.txt"), []byte("flask==3.0\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.py"), []byte("import flask\n"), 0644))

	registry := tools.DefaultRegistry(memory.NewStore())
	pc := gatherContext(context.Background(), registry, dir, Intent{Language: "python"})

	assert.Equal(t, "flask", pc.Framework)
	assert.Contains(t, pc.Dependencies, "requirements.txt")
	assert.NotNil(t, pc.Structure)
}

func TestGatherContextMissingProject(t *testing.T) {
	registry := tools.DefaultRegistry(memory.NewStore())
	missing := filepath.Join(t.TempDir(), "nope")

	// A missing project is degraded context, not a failure.
	pc := gatherContext(context.Background(), registry, missing, Intent{Language: "go"})
	assert.Nil(t, pc.Structure)
	assert.Empty(t, pc.Dependencies)
	assert.Equal(t, "", pc.Framework)
}
