package prune

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhardwajRahul/aegis-stack/internal/manifest"
	"github.com/bhardwajRahul/aegis-stack/internal/resolve"
)

const pruneManifest = `
name: t
variables:
  - {name: worker, type: bool, default: false}
  - {name: database, type: bool, default: false}
components:
  - id: worker
    owned_paths:
      - app/components/worker/**
  - id: database
    owned_paths:
      - app/components/database/**
      - alembic.ini
`

func setup(t *testing.T, answers map[string]any) (*resolve.Config, *manifest.Manifest) {
	t.Helper()
	m, err := manifest.Parse([]byte(pruneManifest))
	require.NoError(t, err)
	cfg, err := resolve.Resolve(answers, m)
	require.NoError(t, err)
	return cfg, m
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestPruneRemovesDisabledComponentPaths(t *testing.T) {
	cfg, m := setup(t, map[string]any{"worker": false, "database": false})

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"app/main.py":                        "main",
		"app/components/worker/tasks.py":     "tasks",
		"app/components/worker/sub/deep.py":  "deep",
		"app/components/database/session.py": "session",
		"alembic.ini":                        "ini",
	})

	require.NoError(t, Prune(root, cfg, m))

	assert.True(t, exists(filepath.Join(root, "app/main.py")))
	assert.False(t, exists(filepath.Join(root, "app/components/worker")))
	assert.False(t, exists(filepath.Join(root, "app/components/database")))
	assert.False(t, exists(filepath.Join(root, "alembic.ini")))
	// components/ became empty solely through pruning
	assert.False(t, exists(filepath.Join(root, "app/components")))
	assert.True(t, exists(filepath.Join(root, "app")))
}

func TestPruneKeepsEnabledComponents(t *testing.T) {
	cfg, m := setup(t, map[string]any{"worker": true, "database": false})

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"app/components/worker/tasks.py":     "tasks",
		"app/components/database/session.py": "session",
	})

	require.NoError(t, Prune(root, cfg, m))

	assert.True(t, exists(filepath.Join(root, "app/components/worker/tasks.py")))
	assert.False(t, exists(filepath.Join(root, "app/components/database")))
}

func TestPruneLeavesDesignedEmptyDirs(t *testing.T) {
	cfg, m := setup(t, map[string]any{})

	root := t.TempDir()
	// Shipped empty in the template, not a parent of any pruned path.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "app", "uploads"), 0o755))
	writeTree(t, root, map[string]string{
		"app/components/worker/tasks.py": "tasks",
	})

	require.NoError(t, Prune(root, cfg, m))

	assert.True(t, exists(filepath.Join(root, "app", "uploads")))
	assert.False(t, exists(filepath.Join(root, "app", "components")))
}

func TestPruneSweepsNestedEmptiedAncestors(t *testing.T) {
	cfg, m := setup(t, map[string]any{"worker": false, "database": false})

	root := t.TempDir()
	// Removing worker/ empties components/, whose own parent keeps
	// main.py. The emptied chain must go in a single run.
	writeTree(t, root, map[string]string{
		"app/main.py":                            "main",
		"app/components/worker/sub/deep/deep.py": "deep",
	})

	require.NoError(t, Prune(root, cfg, m))

	assert.False(t, exists(filepath.Join(root, "app/components")))
	assert.True(t, exists(filepath.Join(root, "app/main.py")))
}

func TestPruneMissingPathsIsNoOp(t *testing.T) {
	cfg, m := setup(t, map[string]any{})

	root := t.TempDir()
	writeTree(t, root, map[string]string{"app/main.py": "main"})

	// Nothing owned by worker/database exists; gating already excluded it.
	require.NoError(t, Prune(root, cfg, m))
	assert.True(t, exists(filepath.Join(root, "app/main.py")))
}

func TestPruneIdempotent(t *testing.T) {
	cfg, m := setup(t, map[string]any{})

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"app/main.py":                    "main",
		"app/components/worker/tasks.py": "tasks",
		"alembic.ini":                    "ini",
	})

	require.NoError(t, Prune(root, cfg, m))
	first := list(t, root)

	require.NoError(t, Prune(root, cfg, m))
	second := list(t, root)

	assert.Equal(t, first, second)
}

func list(t *testing.T, root string) []string {
	t.Helper()
	var paths []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		require.NoError(t, err)
		rel, relErr := filepath.Rel(root, path)
		require.NoError(t, relErr)
		if rel != "." {
			paths = append(paths, filepath.ToSlash(rel))
		}
		return nil
	})
	require.NoError(t, err)
	return paths
}
