package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestWalkSortedOrder(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"b.txt":       "b",
		"a/inner.txt": "i",
		"c/deep/x":    "x",
	})

	var visited []string
	err := Walk(root, WalkOptions{}, func(rel string, d fs.DirEntry) error {
		visited = append(visited, rel)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "a/inner.txt", "b.txt", "c", "c/deep", "c/deep/x"}, visited)
}

func TestWalkSkipsIgnoredDirs(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".git/config":          "x",
		"node_modules/pkg.js":  "x",
		"app/main.py":          "x",
		"__pycache__/main.pyc": "x",
	})

	var visited []string
	err := Walk(root, WalkOptions{}, func(rel string, d fs.DirEntry) error {
		visited = append(visited, rel)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"app", "app/main.py"}, visited)
}

func TestWalkVisitsDotfiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{".env": "SECRET=1"})

	var visited []string
	err := Walk(root, WalkOptions{}, func(rel string, d fs.DirEntry) error {
		visited = append(visited, rel)
		return nil
	})
	require.NoError(t, err)
	assert.Contains(t, visited, ".env")
}

func TestWalkIgnorePatterns(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"keep.txt": "k",
		"skip.tmp": "s",
	})

	var visited []string
	err := Walk(root, WalkOptions{IgnorePatterns: []string{"*.tmp"}}, func(rel string, d fs.DirEntry) error {
		visited = append(visited, rel)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.txt"}, visited)
}

func TestWalkSkipDir(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"skipme/inner.txt": "x",
		"top.txt":          "x",
	})

	var visited []string
	err := Walk(root, WalkOptions{}, func(rel string, d fs.DirEntry) error {
		visited = append(visited, rel)
		if rel == "skipme" {
			return fs.SkipDir
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"skipme", "top.txt"}, visited)
}

func TestWalkBottomUpDeepestFirst(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a/b/c/file.txt": "x"})

	var visited []string
	err := WalkBottomUp(root, func(rel string) error {
		visited = append(visited, rel)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a/b/c", "a/b", "a"}, visited)
}

func TestIsEmptyDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "empty"), 0o755))
	writeTree(t, root, map[string]string{"full/file.txt": "x"})

	empty, err := IsEmptyDir(filepath.Join(root, "empty"))
	require.NoError(t, err)
	assert.True(t, empty)

	empty, err = IsEmptyDir(filepath.Join(root, "full"))
	require.NoError(t, err)
	assert.False(t, empty)
}
