package integration

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhardwajRahul/aegis-stack/internal/compose"
	"github.com/bhardwajRahul/aegis-stack/internal/resolve"
)

const templateRoot = "../../templates/fastapi"

func composeProject(t *testing.T, answers map[string]any) (*compose.Result, error) {
	t.Helper()
	return compose.ComposeStrict(context.Background(), compose.Options{
		TemplateRoot: templateRoot,
		OutputRoot:   filepath.Join(t.TempDir(), "out"),
		Answers:      answers,
	})
}

func listFiles(t *testing.T, root string) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		require.NoError(t, err)
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		require.NoError(t, relErr)
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	require.NoError(t, err)
	return files
}

// TestAllComponentCombinations sweeps every selection of the template's
// four components. Valid selections must produce a clean project; the
// invalid ones (persistence without its prerequisites) must fail
// resolution, never generate a broken tree.
func TestAllComponentCombinations(t *testing.T) {
	bools := []bool{false, true}
	for _, worker := range bools {
		for _, scheduler := range bools {
			for _, database := range bools {
				for _, persistence := range bools {
					name := fmt.Sprintf("worker=%v,scheduler=%v,database=%v,persistence=%v",
						worker, scheduler, database, persistence)
					t.Run(name, func(t *testing.T) {
						answers := map[string]any{
							"project_name":          "sweep",
							"worker":                worker,
							"scheduler":             scheduler,
							"database":              database,
							"scheduler_persistence": persistence,
						}

						result, err := composeProject(t, answers)

						if persistence && !(scheduler && database) {
							var resErr *resolve.Error
							require.True(t, errors.As(err, &resErr))
							assert.Equal(t, resolve.KindMissingDependency, resErr.Kind)
							return
						}

						require.NoError(t, err)
						require.True(t, result.Report.Empty(), result.Report.Summary())

						files := listFiles(t, result.OutputRoot)
						for _, f := range files {
							if !worker {
								assert.False(t, strings.HasPrefix(f, "app/components/worker/"), f)
							}
							if !scheduler {
								assert.False(t, strings.HasPrefix(f, "app/components/scheduler/"), f)
							}
							if !database {
								assert.False(t, strings.HasPrefix(f, "app/components/database/"), f)
								assert.NotEqual(t, "alembic.ini", f)
							}
							if !persistence {
								assert.False(t, strings.HasPrefix(f, "app/components/scheduler/persistence/"), f)
							}
						}
						assert.Contains(t, files, "README.md")
						assert.Contains(t, files, "app/main.py")
						assert.Contains(t, files, "pyproject.toml")
					})
				}
			}
		}
	}
}

func TestWorkerSubtreeFullyRendered(t *testing.T) {
	result, err := composeProject(t, map[string]any{
		"project_name": "myapp",
		"worker":       true,
	})
	require.NoError(t, err)

	tasks, err := os.ReadFile(filepath.Join(result.OutputRoot, "app", "components", "worker", "tasks.py"))
	require.NoError(t, err)
	assert.Contains(t, string(tasks), `queue_name = "myapp:queue"`)
	assert.NotContains(t, string(tasks), "{{")
}

func TestDependencyManifestTracksSelection(t *testing.T) {
	result, err := composeProject(t, map[string]any{
		"project_name":    "myapp",
		"database":        true,
		"frontend_extras": "htmx",
	})
	require.NoError(t, err)

	pyproject, err := os.ReadFile(filepath.Join(result.OutputRoot, "pyproject.toml"))
	require.NoError(t, err)

	content := string(pyproject)
	assert.Contains(t, content, "sqlmodel")
	assert.Contains(t, content, "jinja2")
	assert.NotContains(t, content, "arq")
	assert.NotContains(t, content, "apscheduler")
}

func TestDevScriptStaysExecutable(t *testing.T) {
	result, err := composeProject(t, map[string]any{"project_name": "myapp"})
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(result.OutputRoot, "scripts", "dev.sh"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0o111)
}

func TestGenerationIsDeterministic(t *testing.T) {
	answers := map[string]any{
		"project_name": "myapp",
		"worker":       true,
		"scheduler":    true,
		"database":     true,
	}

	readAll := func(root string) map[string]string {
		tree := make(map[string]string)
		for _, rel := range listFiles(t, root) {
			content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
			require.NoError(t, err)
			tree[rel] = string(content)
		}
		return tree
	}

	first, err := composeProject(t, answers)
	require.NoError(t, err)
	second, err := composeProject(t, answers)
	require.NoError(t, err)

	assert.Equal(t, readAll(first.OutputRoot), readAll(second.OutputRoot))
}
