// Package prune removes files and directories owned by disabled components
// from a rendered project.
//
// Pruning exists alongside renderer gating because some shared files (a
// dependency manifest, a settings module) are rendered once with content
// conditioned on several components rather than wholesale included or
// excluded. Gating handles whole subtrees; pruning sweeps up whatever a
// disabled component still owns afterwards.
package prune

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/bhardwajRahul/aegis-stack/internal/filesystem"
	"github.com/bhardwajRahul/aegis-stack/internal/manifest"
	"github.com/bhardwajRahul/aegis-stack/internal/resolve"
)

// Prune deletes every still-existing path owned by a disabled component,
// then removes directories left empty by those deletions. Deleting a path
// the renderer already gated off is a no-op, not an error.
//
// Prune is idempotent: a second run with the same inputs changes nothing.
func Prune(projectRoot string, cfg *resolve.Config, m *manifest.Manifest) error {
	var disabled []*manifest.Component
	for i := range m.Components {
		if !cfg.ComponentEnabled(m.Components[i].ID) {
			disabled = append(disabled, &m.Components[i])
		}
	}
	if len(disabled) == 0 {
		return nil
	}

	matches, err := collectOwned(projectRoot, disabled)
	if err != nil {
		return err
	}

	// Delete deepest-first so directory matches do not invalidate file
	// matches collected beneath them.
	sort.Slice(matches, func(i, j int) bool { return matches[i] > matches[j] })

	parents := make(map[string]bool)
	for _, rel := range matches {
		abs := filepath.Join(projectRoot, filepath.FromSlash(rel))
		if _, err := os.Stat(abs); os.IsNotExist(err) {
			continue
		}
		if err := os.RemoveAll(abs); err != nil {
			return fmt.Errorf("failed to prune %s: %w", rel, err)
		}
		if parent := path.Dir(rel); parent != "." {
			parents[parent] = true
		}
	}

	return sweepEmptied(projectRoot, parents)
}

func collectOwned(projectRoot string, disabled []*manifest.Component) ([]string, error) {
	var matches []string
	err := filesystem.Walk(projectRoot, filesystem.WalkOptions{}, func(rel string, d fs.DirEntry) error {
		for _, c := range disabled {
			if c.OwnsPath(rel) {
				matches = append(matches, rel)
				if d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan project for pruning: %w", err)
	}
	return matches, nil
}

// sweepEmptied removes directories made empty by pruning. Only ancestors
// of deleted paths are eligible, so a directory the template shipped empty
// stays. Removing a directory makes its parent eligible in turn; the
// bottom-up walk visits children before parents, so cascades resolve in
// one pass.
func sweepEmptied(projectRoot string, eligible map[string]bool) error {
	if len(eligible) == 0 {
		return nil
	}
	return filesystem.WalkBottomUp(projectRoot, func(rel string) error {
		if !eligible[rel] {
			return nil
		}
		abs := filepath.Join(projectRoot, filepath.FromSlash(rel))
		empty, err := filesystem.IsEmptyDir(abs)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !empty {
			return nil
		}
		if err := os.Remove(abs); err != nil {
			return fmt.Errorf("failed to remove emptied directory %s: %w", rel, err)
		}
		if parent := path.Dir(rel); parent != "." {
			eligible[parent] = true
		}
		return nil
	})
}
