// Package filesystem provides deterministic directory traversal helpers
// shared by the pruner and the validator.
package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultIgnoreDirs are directories never scanned inside a generated project.
var DefaultIgnoreDirs = []string{
	".git", ".svn", ".hg",
	"node_modules", "vendor", "__pycache__",
}

// WalkOptions configures directory traversal behavior.
//
// Dotfiles are always visited: generated projects carry .env, .gitignore
// and similar files that the pruner and validator must see.
type WalkOptions struct {
	IgnoreDirs     []string // Directories to skip (default: DefaultIgnoreDirs)
	IgnorePatterns []string // File name patterns to skip (e.g. "*.pyc")
}

// Walk traverses root depth-first in sorted order, calling visitor with the
// path relative to root. Directories are visited before their contents.
// Return fs.SkipDir from the visitor to skip a directory's contents.
//
// Sorted order matters: generation output must not depend on readdir order.
func Walk(root string, opts WalkOptions, visitor func(rel string, d fs.DirEntry) error) error {
	ignoreDirs := opts.IgnoreDirs
	if ignoreDirs == nil {
		ignoreDirs = DefaultIgnoreDirs
	}

	var walk func(dir, rel string) error
	walk = func(dir, rel string) error {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

		for _, entry := range entries {
			name := entry.Name()

			if entry.IsDir() && isIgnored(name, ignoreDirs) {
				continue
			}
			if !entry.IsDir() && matchesAny(name, opts.IgnorePatterns) {
				continue
			}

			childRel := name
			if rel != "" {
				childRel = rel + "/" + name
			}

			err := visitor(childRel, entry)
			if entry.IsDir() {
				if err == fs.SkipDir {
					continue
				}
				if err != nil {
					return err
				}
				if err := walk(filepath.Join(dir, name), childRel); err != nil {
					return err
				}
				continue
			}
			if err != nil && err != fs.SkipDir {
				return err
			}
		}
		return nil
	}

	return walk(root, "")
}

// WalkBottomUp visits every directory under root (excluding root itself)
// deepest-first. The pruner uses this to sweep directories emptied by
// deletions.
func WalkBottomUp(root string, visitor func(rel string) error) error {
	var dirs []string
	err := Walk(root, WalkOptions{}, func(rel string, d fs.DirEntry) error {
		if d.IsDir() {
			dirs = append(dirs, rel)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Deepest paths first; Walk returns parents before children.
	sort.Slice(dirs, func(i, j int) bool {
		return strings.Count(dirs[i], "/") > strings.Count(dirs[j], "/")
	})
	for _, rel := range dirs {
		if err := visitor(rel); err != nil {
			return err
		}
	}
	return nil
}

// IsEmptyDir reports whether path is a directory with no entries.
func IsEmptyDir(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return false, err
	}
	return len(entries) == 0, nil
}

func isIgnored(name string, ignoreDirs []string) bool {
	for _, ignore := range ignoreDirs {
		if name == ignore {
			return true
		}
	}
	return false
}

func matchesAny(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}
