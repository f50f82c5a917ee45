// Package validate scans a generated project for templating artifacts:
// markers that survived rendering, and references to components that were
// pruned away.
//
// Issues are collected into a Report, never raised. The caller decides
// whether a non-empty report is fatal, which lets dry-run style uses accept
// partial output while the CLI's strict path refuses to ship it.
package validate

import (
	"bufio"
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bhardwajRahul/aegis-stack/internal/filesystem"
	"github.com/bhardwajRahul/aegis-stack/internal/manifest"
	"github.com/bhardwajRahul/aegis-stack/internal/resolve"
)

// IssueKind classifies validation findings.
type IssueKind string

const (
	KindUnrenderedMarker  IssueKind = "unrendered marker"
	KindDanglingReference IssueKind = "dangling reference"
)

// Issue is one defect found in the generated tree.
type Issue struct {
	Kind      IssueKind
	File      string // project-relative path
	Line      int
	Component string // the disabled component, for dangling references
	Token     string // the matched reference token
}

func (i Issue) String() string {
	switch i.Kind {
	case KindUnrenderedMarker:
		return fmt.Sprintf("%s:%d: unrendered template marker", i.File, i.Line)
	case KindDanglingReference:
		return fmt.Sprintf("%s:%d: reference %q to disabled component %q", i.File, i.Line, i.Token, i.Component)
	}
	return fmt.Sprintf("%s:%d: %s", i.File, i.Line, i.Kind)
}

// Report collects every issue found in one scan.
type Report struct {
	Issues []Issue
}

// Empty reports whether the scan found nothing.
func (r *Report) Empty() bool { return len(r.Issues) == 0 }

// Summary renders the report one issue per line.
func (r *Report) Summary() string {
	if r.Empty() {
		return "no issues found"
	}
	lines := make([]string, 0, len(r.Issues)+1)
	lines = append(lines, fmt.Sprintf("found %d issues:", len(r.Issues)))
	for _, issue := range r.Issues {
		lines = append(lines, "  "+issue.String())
	}
	return strings.Join(lines, "\n")
}

// markerRe matches residual substitution-marker syntax. Any occurrence in
// generated output means a rendering step was skipped or misconfigured.
var markerRe = regexp.MustCompile(`\{\{[^{}]*\}\}`)

// Scan walks the generated project and returns a report of leftover markers
// and references to disabled components. Binary files are skipped.
func Scan(projectRoot string, cfg *resolve.Config, m *manifest.Manifest) (*Report, error) {
	type disabledComponent struct {
		id     string
		tokens []string
	}
	var disabled []disabledComponent
	for _, c := range m.Components {
		if !cfg.ComponentEnabled(c.ID) {
			disabled = append(disabled, disabledComponent{id: c.ID, tokens: c.Tokens()})
		}
	}

	report := &Report{}
	err := filesystem.Walk(projectRoot, filesystem.WalkOptions{}, func(rel string, d fs.DirEntry) error {
		if d.IsDir() {
			return nil
		}

		data, err := os.ReadFile(filepath.Join(projectRoot, filepath.FromSlash(rel)))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", rel, err)
		}
		if isBinary(data) {
			return nil
		}

		scanner := bufio.NewScanner(bytes.NewReader(data))
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		line := 0
		for scanner.Scan() {
			line++
			text := scanner.Text()

			if markerRe.MatchString(text) {
				report.Issues = append(report.Issues, Issue{
					Kind: KindUnrenderedMarker,
					File: rel,
					Line: line,
				})
			}

			for _, c := range disabled {
				for _, token := range c.tokens {
					if strings.Contains(text, token) {
						report.Issues = append(report.Issues, Issue{
							Kind:      KindDanglingReference,
							File:      rel,
							Line:      line,
							Component: c.id,
							Token:     token,
						})
					}
				}
			}
		}
		return scanner.Err()
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// isBinary treats any NUL byte in the first 8KB as binary content.
func isBinary(data []byte) bool {
	probe := data
	if len(probe) > 8192 {
		probe = probe[:8192]
	}
	return bytes.IndexByte(probe, 0) >= 0
}
