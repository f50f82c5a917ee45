// Package render materializes a template tree into an output directory.
//
// Path names and templated file contents are rendered with text/template
// against the resolved configuration. Rendering is strict: a reference to
// an undefined variable is a fatal error, never a silent blank, because a
// blank would hide configuration bugs inside generated code.
package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"text/template"
)

// Gate decides whether an output-relative path is materialized at all.
// Gated-off directories are never created, so no later cleanup is needed.
type Gate func(rel string) bool

// Renderer plans and applies the materialization of one template tree.
type Renderer struct {
	suffix string
	funcs  template.FuncMap
}

// New creates a renderer. suffix marks files whose content is rendered
// (the suffix is stripped from the output name).
func New(suffix string) *Renderer {
	return &Renderer{
		suffix: suffix,
		funcs:  defaultFuncMap(),
	}
}

// Plan walks treeRoot depth-first in sorted order and returns the
// operations that would materialize it under outputRoot.
//
// Sorted traversal plus pure rendering keeps output byte-identical across
// runs for the same (tree, data) pair.
func (r *Renderer) Plan(treeRoot, outputRoot string, data map[string]any, gate Gate) ([]Operation, error) {
	if gate == nil {
		gate = func(string) bool { return true }
	}

	return r.planDir(treeRoot, outputRoot, "", "", data, gate)
}

func (r *Renderer) planDir(treeRoot, outputRoot, srcRel, outRel string, data map[string]any, gate Gate) ([]Operation, error) {
	entries, err := os.ReadDir(filepath.Join(treeRoot, filepath.FromSlash(srcRel)))
	if err != nil {
		return nil, &Error{Kind: KindIOFailure, Path: srcRel, Err: err}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var ops []Operation
	for _, entry := range entries {
		srcChild := joinRel(srcRel, entry.Name())

		name, err := r.renderPathSegment(entry.Name(), srcChild, data)
		if err != nil {
			return nil, err
		}
		// A name that renders to nothing gates its subtree off.
		if name == "" {
			continue
		}

		isTemplate := !entry.IsDir() && strings.HasSuffix(name, r.suffix)
		if isTemplate {
			name = strings.TrimSuffix(name, r.suffix)
			if name == "" {
				return nil, &Error{
					Kind: KindUnresolvedPathVariable,
					Path: srcChild,
					Err:  fmt.Errorf("file name is only the template suffix"),
				}
			}
		}

		outChild := joinRel(outRel, name)
		if !gate(outChild) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return nil, &Error{Kind: KindIOFailure, Path: srcChild, Err: err}
		}

		srcPath := filepath.Join(treeRoot, filepath.FromSlash(srcChild))
		outPath := filepath.Join(outputRoot, filepath.FromSlash(outChild))

		switch {
		case entry.IsDir():
			children, err := r.planDir(treeRoot, outputRoot, srcChild, outChild, data, gate)
			if err != nil {
				return nil, err
			}
			// A directory that lost all of its children to gating is not
			// materialized. Directories empty in the source are kept: the
			// template author put them there deliberately.
			if len(children) == 0 && !dirEmpty(srcPath) {
				continue
			}
			ops = append(ops, &MkdirOp{Path: outPath, Rel: outChild, Mode: info.Mode()})
			ops = append(ops, children...)

		case isTemplate:
			content, err := r.renderContent(srcPath, srcChild, data)
			if err != nil {
				return nil, err
			}
			ops = append(ops, &WriteFileOp{Path: outPath, Rel: outChild, Content: content, Mode: info.Mode()})

		default:
			ops = append(ops, &CopyFileOp{Src: srcPath, Path: outPath, Rel: outChild, Mode: info.Mode()})
		}
	}
	return ops, nil
}

func dirEmpty(path string) bool {
	entries, err := os.ReadDir(path)
	return err == nil && len(entries) == 0
}

// ApplyOptions configures plan application.
type ApplyOptions struct {
	DryRun bool
	Writer io.Writer // per-operation reporting; nil discards
}

// Apply executes a plan against outputRoot. Writes are all-or-nothing at
// the tree level: on any failure the partially written output root is
// removed before returning, so callers never observe a half-rendered
// project.
func (r *Renderer) Apply(ctx context.Context, outputRoot string, ops []Operation, opts ApplyOptions) error {
	w := opts.Writer
	if w == nil {
		w = io.Discard
	}

	for _, op := range ops {
		if err := op.Validate(ctx); err != nil {
			return &Error{Kind: KindIOFailure, Path: outputRoot, Err: err}
		}
	}

	if opts.DryRun {
		for _, op := range ops {
			fmt.Fprintf(w, "[dry-run] %s\n", op.Description())
		}
		return nil
	}

	if err := os.MkdirAll(outputRoot, 0o755); err != nil {
		return &Error{Kind: KindIOFailure, Path: outputRoot, Err: err}
	}

	for _, op := range ops {
		if err := op.Execute(ctx); err != nil {
			os.RemoveAll(outputRoot)
			return &Error{Kind: KindIOFailure, Path: outputRoot, Err: err}
		}
		fmt.Fprintf(w, "%s\n", op.Description())
	}
	return nil
}

// renderPathSegment renders one path component. Any failure is fatal:
// an unrendered marker in a path would leak templating syntax into the
// output tree's layout.
func (r *Renderer) renderPathSegment(segment, srcRel string, data map[string]any) (string, error) {
	if !strings.Contains(segment, "{{") {
		return segment, nil
	}

	rendered, err := r.execute("path:"+srcRel, segment, data)
	if err != nil {
		return "", &Error{Kind: KindUnresolvedPathVariable, Path: srcRel, Err: err}
	}

	name := strings.TrimSpace(string(rendered))
	if strings.ContainsAny(name, "/\\") {
		return "", &Error{
			Kind: KindUnresolvedPathVariable,
			Path: srcRel,
			Err:  fmt.Errorf("rendered name %q contains a path separator", name),
		}
	}
	return name, nil
}

func (r *Renderer) renderContent(srcPath, srcRel string, data map[string]any) ([]byte, error) {
	raw, err := os.ReadFile(srcPath)
	if err != nil {
		return nil, &Error{Kind: KindIOFailure, Path: srcRel, Err: err}
	}

	content, err := r.execute(srcRel, string(raw), data)
	if err != nil {
		if variable, ok := missingKey(err); ok {
			return nil, &Error{Kind: KindUndefinedVariable, Path: srcRel, Variable: variable, Err: err}
		}
		return nil, &Error{Kind: KindInvalidTemplate, Path: srcRel, Err: err}
	}
	return content, nil
}

func (r *Renderer) execute(name, text string, data map[string]any) ([]byte, error) {
	tmpl, err := template.New(name).Funcs(r.funcs).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var missingKeyRe = regexp.MustCompile(`map has no entry for key "([^"]+)"`)

// missingKey extracts the variable name from text/template's
// missingkey=error failure message.
func missingKey(err error) (string, bool) {
	m := missingKeyRe.FindStringSubmatch(err.Error())
	if m == nil {
		return "", false
	}
	return m[1], true
}

func joinRel(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}
