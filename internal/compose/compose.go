// Package compose runs the full generation pipeline: resolve answers,
// render the template tree, prune disabled components, validate the result.
//
// Each call is a pure function of (template, answers, output root). The
// engine keeps no state across invocations, so callers needing atomic
// placement can compose into a temporary directory and rename into place.
package compose

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/bhardwajRahul/aegis-stack/internal/exec"
	"github.com/bhardwajRahul/aegis-stack/internal/manifest"
	"github.com/bhardwajRahul/aegis-stack/internal/prune"
	"github.com/bhardwajRahul/aegis-stack/internal/render"
	"github.com/bhardwajRahul/aegis-stack/internal/resolve"
	"github.com/bhardwajRahul/aegis-stack/internal/validate"
)

// Options are the inputs of one composition run.
type Options struct {
	TemplateRoot string
	OutputRoot   string
	Answers      map[string]any
	Overwrite    bool // replace an existing output root
	DryRun       bool // list operations without writing
	SkipFormat   bool // skip the template's formatter hook
	Writer       io.Writer
}

// Result is the outcome of a successful composition.
type Result struct {
	OutputRoot string
	Manifest   *manifest.Manifest
	Config     *resolve.Config
	Report     *validate.Report // nil for dry runs

	// FormatError records a failed formatter hook. Formatting is cosmetic,
	// so this never fails the composition.
	FormatError error
}

// Compose generates a project. Resolution and render failures abort with
// the partial output removed; validator findings are returned in the
// Report for the caller to judge.
func Compose(ctx context.Context, opts Options) (*Result, error) {
	m, err := manifest.Load(opts.TemplateRoot)
	if err != nil {
		return nil, err
	}

	cfg, err := resolve.Resolve(opts.Answers, m)
	if err != nil {
		return nil, err
	}

	treeRoot := m.TreeRoot(opts.TemplateRoot)
	if _, err := os.Stat(treeRoot); err != nil {
		return nil, fmt.Errorf("template has no %s/ directory: %w", manifest.TreeDir, err)
	}

	if err := prepareOutputRoot(opts); err != nil {
		return nil, err
	}

	gate := componentGate(cfg, m)
	renderer := render.New(m.Settings.TemplateSuffix)

	ops, err := renderer.Plan(treeRoot, opts.OutputRoot, cfg.TemplateData(), gate)
	if err != nil {
		return nil, err
	}
	if err := renderer.Apply(ctx, opts.OutputRoot, ops, render.ApplyOptions{
		DryRun: opts.DryRun,
		Writer: opts.Writer,
	}); err != nil {
		return nil, err
	}

	result := &Result{OutputRoot: opts.OutputRoot, Manifest: m, Config: cfg}
	if opts.DryRun {
		return result, nil
	}

	if err := prune.Prune(opts.OutputRoot, cfg, m); err != nil {
		return nil, err
	}

	report, err := validate.Scan(opts.OutputRoot, cfg, m)
	if err != nil {
		return nil, err
	}
	result.Report = report

	if m.Settings.Formatter != nil && !opts.SkipFormat {
		result.FormatError = runFormatter(ctx, opts, m.Settings.Formatter)
	}
	return result, nil
}

// ComposeStrict is Compose with a non-empty validator report promoted to a
// fatal error. A project with dangling references must not ship silently.
func ComposeStrict(ctx context.Context, opts Options) (*Result, error) {
	result, err := Compose(ctx, opts)
	if err != nil {
		return nil, err
	}
	if result.Report != nil && !result.Report.Empty() {
		return result, fmt.Errorf("generated project failed validation: %s", result.Report.Summary())
	}
	return result, nil
}

// componentGate excludes paths owned by disabled components before they are
// ever materialized.
func componentGate(cfg *resolve.Config, m *manifest.Manifest) render.Gate {
	var disabled []*manifest.Component
	for i := range m.Components {
		if !cfg.ComponentEnabled(m.Components[i].ID) {
			disabled = append(disabled, &m.Components[i])
		}
	}

	return func(rel string) bool {
		for _, c := range disabled {
			if c.OwnsPath(rel) {
				return false
			}
		}
		return true
	}
}

func prepareOutputRoot(opts Options) error {
	info, err := os.Stat(opts.OutputRoot)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("output path %s exists and is not a directory", opts.OutputRoot)
	}
	if !opts.Overwrite {
		return fmt.Errorf("output directory %s already exists (use --overwrite to replace it)", opts.OutputRoot)
	}
	if opts.DryRun {
		return nil
	}
	return os.RemoveAll(opts.OutputRoot)
}

func runFormatter(ctx context.Context, opts Options, f *manifest.Formatter) error {
	e := exec.New(&exec.Options{
		Stdout: opts.Writer,
		Stderr: opts.Writer,
		Dir:    opts.OutputRoot,
	})
	return e.RunWithSpinner(ctx, "Formatting", f.Command, f.Args...)
}
