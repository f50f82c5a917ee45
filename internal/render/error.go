package render

import "fmt"

// Kind classifies render failures.
type Kind string

const (
	KindUnresolvedPathVariable Kind = "unresolved path variable"
	KindInvalidTemplate        Kind = "invalid template"
	KindUndefinedVariable      Kind = "undefined variable"
	KindIOFailure              Kind = "io failure"
)

// Error is a fatal render failure. Path is always the template-relative
// source path of the offending node, so template authors can find it.
type Error struct {
	Kind     Kind
	Path     string
	Variable string // set for undefined-variable failures
	Err      error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindUnresolvedPathVariable:
		return fmt.Sprintf("unresolved variable in path %q: %v", e.Path, e.Err)
	case KindInvalidTemplate:
		return fmt.Sprintf("invalid template %q: %v", e.Path, e.Err)
	case KindUndefinedVariable:
		if e.Variable != "" {
			return fmt.Sprintf("template %q references undefined variable %q", e.Path, e.Variable)
		}
		return fmt.Sprintf("template %q references an undefined variable: %v", e.Path, e.Err)
	case KindIOFailure:
		return fmt.Sprintf("io failure at %q: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("render error (%s) at %q: %v", e.Kind, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
