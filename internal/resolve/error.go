package resolve

import "fmt"

// Kind classifies resolution failures.
type Kind string

const (
	KindInvalidValue          Kind = "invalid value"
	KindMissingDependency     Kind = "missing dependency"
	KindConflictingComponents Kind = "conflicting components"
)

// Error is a fatal resolution failure. It always carries enough context
// (variable or component name) to pinpoint the bad answer.
type Error struct {
	Kind      Kind
	Variable  string // set for invalid values
	Component string // set for dependency/conflict errors
	Requires  string // the missing prerequisite
	Conflict  string // the mutually exclusive component
	Reason    string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidValue:
		return fmt.Sprintf("invalid value for %q: %s", e.Variable, e.Reason)
	case KindMissingDependency:
		return fmt.Sprintf("component %q requires %q, which is not enabled (enable it explicitly)", e.Component, e.Requires)
	case KindConflictingComponents:
		return fmt.Sprintf("components %q and %q cannot both be enabled", e.Component, e.Conflict)
	}
	return fmt.Sprintf("resolution error (%s)", e.Kind)
}

func invalidValue(variable, reason string) *Error {
	return &Error{Kind: KindInvalidValue, Variable: variable, Reason: reason}
}
