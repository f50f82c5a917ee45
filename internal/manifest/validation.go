package manifest

import "fmt"

// ValidationError describes one manifest defect with context.
type ValidationError struct {
	Field      string // Field path (e.g. "components[0].requires")
	Message    string
	Suggestion string // Optional fix hint
}

// Error returns a formatted error message.
func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("manifest error at %s: %s", e.Field, e.Message)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(". Suggestion: %s", e.Suggestion)
	}
	return msg
}

// ValidationErrors is a collection of manifest defects.
type ValidationErrors []ValidationError

// Error returns all errors formatted with clear separation.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "manifest validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	result := fmt.Sprintf("found %d manifest errors:\n", len(e))
	for i := range e {
		result += fmt.Sprintf("  %d. %s\n", i+1, e[i].Error())
	}
	return result
}
