package apperr

import "fmt"

// NotFoundError reports a lookup miss for a subject, branch, topic or mission.
// State-mutating callers treat it as a no-op rather than aborting.
type NotFoundError struct {
	Kind string // "branch", "topic", "subject", "mission", "dungeon"
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %q", e.Kind, e.Key)
}

// ValidationError is a structured rejection of caller input. The UI layer
// decides how to present it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InsufficientResourceError is returned before any mutation when a debit
// cannot be covered.
type InsufficientResourceError struct {
	Resource  string
	Required  int
	Available int
}

func (e *InsufficientResourceError) Error() string {
	return fmt.Sprintf("insufficient %s: need %d, have %d", e.Resource, e.Required, e.Available)
}

// NotFound is shorthand for building a NotFoundError.
func NotFound(kind, key string) error {
	return &NotFoundError{Kind: kind, Key: key}
}

// Invalid is shorthand for building a ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
