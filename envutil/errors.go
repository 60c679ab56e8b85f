package envutil

import (
	"errors"
	"strings"
)

// FailureMessagePrefix starts every ValidationError message and the line
// written by ExitSink.
const FailureMessagePrefix = "Some environment variables cannot be validated: "

// ErrValidation matches any *ValidationError via errors.Is.
var ErrValidation = errors.New("environment validation failed")

// Kind classifies why a variable failed.
type Kind int

const (
	// KindInvalid means the variable was set but its validator rejected it.
	KindInvalid Kind = iota

	// KindMissing means the variable was not set (or was empty, when empty
	// strings count as unset).
	KindMissing
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindMissing:
		return "missing"
	default:
		return "unknown"
	}
}

// Failure is one key that could not be resolved.
type Failure struct {
	Key  string
	Kind Kind
}

// ValidationError reports every key that failed during a Resolve call.
// Missing and invalid keys are disjoint, and both lists follow the order in
// which the keys were declared.
type ValidationError struct {
	failures []Failure
}

// Error lists every failing key, comma-separated, in declaration order.
func (e *ValidationError) Error() string {
	return FailureMessagePrefix + strings.Join(e.Variables(), ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation //nolint:errorlint
}

// Failures returns every failure in declaration order.
func (e *ValidationError) Failures() []Failure {
	out := make([]Failure, len(e.failures))
	copy(out, e.failures)

	return out
}

// Variables returns every failing key, missing and invalid merged, in
// declaration order.
func (e *ValidationError) Variables() []string {
	return e.keys(func(Failure) bool { return true })
}

// Invalid returns the keys that were set but rejected by their validator.
func (e *ValidationError) Invalid() []string {
	return e.keys(func(f Failure) bool { return f.Kind == KindInvalid })
}

// Missing returns the keys that were not set.
func (e *ValidationError) Missing() []string {
	return e.keys(func(f Failure) bool { return f.Kind == KindMissing })
}

func (e *ValidationError) keys(keep func(Failure) bool) []string {
	out := make([]string, 0, len(e.failures))

	for _, f := range e.failures {
		if keep(f) {
			out = append(out, f.Key)
		}
	}

	return out
}
