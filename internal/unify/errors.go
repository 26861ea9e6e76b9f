package unify

import (
	"errors"

	"github.com/orizon-lang/unifyeq/internal/diagnostic"
)

// Failures owned by the resolver. Errors of the oracle and the context store are
// returned as they are.
var (
	ErrNotAnEquation            = errors.New("not an equation")
	ErrUnsolvableEquation       = errors.New("unsolvable equation")
	ErrMalformedInjectionTarget = errors.New("malformed injection target")
)

// Error is a user-facing resolver failure.
type Error struct {
	kind       error
	Diagnostic *diagnostic.Diagnostic
	// Hypothesis is the user-facing name of the equation being resolved.
	Hypothesis string
}

func newError(kind error, hyp string, d *diagnostic.Diagnostic) *Error {
	return &Error{kind: kind, Hypothesis: hyp, Diagnostic: d}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Diagnostic.Error()
}

// Unwrap returns the sentinel classifying the failure.
func (e *Error) Unwrap() error {
	return e.kind
}
