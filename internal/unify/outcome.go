package unify

import (
	"github.com/samber/lo"

	"github.com/orizon-lang/unifyeq/internal/goal"
	"github.com/orizon-lang/unifyeq/internal/term"
)

// Kind tells whether a goal remains after resolution.
type Kind int

const (
	// Closed means the equation was contradictory and the goal is discharged.
	Closed Kind = iota
	// Progress means the goal was replaced by Outcome.Goal.
	Progress
)

// String returns a string representation of the outcome kind.
func (k Kind) String() string {
	if k == Closed {
		return "closed"
	}

	return "progress"
}

// Elimination records a variable removed by substitution.
type Elimination struct {
	Replacement *term.Term
	Var         goal.Ref
}

// Outcome is the result of resolving one equation hypothesis.
//
// Hypotheses lists the hypotheses that now stand in place of the resolved one.
// It never contains the resolved hypothesis itself, and its last
// PendingEquations entries are new equations, in decomposition order, that the
// caller must resolve in turn.
type Outcome struct {
	// Eliminated is set when a variable was substituted away.
	Eliminated *Elimination
	// Case is the case name the caller supplied, if any.
	Case             string
	Hypotheses       []goal.Ref
	Goal             goal.ID
	Kind             Kind
	PendingEquations int
}

// Pending returns the equations left to resolve.
func (o *Outcome) Pending() []goal.Ref {
	return o.Hypotheses[len(o.Hypotheses)-o.PendingEquations:]
}

// Names returns the user-facing names of the produced hypotheses.
func (o *Outcome) Names() []string {
	return lo.Map(o.Hypotheses, func(r goal.Ref, _ int) string { return r.Name })
}
