package unify

import (
	"github.com/orizon-lang/unifyeq/internal/goal"
	"github.com/orizon-lang/unifyeq/internal/term"
)

// heqToEq replaces h : HEq a b by an equation a = b under the same name. The new
// equation is left for the caller to resolve.
func (c *call) heqToEq() (*Outcome, error) {
	m := c.r.meta

	proof, err := m.MkEqOfHEq(c.g, term.FVar(c.hyp.ID))
	if err != nil {
		return nil, err
	}

	ty, err := m.InferType(c.g, proof)
	if err != nil {
		return nil, err
	}

	ty, err = m.WHNF(ty)
	if err != nil {
		return nil, err
	}

	next, fv, err := c.r.store.Assert(c.id, c.hyp.Name, m.InstantiateMVars(ty), proof)
	if err != nil {
		return nil, err
	}

	next, err = c.r.store.Clear(next, c.hyp.ID)
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Kind:             Progress,
		Goal:             next,
		Hypotheses:       []goal.Ref{{ID: fv, Name: c.hyp.Name}},
		PendingEquations: 1,
	}, nil
}
