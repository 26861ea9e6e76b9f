package unify

import (
	"github.com/orizon-lang/unifyeq/internal/goal"
	"github.com/orizon-lang/unifyeq/internal/term"
)

// substEq eliminates x by replacement and drops the equation. symm is set when x is
// the right-hand side. When the substitution is not legal, onIllegal runs if given;
// otherwise the equation is dropped if a and b are definitionally equal and the
// resolution fails if they are not.
func (c *call) substEq(x term.FVarID, replacement, a, b *term.Term, symm bool, onIllegal func() (*Outcome, error)) (*Outcome, error) {
	if out, ok := c.trySubst(x, replacement, symm); ok {
		return out, nil
	}

	if onIllegal != nil {
		return onIllegal()
	}

	same, err := c.r.meta.IsDefEq(a, b)
	if err != nil {
		return nil, err
	}

	if !same {
		return nil, c.unsolvable()
	}

	return c.dismiss()
}

// trySubst substitutes x everywhere and clears the equation. It reports false,
// leaving the store untouched, when either step would fail.
func (c *call) trySubst(x term.FVarID, replacement *term.Term, symm bool) (*Outcome, bool) {
	h := c.hyp.ID
	if c.g.Mentions(h) {
		return nil, false
	}

	replacement = c.r.meta.InstantiateMVars(replacement)

	next, err := c.r.store.Substitute(c.id, x, replacement)
	if err != nil {
		c.r.logger.Debug("substitution rejected", "variable", x.String(), "symm", symm, "reason", err)

		return nil, false
	}

	// h is not referenced, so clearing it cannot fail.
	next, err = c.r.store.Clear(next, h)
	if err != nil {
		return nil, false
	}

	name, _ := c.g.NameOf(x)

	return &Outcome{
		Kind: Progress,
		Goal: next,
		Eliminated: &Elimination{
			Var:         goal.Ref{ID: x, Name: name},
			Replacement: replacement,
		},
	}, true
}

// clearTied handles h : x = x. The equation is dropped, then x itself when nothing
// else refers to it.
func (c *call) clearTied(x term.FVarID) (*Outcome, error) {
	out, err := c.dismiss()
	if err != nil {
		return nil, err
	}

	if next, err := c.r.store.Clear(out.Goal, x); err == nil {
		out.Goal = next
	}

	return out, nil
}
