package meta

import (
	"github.com/orizon-lang/unifyeq/internal/errors"
	"github.com/orizon-lang/unifyeq/internal/term"
)

// IsDefEq reports whether a and b are definitionally equal. Unassigned
// metavariables may be assigned on the way; when the answer is false every
// assignment made by the check is undone.
func (c *Context) IsDefEq(a, b *term.Term) (bool, error) {
	saved := c.SaveState()

	ok, err := c.isDefEq(a, b, 0)
	if err != nil || !ok {
		c.RestoreState(saved)
	}

	return ok, err
}

func (c *Context) isDefEq(a, b *term.Term, depth int) (bool, error) {
	if depth >= c.config.MaxDefEqDepth {
		return false, errors.StepLimit("definitional equality", c.config.MaxDefEqDepth)
	}

	a = c.InstantiateMVars(a)
	b = c.InstantiateMVars(b)

	if term.Equal(a, b) {
		return true, nil
	}

	if ok, done := c.tryAssign(a, b); done {
		return ok, nil
	}

	if ok, done := c.tryAssign(b, a); done {
		return ok, nil
	}

	if a.Kind() == b.Kind() {
		switch a.Kind() {
		case term.KindLam, term.KindPi:
			ok, err := c.isDefEq(a.Domain(), b.Domain(), depth+1)
			if err != nil || !ok {
				return ok, err
			}

			return c.isDefEq(a.Body(), b.Body(), depth+1)

		case term.KindApp:
			ok, err := c.isDefEqSpine(a, b, depth)
			if err != nil || ok {
				return ok, err
			}
		}
	}

	ra, err := c.WHNF(a)
	if err != nil {
		return false, err
	}

	rb, err := c.WHNF(b)
	if err != nil {
		return false, err
	}

	if term.Equal(ra, a) && term.Equal(rb, b) {
		return false, nil
	}

	return c.isDefEq(ra, rb, depth+1)
}

// isDefEqSpine compares two applications argument-wise when their heads agree.
// Assignments are rolled back when some argument pair differs so that unfolding
// can be tried from a clean state.
func (c *Context) isDefEqSpine(a, b *term.Term, depth int) (bool, error) {
	headA, argsA := a.HeadAndArgs()
	headB, argsB := b.HeadAndArgs()

	if len(argsA) != len(argsB) || !term.Equal(headA, headB) {
		return false, nil
	}

	saved := c.SaveState()

	for i := range argsA {
		ok, err := c.isDefEq(argsA[i], argsB[i], depth+1)
		if err != nil {
			return false, err
		}

		if !ok {
			c.RestoreState(saved)

			return false, nil
		}
	}

	return true, nil
}

// tryAssign assigns value to m when m is an unassigned metavariable. done is false
// when m is not such a metavariable.
func (c *Context) tryAssign(m, value *term.Term) (ok, done bool) {
	if !m.IsMVar() || c.MCtx.IsAssigned(m.MVarID()) {
		return false, false
	}

	id := m.MVarID()
	occurs := term.Find(value, func(sub *term.Term) bool {
		return sub.IsMVar() && sub.MVarID() == id
	})

	if occurs || term.HasLooseBVars(value) {
		return false, true
	}

	c.Assign(id, value)

	return true, true
}
