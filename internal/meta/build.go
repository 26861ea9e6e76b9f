package meta

import (
	"fmt"

	"github.com/orizon-lang/unifyeq/internal/errors"
	"github.com/orizon-lang/unifyeq/internal/term"
)

// MkEq builds the proposition a = b at the inferred type of a.
func (c *Context) MkEq(lctx LocalContext, a, b *term.Term) (*term.Term, error) {
	ty, err := c.InferType(lctx, a)
	if err != nil {
		return nil, err
	}

	return term.MkEqTerm(ty, a, b), nil
}

// MkHEq builds the heterogeneous equality HEq a b from the inferred types of a and b.
func (c *Context) MkHEq(lctx LocalContext, a, b *term.Term) (*term.Term, error) {
	tyA, err := c.InferType(lctx, a)
	if err != nil {
		return nil, err
	}

	tyB, err := c.InferType(lctx, b)
	if err != nil {
		return nil, err
	}

	return term.MkHEqTerm(tyA, a, tyB, b), nil
}

// MkEqOrHEq builds a = b when the types of a and b are definitionally equal and
// HEq a b otherwise.
func (c *Context) MkEqOrHEq(lctx LocalContext, a, b *term.Term) (*term.Term, error) {
	tyA, err := c.InferType(lctx, a)
	if err != nil {
		return nil, err
	}

	tyB, err := c.InferType(lctx, b)
	if err != nil {
		return nil, err
	}

	same, err := c.IsDefEq(tyA, tyB)
	if err != nil {
		return nil, err
	}

	if same {
		return term.MkEqTerm(tyA, a, b), nil
	}

	return term.MkHEqTerm(tyA, a, tyB, b), nil
}

// MkEqOfHEq turns a proof h of HEq (a : α) (b : β) into a proof of a = b. It fails
// unless α and β are definitionally equal.
func (c *Context) MkEqOfHEq(lctx LocalContext, h *term.Term) (*term.Term, error) {
	hType, err := c.InferType(lctx, h)
	if err != nil {
		return nil, err
	}

	hType, err = c.WHNF(c.InstantiateMVars(hType))
	if err != nil {
		return nil, err
	}

	alpha, a, beta, b, ok := term.HEqArgs(hType)
	if !ok {
		return nil, errors.IllTyped(fmt.Sprintf("heterogeneous equality expected, got %s", hType))
	}

	same, err := c.IsDefEq(alpha, beta)
	if err != nil {
		return nil, err
	}

	if !same {
		return nil, errors.IllTyped(fmt.Sprintf("types %s and %s are not definitionally equal", alpha, beta))
	}

	return term.Apps(term.Const(term.EqOfHEqName), alpha, a, b, h), nil
}
