package meta

import (
	"fmt"

	"github.com/orizon-lang/unifyeq/internal/env"
	"github.com/orizon-lang/unifyeq/internal/errors"
	"github.com/orizon-lang/unifyeq/internal/goal"
	"github.com/orizon-lang/unifyeq/internal/term"
)

// InjectionResult is the result of InjectionCore.
type InjectionResult struct {
	// Equations are the field equations, in field order. Empty when Closed.
	Equations []goal.Ref
	Goal      goal.ID
	// Closed is set when the constructors differ and the goal was discharged.
	Closed bool
}

// InjectionCore decomposes h : C as = C' bs where both sides are fully applied
// constructors of the same inductive type. When C and C' are the same constructor,
// one equation per field is asserted (Eq when the field types are definitionally
// equal, HEq otherwise) and h is cleared. When they differ the goal is closed.
func (c *Context) InjectionCore(id goal.ID, h term.FVarID) (*InjectionResult, error) {
	g, err := c.Store.Get(id)
	if err != nil {
		return nil, err
	}

	hyp, _, ok := g.Find(h)
	if !ok {
		return nil, errors.UnknownHypothesis(h.String())
	}

	ty, err := c.WHNF(c.InstantiateMVars(hyp.Type))
	if err != nil {
		return nil, err
	}

	_, lhs, rhs, ok := term.EqArgs(ty)
	if !ok {
		return nil, errors.IllTyped(fmt.Sprintf("equality expected, %s has type %s", hyp.Name, g.Pretty(hyp.Type)))
	}

	ctorA, argsA, err := c.constructorApp(lhs)
	if err != nil {
		return nil, err
	}

	ctorB, argsB, err := c.constructorApp(rhs)
	if err != nil {
		return nil, err
	}

	if ctorA.Inductive != ctorB.Inductive {
		return nil, errors.IllTyped(fmt.Sprintf("%s and %s build different types", ctorA.Name, ctorB.Name))
	}

	if ctorA.Name != ctorB.Name {
		proof := term.Apps(term.Const(env.NoConfusionName(ctorA.Inductive)), g.Target(), term.FVar(h))
		if err := c.Store.Close(id, proof); err != nil {
			return nil, err
		}

		return &InjectionResult{Closed: true}, nil
	}

	typesA, err := c.argumentTypes(ctorA, argsA)
	if err != nil {
		return nil, err
	}

	typesB, err := c.argumentTypes(ctorB, argsB)
	if err != nil {
		return nil, err
	}

	cur := id
	refs := make([]goal.Ref, 0, ctorA.NumFields)

	for i := 0; i < ctorA.NumFields; i++ {
		k := ctorA.NumParams + i

		same, err := c.IsDefEq(typesA[k], typesB[k])
		if err != nil {
			return nil, err
		}

		eq := term.MkHEqTerm(typesA[k], argsA[k], typesB[k], argsB[k])
		if same {
			eq = term.MkEqTerm(typesA[k], argsA[k], argsB[k])
		}

		proof := term.App(term.Const(env.InjName(ctorA.Name, i)), term.FVar(h))
		name := fmt.Sprintf("%s_%d", hyp.Name, i+1)

		next, fv, err := c.Store.Assert(cur, name, c.InstantiateMVars(eq), proof)
		if err != nil {
			return nil, err
		}

		cur = next
		refs = append(refs, goal.Ref{ID: fv, Name: name})
	}

	cur, err = c.Store.Clear(cur, h)
	if err != nil {
		return nil, err
	}

	return &InjectionResult{Goal: cur, Equations: refs}, nil
}

func (c *Context) constructorApp(t *term.Term) (*env.Constructor, []*term.Term, error) {
	r, err := c.WHNF(t)
	if err != nil {
		return nil, nil, err
	}

	ctor, args, ok := c.Env.ConstructorApp(r)
	if !ok {
		return nil, nil, errors.IllTyped(fmt.Sprintf("constructor application expected, got %s", r))
	}

	return ctor, args, nil
}

// argumentTypes instantiates the constructor signature with args and returns the
// type of every argument.
func (c *Context) argumentTypes(ctor *env.Constructor, args []*term.Term) ([]*term.Term, error) {
	types := make([]*term.Term, len(args))
	ty := ctor.Type

	for i, arg := range args {
		if !ty.IsPi() {
			r, err := c.WHNF(ty)
			if err != nil {
				return nil, err
			}

			if !r.IsPi() {
				return nil, errors.IllTyped(fmt.Sprintf("%s is applied to too many arguments", ctor.Name))
			}

			ty = r
		}

		types[i] = ty.Domain()
		ty = term.Instantiate(ty.Body(), arg)
	}

	return types, nil
}
