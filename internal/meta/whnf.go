package meta

import (
	"github.com/orizon-lang/unifyeq/internal/env"
	"github.com/orizon-lang/unifyeq/internal/errors"
	"github.com/orizon-lang/unifyeq/internal/term"
)

// WHNF reduces t to weak head normal form. It unfolds definitions, beta reduces and
// follows assigned metavariables in head position.
func (c *Context) WHNF(t *term.Term) (*term.Term, error) {
	if r, ok := c.whnfCache[t]; ok {
		return r, nil
	}

	r, err := c.whnf(t)
	if err != nil {
		return nil, err
	}

	c.whnfCache[t] = r

	return r, nil
}

func (c *Context) whnf(t *term.Term) (*term.Term, error) {
	cur := t

	for steps := 0; ; steps++ {
		if steps >= c.config.MaxWHNFSteps {
			return nil, errors.StepLimit("weak head normalization", c.config.MaxWHNFSteps)
		}

		next, ok := c.whnfStep(cur)
		if !ok {
			return cur, nil
		}

		cur = next
	}
}

// whnfStep performs one head reduction. It reports false when t is already in weak
// head normal form.
func (c *Context) whnfStep(t *term.Term) (*term.Term, bool) {
	head, args := t.HeadAndArgs()

	switch head.Kind() {
	case term.KindMVar:
		v, ok := c.MCtx.Assignment(head.MVarID())
		if !ok {
			return nil, false
		}

		return term.Apps(v, args...), true

	case term.KindConst:
		decl, ok := c.Env.Find(head.Name())
		if !ok || decl.Kind != env.ConstantDefinition || decl.Value == nil {
			return nil, false
		}

		return term.Apps(decl.Value, args...), true

	case term.KindLam:
		if len(args) == 0 {
			return nil, false
		}

		return headBeta(head, args), true

	default:
		return nil, false
	}
}

// headBeta applies fn to args, consuming as many leading lambdas as possible.
func headBeta(fn *term.Term, args []*term.Term) *term.Term {
	for len(args) > 0 && fn.IsLam() {
		fn = term.Instantiate(fn.Body(), args[0])
		args = args[1:]
	}

	return term.Apps(fn, args...)
}

// InstantiateMVars replaces every assigned metavariable in t by its value.
func (c *Context) InstantiateMVars(t *term.Term) *term.Term {
	if !term.HasMVar(t) {
		return t
	}

	return term.Replace(t, func(sub *term.Term, _ int) (*term.Term, bool) {
		switch {
		case sub.IsMVar():
			v, ok := c.MCtx.Assignment(sub.MVarID())
			if !ok {
				return sub, true
			}

			return c.InstantiateMVars(v), true

		case sub.IsApp() && sub.GetAppFn().IsMVar():
			head, args := sub.HeadAndArgs()
			v, ok := c.MCtx.Assignment(head.MVarID())
			if !ok {
				return nil, false
			}

			args = append([]*term.Term(nil), args...)
			for i, a := range args {
				args[i] = c.InstantiateMVars(a)
			}

			return headBeta(c.InstantiateMVars(v), args), true

		default:
			return nil, false
		}
	})
}
