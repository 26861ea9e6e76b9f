package meta

import (
	"fmt"

	"github.com/orizon-lang/unifyeq/internal/errors"
	"github.com/orizon-lang/unifyeq/internal/term"
)

// InferType computes the type of t in lctx. Arguments are not checked against the
// domains they are passed to.
func (c *Context) InferType(lctx LocalContext, t *term.Term) (*term.Term, error) {
	switch t.Kind() {
	case term.KindBVar:
		return nil, errors.IllTyped(fmt.Sprintf("unexpected bound variable #%d", t.Index()))

	case term.KindFVar:
		ty, ok := lctx.TypeOf(t.FVarID())
		if !ok {
			return nil, errors.UnknownHypothesis(t.FVarID().String())
		}

		return ty, nil

	case term.KindMVar:
		decl, ok := c.MCtx.Decl(t.MVarID())
		if !ok {
			return nil, errors.IllTyped(fmt.Sprintf("unknown metavariable %s", t.MVarID()))
		}

		return decl.Type, nil

	case term.KindSort:
		return term.Sort(t.Level() + 1), nil

	case term.KindConst:
		decl, ok := c.Env.Find(t.Name())
		if !ok {
			return nil, errors.UnknownConstant(t.Name())
		}

		return decl.Type, nil

	case term.KindApp:
		return c.inferApp(lctx, t)

	case term.KindLam:
		return c.inferLam(lctx, t)

	case term.KindPi:
		return c.inferPi(lctx, t)

	default:
		return nil, errors.IllTyped(fmt.Sprintf("unsupported term kind %s", t.Kind()))
	}
}

func (c *Context) inferApp(lctx LocalContext, t *term.Term) (*term.Term, error) {
	head, args := t.HeadAndArgs()

	fnType, err := c.InferType(lctx, head)
	if err != nil {
		return nil, err
	}

	for _, arg := range args {
		if !fnType.IsPi() {
			if fnType, err = c.WHNF(fnType); err != nil {
				return nil, err
			}

			if !fnType.IsPi() {
				return nil, errors.IllTyped(fmt.Sprintf("function expected, %s is applied to too many arguments", head))
			}
		}

		fnType = term.Instantiate(fnType.Body(), arg)
	}

	return fnType, nil
}

// enter opens the binder t with a fresh local and returns the instantiated body.
func (c *Context) enter(lctx LocalContext, t *term.Term) (LocalContext, term.FVarID, *term.Term) {
	id := c.Store.NewFVarID()
	ext := &withLocal{parent: lctx, id: id, ty: t.Domain()}

	return ext, id, term.Instantiate(t.Body(), term.FVar(id))
}

func (c *Context) inferLam(lctx LocalContext, t *term.Term) (*term.Term, error) {
	ext, id, body := c.enter(lctx, t)

	bodyType, err := c.InferType(ext, body)
	if err != nil {
		return nil, err
	}

	return term.Pi(t.Name(), t.Domain(), term.Abstract(bodyType, id)), nil
}

func (c *Context) inferPi(lctx LocalContext, t *term.Term) (*term.Term, error) {
	domainLevel, err := c.sortLevel(lctx, t.Domain())
	if err != nil {
		return nil, err
	}

	ext, _, body := c.enter(lctx, t)

	bodyLevel, err := c.sortLevel(ext, body)
	if err != nil {
		return nil, err
	}

	// Prop is impredicative.
	if bodyLevel == 0 {
		return term.Prop(), nil
	}

	return term.Sort(max(domainLevel, bodyLevel)), nil
}

// sortLevel returns the universe level of the type t.
func (c *Context) sortLevel(lctx LocalContext, t *term.Term) (int, error) {
	ty, err := c.InferType(lctx, t)
	if err != nil {
		return 0, err
	}

	ty, err = c.WHNF(ty)
	if err != nil {
		return 0, err
	}

	if !ty.IsSort() {
		return 0, errors.IllTyped(fmt.Sprintf("type expected, got %s", t))
	}

	return ty.Level(), nil
}

// IsProp reports whether t is a proposition.
func (c *Context) IsProp(lctx LocalContext, t *term.Term) (bool, error) {
	level, err := c.sortLevel(lctx, t)
	if err != nil {
		return false, err
	}

	return level == 0, nil
}
