package problem

import (
	stderrors "errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/orizon-lang/unifyeq/internal/diagnostic"
	"github.com/orizon-lang/unifyeq/internal/errors"
	"github.com/orizon-lang/unifyeq/internal/meta"
	"github.com/orizon-lang/unifyeq/internal/position"
	"github.com/orizon-lang/unifyeq/internal/term"
)

type local struct {
	name string
	id   term.FVarID
}

// elaborator turns syntax into terms. Binders are opened with fresh locals so
// that equations under binders can be typed, and abstracted again on the way out.
type elaborator struct {
	meta *meta.Context
	// hyps maps hypothesis names to their locals. Later hypotheses shadow earlier ones.
	hyps map[string]term.FVarID
	// types holds the types of hypotheses and open binders.
	types map[term.FVarID]*term.Term
	// declaring lists the names of an inductive being declared, usable in its
	// constructor types before the environment knows them.
	declaring []string
	scope     []local
}

func newElaborator(m *meta.Context) *elaborator {
	return &elaborator{
		meta:  m,
		hyps:  make(map[string]term.FVarID),
		types: make(map[term.FVarID]*term.Term),
	}
}

// TypeOf implements meta.LocalContext.
func (e *elaborator) TypeOf(id term.FVarID) (*term.Term, bool) {
	ty, ok := e.types[id]

	return ty, ok
}

// term parses and elaborates a scalar.
func (e *elaborator) term(s Scalar) (*term.Term, error) {
	if s.Value == "" {
		return nil, diagnostic.Common.InvalidDocument(position.SpanAt(s.Pos, 1), "term expected")
	}

	syn, err := ParseTerm(s.Value, s.Origin())
	if err != nil {
		return nil, err
	}

	return e.elab(syn)
}

// typ elaborates a scalar that must denote a type.
func (e *elaborator) typ(s Scalar) (*term.Term, error) {
	t, err := e.term(s)
	if err != nil {
		return nil, err
	}

	ty, err := e.meta.InferType(e, t)
	if err != nil {
		return nil, e.illTyped(s, err)
	}

	ty, err = e.meta.WHNF(ty)
	if err != nil {
		return nil, e.illTyped(s, err)
	}

	if !ty.IsSort() {
		return nil, diagnostic.Common.IllTyped(s.Span(), fmt.Sprintf("type expected, %s has type %s", s.Value, ty))
	}

	return t, nil
}

// check elaborates a scalar that must have type expected.
func (e *elaborator) check(s Scalar, expected *term.Term) (*term.Term, error) {
	t, err := e.term(s)
	if err != nil {
		return nil, err
	}

	ty, err := e.meta.InferType(e, t)
	if err != nil {
		return nil, e.illTyped(s, err)
	}

	ok, err := e.meta.IsDefEq(ty, expected)
	if err != nil {
		return nil, e.illTyped(s, err)
	}

	if !ok {
		return nil, diagnostic.Common.IllTyped(s.Span(),
			fmt.Sprintf("%s has type %s but is expected to have type %s", s.Value, ty, expected))
	}

	return t, nil
}

func (e *elaborator) elab(syn Syntax) (*term.Term, error) {
	switch n := syn.(type) {
	case *Ident:
		return e.resolve(n)

	case *Hole:
		decl, ok := e.meta.MCtx.FindByName(n.Name)
		if !ok {
			return nil, diagnostic.Common.UnknownIdentifier(n.Span(), "?"+n.Name)
		}

		return term.MVar(decl.ID), nil

	case *Universe:
		return term.Sort(n.Level), nil

	case *Application:
		fn, err := e.elab(n.Fn)
		if err != nil {
			return nil, err
		}

		args := make([]*term.Term, 0, len(n.Args))
		for _, a := range n.Args {
			arg, err := e.elab(a)
			if err != nil {
				return nil, err
			}

			args = append(args, arg)
		}

		return term.Apps(fn, args...), nil

	case *Equation:
		return e.equation(n)

	case *Arrow:
		dom, err := e.elab(n.Domain)
		if err != nil {
			return nil, err
		}

		cod, err := e.elab(n.Codomain)
		if err != nil {
			return nil, err
		}

		return term.Arrow(dom, cod), nil

	case *Binding:
		return e.binding(n, 0)
	}

	return nil, fmt.Errorf("unexpected syntax %T", syn)
}

func (e *elaborator) equation(n *Equation) (*term.Term, error) {
	lhs, err := e.elab(n.LHS)
	if err != nil {
		return nil, err
	}

	rhs, err := e.elab(n.RHS)
	if err != nil {
		return nil, err
	}

	build := e.meta.MkEq
	if n.Heterogeneous {
		build = e.meta.MkHEq
	}

	eq, err := build(e, lhs, rhs)
	if err != nil {
		return nil, diagnostic.Common.IllTyped(n.Span(), message(err))
	}

	return eq, nil
}

// binding elaborates the binders of n from index i on, innermost last.
func (e *elaborator) binding(n *Binding, i int) (*term.Term, error) {
	if i == len(n.Binders) {
		return e.elab(n.Body)
	}

	b := n.Binders[i]

	dom, err := e.elab(b.Type)
	if err != nil {
		return nil, err
	}

	id := e.meta.Store.NewFVarID()
	e.types[id] = dom
	e.scope = append(e.scope, local{name: b.Name, id: id})

	body, err := e.binding(n, i+1)

	e.scope = e.scope[:len(e.scope)-1]
	delete(e.types, id)

	if err != nil {
		return nil, err
	}

	body = term.Abstract(body, id)

	switch {
	case n.Lambda:
		return term.Lam(b.Name, dom, body), nil
	case b.Implicit:
		return term.ImplicitPi(b.Name, dom, body), nil
	default:
		return term.Pi(b.Name, dom, body), nil
	}
}

// resolve looks a name up among binders, hypotheses and declarations, in that order.
func (e *elaborator) resolve(n *Ident) (*term.Term, error) {
	if l, _, ok := lo.FindLastIndexOf(e.scope, func(l local) bool { return l.name == n.Name }); ok {
		return term.FVar(l.id), nil
	}

	if id, ok := e.hyps[n.Name]; ok {
		return term.FVar(id), nil
	}

	if _, ok := e.meta.Env.Find(n.Name); ok || lo.Contains(e.declaring, n.Name) {
		return term.Const(n.Name), nil
	}

	return nil, diagnostic.Common.UnknownIdentifier(n.Span(), n.Name)
}

// introduce adds a hypothesis of type ty visible to later terms.
func (e *elaborator) introduce(name string, ty *term.Term) term.FVarID {
	id := e.meta.Store.NewFVarID()
	e.hyps[name] = id
	e.types[id] = ty

	return id
}

func (e *elaborator) illTyped(s Scalar, err error) error {
	return diagnostic.Common.IllTyped(s.Span(), message(err))
}

// message strips the category prefix of oracle errors.
func message(err error) string {
	var se *errors.StandardError
	if stderrors.As(err, &se) && se.Message != "" {
		return se.Message
	}

	return err.Error()
}
