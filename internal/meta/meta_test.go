package meta

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orizon-lang/unifyeq/internal/env"
	"github.com/orizon-lang/unifyeq/internal/errors"
	"github.com/orizon-lang/unifyeq/internal/goal"
	"github.com/orizon-lang/unifyeq/internal/term"
)

var (
	nat  = term.Const("Nat")
	zero = term.Const("Nat.zero")
	list = term.Const("List")
	vec  = term.Const("Vec")
)

func succ(t *term.Term) *term.Term { return term.App(term.Const("Nat.succ"), t) }

func cons(elem, x, xs *term.Term) *term.Term { return term.Apps(term.Const("List.cons"), elem, x, xs) }

func newEnv(t *testing.T) *env.Environment {
	t.Helper()

	e := env.New()

	require.NoError(t, e.AddInductive(
		env.Inductive{Name: "Nat", Type: term.Type()},
		env.Constructor{Name: "Nat.zero", Type: nat},
		env.Constructor{Name: "Nat.succ", Type: term.Arrow(nat, nat)},
	))

	require.NoError(t, e.AddInductive(
		env.Inductive{Name: "List", Type: term.Arrow(term.Type(), term.Type()), NumParams: 1},
		env.Constructor{Name: "List.nil", Type: term.Pi("α", term.Type(), term.App(list, term.BVar(0)))},
		env.Constructor{Name: "List.cons", Type: term.Pi("α", term.Type(),
			term.Arrow(term.BVar(0), term.Arrow(term.App(list, term.BVar(0)), term.App(list, term.BVar(0)))))},
	))

	// Vec.cons : (α : Type) -> (n : Nat) -> α -> Vec α n -> Vec α (succ n)
	require.NoError(t, e.AddInductive(
		env.Inductive{Name: "Vec", Type: term.Arrow(term.Type(), term.Arrow(nat, term.Type())), NumParams: 1},
		env.Constructor{Name: "Vec.nil", Type: term.Pi("α", term.Type(), term.Apps(vec, term.BVar(0), zero))},
		env.Constructor{Name: "Vec.cons", Type: term.Pi("α", term.Type(), term.Pi("n", nat,
			term.Arrow(term.BVar(1), term.Arrow(
				term.Apps(vec, term.BVar(1), term.BVar(0)),
				term.Apps(vec, term.BVar(1), succ(term.BVar(0)))))))},
	))

	require.NoError(t, e.AddDefinition("two", nat, succ(succ(zero))))
	require.NoError(t, e.AddDefinition("id", term.Arrow(nat, nat), term.Lam("x", nat, term.BVar(0))))
	require.NoError(t, e.AddDefinition("loop", nat, term.Const("loop")))
	require.NoError(t, e.AddAxiom("pair", term.Arrow(nat, term.Arrow(nat, nat))))
	require.NoError(t, e.AddAxiom("P", term.Arrow(nat, term.Prop())))
	require.NoError(t, e.AddAxiom("Bool", term.Type()))

	return e
}

type local struct {
	ty   func(map[string]term.FVarID) *term.Term
	name string
}

func decl(name string, ty *term.Term) local {
	return local{name: name, ty: func(map[string]term.FVarID) *term.Term { return ty }}
}

func declWith(name string, ty func(map[string]term.FVarID) *term.Term) local {
	return local{name: name, ty: ty}
}

type fixture struct {
	ctx  *Context
	ids  map[string]term.FVarID
	goal goal.ID
}

func newFixture(t *testing.T, locals ...local) *fixture {
	t.Helper()

	s := goal.NewStore()
	ids := make(map[string]term.FVarID)

	var hyps []*goal.Hypothesis
	for _, l := range locals {
		id := s.NewFVarID()
		hyps = append(hyps, &goal.Hypothesis{ID: id, Name: l.name, Type: l.ty(ids)})
		ids[l.name] = id
	}

	g, err := s.NewGoal(hyps, term.Const("True"))
	require.NoError(t, err)

	return &fixture{ctx: NewContext(newEnv(t), s), ids: ids, goal: g}
}

func (f *fixture) fvar(name string) *term.Term { return term.FVar(f.ids[name]) }

func (f *fixture) get(t *testing.T) *goal.Goal {
	t.Helper()

	g, err := f.ctx.Store.Get(f.goal)
	require.NoError(t, err)

	return g
}

func TestWHNF(t *testing.T) {
	f := newFixture(t)

	r, err := f.ctx.WHNF(term.App(term.Const("id"), term.Const("two")))
	require.NoError(t, err)
	assert.True(t, term.Equal(succ(succ(zero)), r), r.String())

	r, err = f.ctx.WHNF(succ(term.Const("two")))
	require.NoError(t, err)
	assert.True(t, term.Equal(succ(term.Const("two")), r), "only the head is reduced")

	_, err = f.ctx.WHNF(term.Const("loop"))
	assert.True(t, stderrors.Is(err, errors.ErrStepLimit))
}

func TestIsDefEqUnfolds(t *testing.T) {
	f := newFixture(t)

	ok, err := f.ctx.IsDefEq(term.Const("two"), succ(term.App(term.Const("id"), succ(zero))))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.ctx.IsDefEq(term.Const("two"), succ(zero))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.ctx.IsDefEq(term.Const("loop"), zero)
	assert.True(t, stderrors.Is(err, errors.ErrStepLimit))
}

func TestIsDefEqAssignsMetavariables(t *testing.T) {
	f := newFixture(t)
	m := f.ctx.NewMVar("m", nat)

	ok, err := f.ctx.IsDefEq(succ(m), term.Const("two"))
	require.NoError(t, err)
	require.True(t, ok)

	assert.True(t, term.Equal(succ(succ(zero)), f.ctx.InstantiateMVars(succ(m))))
}

func TestIsDefEqRestoresOnFailure(t *testing.T) {
	f := newFixture(t)
	m := f.ctx.NewMVar("m", nat)
	pair := term.Const("pair")

	ok, err := f.ctx.IsDefEq(term.Apps(pair, m, zero), term.Apps(pair, zero, succ(zero)))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, f.ctx.MCtx.IsAssigned(m.MVarID()))

	ok, err = f.ctx.IsDefEq(m, succ(m))
	require.NoError(t, err)
	assert.False(t, ok, "occurs check")
}

func TestSaveRestoreState(t *testing.T) {
	f := newFixture(t)
	m := f.ctx.NewMVar("m", nat)

	saved := f.ctx.SaveState()
	f.ctx.Assign(m.MVarID(), zero)
	assert.True(t, f.ctx.MCtx.IsAssigned(m.MVarID()))

	f.ctx.RestoreState(saved)
	assert.False(t, f.ctx.MCtx.IsAssigned(m.MVarID()))
}

func TestInferType(t *testing.T) {
	f := newFixture(t, decl("x", nat), decl("xs", term.App(list, nat)))
	g := f.get(t)

	tests := []struct {
		term *term.Term
		want *term.Term
		name string
	}{
		{name: "fvar", term: f.fvar("x"), want: nat},
		{name: "application", term: cons(nat, f.fvar("x"), f.fvar("xs")), want: term.App(list, nat)},
		{name: "definition", term: term.App(term.Const("id"), zero), want: nat},
		{name: "lambda", term: term.Lam("y", nat, succ(term.BVar(0))), want: term.Arrow(nat, nat)},
		{name: "proposition", term: term.Pi("y", nat, term.App(term.Const("P"), term.BVar(0))), want: term.Prop()},
		{name: "equality", term: term.MkEqTerm(nat, f.fvar("x"), zero), want: term.Prop()},
		{name: "sort", term: term.Type(), want: term.Sort(2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.ctx.InferType(g, tt.term)
			require.NoError(t, err)
			assert.True(t, term.Equal(tt.want, got), "got %s", got)
		})
	}
}

func TestInferTypeErrors(t *testing.T) {
	f := newFixture(t)
	g := f.get(t)

	_, err := f.ctx.InferType(g, term.Const("missing"))
	assert.True(t, stderrors.Is(err, errors.ErrUnknownConstant))

	_, err = f.ctx.InferType(g, term.App(zero, zero))
	assert.True(t, stderrors.Is(err, errors.ErrIllTyped))

	_, err = f.ctx.InferType(g, term.FVar(99))
	assert.True(t, stderrors.Is(err, errors.ErrUnknownHypothesis))
}

func TestMkEqOfHEq(t *testing.T) {
	f := newFixture(t,
		decl("a", nat),
		decl("b", nat),
		decl("c", term.Const("Bool")),
		declWith("h", func(ids map[string]term.FVarID) *term.Term {
			return term.MkHEqTerm(nat, term.FVar(ids["a"]), nat, term.FVar(ids["b"]))
		}),
		declWith("k", func(ids map[string]term.FVarID) *term.Term {
			return term.MkHEqTerm(nat, term.FVar(ids["a"]), term.Const("Bool"), term.FVar(ids["c"]))
		}),
	)
	g := f.get(t)

	proof, err := f.ctx.MkEqOfHEq(g, f.fvar("h"))
	require.NoError(t, err)

	ty, err := f.ctx.InferType(g, proof)
	require.NoError(t, err)
	assert.Equal(t, "a = b", g.Pretty(ty))

	_, err = f.ctx.MkEqOfHEq(g, f.fvar("k"))
	assert.True(t, stderrors.Is(err, errors.ErrIllTyped))

	_, err = f.ctx.MkEqOfHEq(g, f.fvar("a"))
	assert.True(t, stderrors.Is(err, errors.ErrIllTyped))
}

func TestMkEqOrHEq(t *testing.T) {
	f := newFixture(t, decl("a", nat), decl("b", nat), decl("c", term.Const("Bool")))
	g := f.get(t)

	eq, err := f.ctx.MkEqOrHEq(g, f.fvar("a"), f.fvar("b"))
	require.NoError(t, err)
	assert.True(t, term.IsEq(eq))

	heq, err := f.ctx.MkEqOrHEq(g, f.fvar("a"), f.fvar("c"))
	require.NoError(t, err)
	assert.True(t, term.IsHEq(heq))
}

func TestInjectionCoreSameConstructor(t *testing.T) {
	f := newFixture(t,
		decl("x", nat),
		decl("xs", term.App(list, nat)),
		decl("y", nat),
		decl("ys", term.App(list, nat)),
		declWith("h", func(ids map[string]term.FVarID) *term.Term {
			return term.MkEqTerm(term.App(list, nat),
				cons(nat, term.FVar(ids["x"]), term.FVar(ids["xs"])),
				cons(nat, term.FVar(ids["y"]), term.FVar(ids["ys"])))
		}),
	)

	res, err := f.ctx.InjectionCore(f.goal, f.ids["h"])
	require.NoError(t, err)
	require.False(t, res.Closed)
	require.Len(t, res.Equations, 2)
	assert.False(t, f.ctx.Store.Valid(f.goal))

	g, err := f.ctx.Store.Get(res.Goal)
	require.NoError(t, err)
	assert.Equal(t, "x : Nat\nxs : List Nat\ny : Nat\nys : List Nat\nh_1 : x = y\nh_2 : xs = ys\n⊢ True", g.String())

	_, _, ok := g.Find(f.ids["h"])
	assert.False(t, ok)
}

func TestInjectionCoreDependentFieldsBecomeHEq(t *testing.T) {
	vecOf := func(n *term.Term) *term.Term { return term.Apps(vec, nat, n) }
	vcons := func(n, x, xs *term.Term) *term.Term { return term.Apps(term.Const("Vec.cons"), nat, n, x, xs) }

	f := newFixture(t,
		decl("n", nat), decl("m", nat), decl("a", nat), decl("b", nat),
		declWith("as", func(ids map[string]term.FVarID) *term.Term { return vecOf(term.FVar(ids["n"])) }),
		declWith("bs", func(ids map[string]term.FVarID) *term.Term { return vecOf(term.FVar(ids["m"])) }),
		declWith("h", func(ids map[string]term.FVarID) *term.Term {
			fv := func(name string) *term.Term { return term.FVar(ids[name]) }

			return term.MkEqTerm(vecOf(succ(fv("n"))),
				vcons(fv("n"), fv("a"), fv("as")),
				vcons(fv("m"), fv("b"), fv("bs")))
		}),
	)

	res, err := f.ctx.InjectionCore(f.goal, f.ids["h"])
	require.NoError(t, err)
	require.Len(t, res.Equations, 3)

	g, err := f.ctx.Store.Get(res.Goal)
	require.NoError(t, err)

	types := make([]*term.Term, 0, 3)
	for _, ref := range res.Equations {
		ty, ok := g.TypeOf(ref.ID)
		require.True(t, ok)
		types = append(types, ty)
	}

	assert.True(t, term.IsEq(types[0]))
	assert.True(t, term.IsEq(types[1]))
	assert.True(t, term.IsHEq(types[2]), g.Pretty(types[2]))
}

func TestInjectionCoreDistinctConstructors(t *testing.T) {
	f := newFixture(t,
		decl("x", nat),
		decl("xs", term.App(list, nat)),
		declWith("h", func(ids map[string]term.FVarID) *term.Term {
			return term.MkEqTerm(term.App(list, nat),
				term.App(term.Const("List.nil"), nat),
				cons(nat, term.FVar(ids["x"]), term.FVar(ids["xs"])))
		}),
	)

	res, err := f.ctx.InjectionCore(f.goal, f.ids["h"])
	require.NoError(t, err)
	assert.True(t, res.Closed)
	assert.False(t, f.ctx.Store.Valid(f.goal))
}

func TestInjectionCoreNormalizesSides(t *testing.T) {
	f := newFixture(t,
		decl("k", nat),
		declWith("h", func(ids map[string]term.FVarID) *term.Term {
			return term.MkEqTerm(nat, term.Const("two"), succ(term.FVar(ids["k"])))
		}),
	)

	res, err := f.ctx.InjectionCore(f.goal, f.ids["h"])
	require.NoError(t, err)
	require.Len(t, res.Equations, 1)

	g, err := f.ctx.Store.Get(res.Goal)
	require.NoError(t, err)
	ty, _ := g.TypeOf(res.Equations[0].ID)
	assert.Equal(t, "Nat.succ Nat.zero = k", g.Pretty(ty))
}

func TestInjectionCoreRejectsNonConstructors(t *testing.T) {
	f := newFixture(t,
		decl("k", nat),
		declWith("h", func(ids map[string]term.FVarID) *term.Term {
			return term.MkEqTerm(nat, term.FVar(ids["k"]), zero)
		}),
	)

	_, err := f.ctx.InjectionCore(f.goal, f.ids["h"])
	assert.True(t, stderrors.Is(err, errors.ErrIllTyped))
	assert.True(t, f.ctx.Store.Valid(f.goal))
}
