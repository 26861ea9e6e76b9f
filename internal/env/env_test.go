package env

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orizon-lang/unifyeq/internal/errors"
	"github.com/orizon-lang/unifyeq/internal/term"
)

func addList(t *testing.T, e *Environment) {
	t.Helper()

	list := term.Const("List")
	// List.cons : (α : Type) -> α -> List α -> List α
	consType := term.Pi("α", term.Type(),
		term.Arrow(term.BVar(0), term.Arrow(term.App(list, term.BVar(0)), term.App(list, term.BVar(0)))))

	require.NoError(t, e.AddInductive(
		Inductive{Name: "List", Type: term.Arrow(term.Type(), term.Type()), NumParams: 1},
		Constructor{Name: "List.nil", Type: term.Pi("α", term.Type(), term.App(list, term.BVar(0)))},
		Constructor{Name: "List.cons", Type: consType},
	))
}

func TestPrelude(t *testing.T) {
	e := New()

	for _, name := range []string{term.EqName, term.EqReflName, term.HEqName, term.HEqReflName, term.EqOfHEqName} {
		_, ok := e.Find(name)
		assert.True(t, ok, name)
	}

	refl, ok := e.Constructor(term.EqReflName)
	require.True(t, ok)
	assert.Equal(t, 2, refl.NumParams)
	assert.Equal(t, 0, refl.NumFields)
}

func TestAddInductiveDerivesFields(t *testing.T) {
	e := New()
	addList(t, e)

	cons, ok := e.Constructor("List.cons")
	require.True(t, ok)
	assert.Equal(t, 1, cons.NumParams)
	assert.Equal(t, 2, cons.NumFields)
	assert.Equal(t, 1, cons.Index)

	ind, ok := e.Inductive("List")
	require.True(t, ok)
	assert.Equal(t, []string{"List.nil", "List.cons"}, ind.Constructors)
}

func TestConstructorApp(t *testing.T) {
	e := New()
	addList(t, e)

	full := term.Apps(term.Const("List.cons"), term.Const("Nat"), term.FVar(1), term.FVar(2))
	partial := term.Apps(term.Const("List.cons"), term.Const("Nat"), term.FVar(1))

	ctor, args, ok := e.ConstructorApp(full)
	require.True(t, ok)
	assert.Equal(t, "List.cons", ctor.Name)
	assert.Len(t, args, 3)

	assert.False(t, e.IsConstructorApp(partial))
	assert.False(t, e.IsConstructorApp(term.FVar(1)))
	assert.False(t, e.IsConstructorApp(term.App(term.Const("List"), term.Const("Nat"))))
}

func TestDeclarationErrors(t *testing.T) {
	e := New()
	addList(t, e)

	err := e.AddAxiom("List", term.Type())
	assert.True(t, stderrors.Is(err, errors.ErrDuplicateDeclaration))

	err = e.AddDefinition("one", term.Const("Nat"), nil)
	assert.True(t, stderrors.Is(err, errors.ErrIllFormedDeclaration))

	err = e.AddInductive(
		Inductive{Name: "Bad", Type: term.Type()},
		Constructor{Name: "Bad.mk", Type: term.Const("Nat")},
	)
	assert.True(t, stderrors.Is(err, errors.ErrIllFormedDeclaration))

	_, ok := e.Find("Bad")
	assert.False(t, ok, "failed declarations leave no trace")
}
