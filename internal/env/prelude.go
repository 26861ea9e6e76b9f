package env

import (
	"strconv"

	"github.com/orizon-lang/unifyeq/internal/term"
)

// NoConfusionName returns the name of the principle closing equations between
// distinct constructors of the inductive type ind.
func NoConfusionName(ind string) string {
	return ind + ".noConfusion"
}

// InjName returns the name of the projection proving the equation of field i of ctor
// from an equation between two applications of ctor.
func InjName(ctor string, field int) string {
	return ctor + ".inj_" + strconv.Itoa(field)
}

func (e *Environment) addPrelude() error {
	var (
		bv   = term.BVar
		eq   = term.Const(term.EqName)
		heq  = term.Const(term.HEqName)
		sort = term.Type()
	)

	// Eq : {α : Type} -> α -> α -> Prop
	eqType := term.ImplicitPi("α", sort,
		term.Pi("a", bv(0),
			term.Pi("b", bv(1), term.Prop())))

	// Eq.refl : {α : Type} -> (a : α) -> Eq α a a
	eqReflType := term.ImplicitPi("α", sort,
		term.Pi("a", bv(0), term.Apps(eq, bv(1), bv(0), bv(0))))

	if err := e.AddInductive(
		Inductive{Name: term.EqName, Type: eqType, NumParams: 2},
		Constructor{Name: term.EqReflName, Type: eqReflType},
	); err != nil {
		return err
	}

	// HEq : {α : Type} -> α -> {β : Type} -> β -> Prop
	heqType := term.ImplicitPi("α", sort,
		term.Pi("a", bv(0),
			term.ImplicitPi("β", sort,
				term.Pi("b", bv(0), term.Prop()))))

	// HEq.refl : {α : Type} -> (a : α) -> HEq α a α a
	heqReflType := term.ImplicitPi("α", sort,
		term.Pi("a", bv(0), term.Apps(heq, bv(1), bv(0), bv(1), bv(0))))

	if err := e.AddInductive(
		Inductive{Name: term.HEqName, Type: heqType, NumParams: 2},
		Constructor{Name: term.HEqReflName, Type: heqReflType},
	); err != nil {
		return err
	}

	// eq_of_heq : {α : Type} -> {a b : α} -> HEq α a α b -> Eq α a b
	eqOfHEqType := term.ImplicitPi("α", sort,
		term.ImplicitPi("a", bv(0),
			term.ImplicitPi("b", bv(1),
				term.Pi("h", term.Apps(heq, bv(2), bv(1), bv(2), bv(0)),
					term.Apps(eq, bv(3), bv(2), bv(1))))))

	return e.AddAxiom(term.EqOfHEqName, eqOfHEqType)
}
