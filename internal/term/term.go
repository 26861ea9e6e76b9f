// Package term implements the expression language manipulated by the equation resolver.
// Terms are immutable trees in locally nameless form: bound variables are de Bruijn
// indices, free variables refer to hypotheses of a goal by id.
package term

import (
	"fmt"
)

// Kind identifies the variant of a term.
type Kind uint8

const (
	KindBVar Kind = iota
	KindFVar
	KindMVar
	KindSort
	KindConst
	KindApp
	KindLam
	KindPi
)

// String returns a string representation of the term kind.
func (k Kind) String() string {
	switch k {
	case KindBVar:
		return "bvar"
	case KindFVar:
		return "fvar"
	case KindMVar:
		return "mvar"
	case KindSort:
		return "sort"
	case KindConst:
		return "const"
	case KindApp:
		return "app"
	case KindLam:
		return "lam"
	case KindPi:
		return "pi"
	default:
		return "unknown"
	}
}

// FVarID identifies a free variable (a hypothesis of some goal).
type FVarID uint64

// String returns the raw spelling of the id.
func (id FVarID) String() string {
	return fmt.Sprintf("_fvar.%d", uint64(id))
}

// MVarID identifies a metavariable.
type MVarID uint64

// String returns the raw spelling of the id.
func (id MVarID) String() string {
	return fmt.Sprintf("?_mvar.%d", uint64(id))
}

// Term is an immutable expression. The zero value is not a valid term; use the
// constructors below.
type Term struct {
	fn     *Term
	arg    *Term
	domain *Term
	body   *Term
	name   string
	index  int
	fvar   FVarID
	mvar   MVarID
	kind   Kind
	// implicit marks binders whose argument is left to elaboration.
	implicit bool
}

// BVar creates a bound variable with the given de Bruijn index.
func BVar(index int) *Term {
	return &Term{kind: KindBVar, index: index}
}

// FVar creates a reference to a free variable.
func FVar(id FVarID) *Term {
	return &Term{kind: KindFVar, fvar: id}
}

// MVar creates a reference to a metavariable.
func MVar(id MVarID) *Term {
	return &Term{kind: KindMVar, mvar: id}
}

// Sort creates the universe at the given level. Level 0 is Prop, level 1 is Type.
func Sort(level int) *Term {
	return &Term{kind: KindSort, index: level}
}

// Prop is Sort 0.
func Prop() *Term { return Sort(0) }

// Type is Sort 1.
func Type() *Term { return Sort(1) }

// Const creates a reference to a global constant.
func Const(name string) *Term {
	return &Term{kind: KindConst, name: name}
}

// App creates the application of fn to arg.
func App(fn, arg *Term) *Term {
	return &Term{kind: KindApp, fn: fn, arg: arg}
}

// Apps applies fn to each argument in order.
func Apps(fn *Term, args ...*Term) *Term {
	result := fn
	for _, arg := range args {
		result = App(result, arg)
	}

	return result
}

// Lam creates a lambda abstraction. The body refers to the binder as BVar(0).
func Lam(name string, domain, body *Term) *Term {
	return &Term{kind: KindLam, name: name, domain: domain, body: body}
}

// Pi creates a dependent function type. The body refers to the binder as BVar(0).
func Pi(name string, domain, body *Term) *Term {
	return &Term{kind: KindPi, name: name, domain: domain, body: body}
}

// ImplicitPi creates a dependent function type whose argument is implicit.
func ImplicitPi(name string, domain, body *Term) *Term {
	return &Term{kind: KindPi, name: name, domain: domain, body: body, implicit: true}
}

// Arrow creates the non-dependent function type domain -> codomain.
func Arrow(domain, codomain *Term) *Term {
	return Pi("_", domain, liftLooseBVars(codomain, 0, 1))
}

// Kind returns the variant of the term.
func (t *Term) Kind() Kind { return t.kind }

// Index returns the de Bruijn index of a bound variable.
func (t *Term) Index() int { return t.index }

// Level returns the universe level of a sort.
func (t *Term) Level() int { return t.index }

// FVarID returns the id of a free variable.
func (t *Term) FVarID() FVarID { return t.fvar }

// MVarID returns the id of a metavariable.
func (t *Term) MVarID() MVarID { return t.mvar }

// Name returns the constant name, or the binder name of a Lam or Pi.
func (t *Term) Name() string { return t.name }

// Fn returns the function of an application.
func (t *Term) Fn() *Term { return t.fn }

// Arg returns the argument of an application.
func (t *Term) Arg() *Term { return t.arg }

// Domain returns the binder type of a Lam or Pi.
func (t *Term) Domain() *Term { return t.domain }

// Body returns the body of a Lam or Pi.
func (t *Term) Body() *Term { return t.body }

// IsImplicit reports whether a Pi binder is implicit.
func (t *Term) IsImplicit() bool { return t.implicit }

// IsFVar reports whether t is a free variable.
func (t *Term) IsFVar() bool { return t.kind == KindFVar }

// IsMVar reports whether t is a metavariable.
func (t *Term) IsMVar() bool { return t.kind == KindMVar }

// IsConst reports whether t is a constant.
func (t *Term) IsConst() bool { return t.kind == KindConst }

// IsApp reports whether t is an application.
func (t *Term) IsApp() bool { return t.kind == KindApp }

// IsSort reports whether t is a sort.
func (t *Term) IsSort() bool { return t.kind == KindSort }

// IsPi reports whether t is a Pi type.
func (t *Term) IsPi() bool { return t.kind == KindPi }

// IsLam reports whether t is a lambda.
func (t *Term) IsLam() bool { return t.kind == KindLam }

// GetAppFn returns the head of an application spine.
func (t *Term) GetAppFn() *Term {
	head := t
	for head.kind == KindApp {
		head = head.fn
	}

	return head
}

// GetAppNumArgs returns the number of arguments in an application spine.
func (t *Term) GetAppNumArgs() int {
	n := 0
	for cur := t; cur.kind == KindApp; cur = cur.fn {
		n++
	}

	return n
}

// GetAppArgs returns the arguments of an application spine in order.
func (t *Term) GetAppArgs() []*Term {
	n := t.GetAppNumArgs()
	args := make([]*Term, n)

	cur := t
	for i := n - 1; i >= 0; i-- {
		args[i] = cur.arg
		cur = cur.fn
	}

	return args
}

// HeadAndArgs splits an application spine into its head and arguments.
func (t *Term) HeadAndArgs() (*Term, []*Term) {
	return t.GetAppFn(), t.GetAppArgs()
}

// IsAppOf reports whether the head of t is the constant name.
func (t *Term) IsAppOf(name string) bool {
	head := t.GetAppFn()

	return head.kind == KindConst && head.name == name
}

// IsAppOfArity reports whether t is the constant name applied to exactly n arguments.
func (t *Term) IsAppOfArity(name string, n int) bool {
	return t.IsAppOf(name) && t.GetAppNumArgs() == n
}

// String returns a string representation of the term using raw fvar ids.
func (t *Term) String() string {
	return (&Printer{}).Print(t)
}
