package problem

import (
	"github.com/orizon-lang/unifyeq/internal/position"
)

// Syntax is a parsed term before name resolution.
type Syntax interface {
	Span() position.Span
	syntaxNode()
}

// Ident is a name: a binder, a hypothesis or a declaration.
type Ident struct {
	Name string
	span position.Span
}

// Hole is a metavariable reference ?m.
type Hole struct {
	Name string
	span position.Span
}

// Universe is Prop, Type or Sort n.
type Universe struct {
	span  position.Span
	Level int
}

// Application applies Fn to Args from left to right.
type Application struct {
	Fn   Syntax
	Args []Syntax
}

// Equation is a = b, or a == b when Heterogeneous is set.
type Equation struct {
	LHS           Syntax
	RHS           Syntax
	Heterogeneous bool
}

// Binder is one name of a binder group. Names of a group share their type syntax.
type Binder struct {
	Type     Syntax
	Name     string
	span     position.Span
	Implicit bool
}

// Binding is a dependent function type or a lambda over Binders.
type Binding struct {
	Body    Syntax
	Binders []Binder
	span    position.Span
	Lambda  bool
}

// Arrow is a non-dependent function type.
type Arrow struct {
	Domain   Syntax
	Codomain Syntax
}

func (n *Ident) Span() position.Span    { return n.span }
func (n *Hole) Span() position.Span     { return n.span }
func (n *Universe) Span() position.Span { return n.span }
func (n *Binding) Span() position.Span  { return n.span }

func (n *Application) Span() position.Span {
	return join(n.Fn.Span(), n.Args[len(n.Args)-1].Span())
}

func (n *Equation) Span() position.Span {
	return join(n.LHS.Span(), n.RHS.Span())
}

func (n *Arrow) Span() position.Span {
	return join(n.Domain.Span(), n.Codomain.Span())
}

func (*Ident) syntaxNode()       {}
func (*Hole) syntaxNode()        {}
func (*Universe) syntaxNode()    {}
func (*Application) syntaxNode() {}
func (*Equation) syntaxNode()    {}
func (*Binding) syntaxNode()     {}
func (*Arrow) syntaxNode()       {}

func join(from, to position.Span) position.Span {
	return position.Span{Start: from.Start, End: to.End}
}
