// Package env holds the global declarations terms refer to: inductive types, their
// constructors, definitions that weak-head normalization may unfold, and axioms.
package env

import (
	"fmt"

	"github.com/orizon-lang/unifyeq/internal/errors"
	"github.com/orizon-lang/unifyeq/internal/term"
)

// ConstantKind classifies a global declaration.
type ConstantKind int

const (
	ConstantAxiom ConstantKind = iota
	ConstantDefinition
	ConstantInductive
	ConstantConstructor
)

// String returns a string representation of the constant kind.
func (k ConstantKind) String() string {
	switch k {
	case ConstantAxiom:
		return "axiom"
	case ConstantDefinition:
		return "definition"
	case ConstantInductive:
		return "inductive"
	case ConstantConstructor:
		return "constructor"
	default:
		return "unknown"
	}
}

// Constant is a declaration of the environment.
type Constant struct {
	Type *term.Term
	// Value is set for definitions only.
	Value *term.Term
	Name  string
	Kind  ConstantKind
}

// Inductive describes an inductive type family.
type Inductive struct {
	Type         *term.Term
	Name         string
	Constructors []string
	NumParams    int
}

// Constructor describes a constructor of an inductive type.
type Constructor struct {
	Type      *term.Term
	Name      string
	Inductive string
	Index     int
	NumParams int
	NumFields int
}

// Environment is the set of global declarations. It is append-only.
type Environment struct {
	constants    map[string]*Constant
	inductives   map[string]*Inductive
	constructors map[string]*Constructor
	order        []string
}

// New creates an environment holding the equality prelude.
func New() *Environment {
	e := &Environment{
		constants:    make(map[string]*Constant),
		inductives:   make(map[string]*Inductive),
		constructors: make(map[string]*Constructor),
	}

	if err := e.addPrelude(); err != nil {
		panic(fmt.Sprintf("env: invalid prelude: %v", err))
	}

	return e
}

// Find returns the declaration named name.
func (e *Environment) Find(name string) (*Constant, bool) {
	c, ok := e.constants[name]

	return c, ok
}

// Inductive returns the inductive type named name.
func (e *Environment) Inductive(name string) (*Inductive, bool) {
	ind, ok := e.inductives[name]

	return ind, ok
}

// Constructor returns the constructor named name.
func (e *Environment) Constructor(name string) (*Constructor, bool) {
	ctor, ok := e.constructors[name]

	return ctor, ok
}

// Names returns the declared names in declaration order.
func (e *Environment) Names() []string {
	return append([]string(nil), e.order...)
}

// AddAxiom declares an opaque constant.
func (e *Environment) AddAxiom(name string, ty *term.Term) error {
	return e.add(&Constant{Name: name, Type: ty, Kind: ConstantAxiom})
}

// AddDefinition declares a constant with a body that reduction may unfold.
func (e *Environment) AddDefinition(name string, ty, value *term.Term) error {
	if value == nil {
		return errors.IllFormedDeclaration(name, "definition without a value")
	}

	return e.add(&Constant{Name: name, Type: ty, Value: value, Kind: ConstantDefinition})
}

// AddInductive declares an inductive type together with its constructors. The
// number of fields of each constructor is derived from its type.
func (e *Environment) AddInductive(ind Inductive, ctors ...Constructor) error {
	if err := e.checkFresh(ind.Name); err != nil {
		return err
	}

	if ind.Type == nil {
		return errors.IllFormedDeclaration(ind.Name, "missing type")
	}

	seen := make(map[string]bool, len(ctors))
	for _, ctor := range ctors {
		if seen[ctor.Name] {
			return errors.DuplicateDeclaration(ctor.Name)
		}

		seen[ctor.Name] = true

		if err := e.checkFresh(ctor.Name); err != nil {
			return err
		}

		if ctor.Type == nil {
			return errors.IllFormedDeclaration(ctor.Name, "missing type")
		}

		arity := piArity(ctor.Type)
		if arity < ind.NumParams {
			return errors.IllFormedDeclaration(ctor.Name,
				fmt.Sprintf("constructor takes %d arguments but %s has %d parameters", arity, ind.Name, ind.NumParams))
		}

		result := resultType(ctor.Type)
		if !result.IsAppOf(ind.Name) {
			return errors.IllFormedDeclaration(ctor.Name,
				fmt.Sprintf("constructor does not build a value of %s", ind.Name))
		}
	}

	stored := &Inductive{
		Name:      ind.Name,
		Type:      ind.Type,
		NumParams: ind.NumParams,
	}

	e.put(&Constant{Name: ind.Name, Type: ind.Type, Kind: ConstantInductive})
	e.inductives[ind.Name] = stored

	for i, ctor := range ctors {
		c := &Constructor{
			Name:      ctor.Name,
			Type:      ctor.Type,
			Inductive: ind.Name,
			Index:     i,
			NumParams: ind.NumParams,
			NumFields: piArity(ctor.Type) - ind.NumParams,
		}

		e.put(&Constant{Name: ctor.Name, Type: ctor.Type, Kind: ConstantConstructor})
		e.constructors[ctor.Name] = c
		stored.Constructors = append(stored.Constructors, ctor.Name)
	}

	return nil
}

// ConstructorApp recognizes a fully applied constructor. It returns the constructor
// and all arguments, parameters included.
func (e *Environment) ConstructorApp(t *term.Term) (*Constructor, []*term.Term, bool) {
	head, args := t.HeadAndArgs()
	if !head.IsConst() {
		return nil, nil, false
	}

	ctor, ok := e.constructors[head.Name()]
	if !ok || len(args) != ctor.NumParams+ctor.NumFields {
		return nil, nil, false
	}

	return ctor, args, true
}

// IsConstructorApp reports whether t is a fully applied constructor.
func (e *Environment) IsConstructorApp(t *term.Term) bool {
	_, _, ok := e.ConstructorApp(t)

	return ok
}

func (e *Environment) add(c *Constant) error {
	if err := e.checkFresh(c.Name); err != nil {
		return err
	}

	if c.Type == nil {
		return errors.IllFormedDeclaration(c.Name, "missing type")
	}

	e.put(c)

	return nil
}

func (e *Environment) put(c *Constant) {
	e.constants[c.Name] = c
	e.order = append(e.order, c.Name)
}

func (e *Environment) checkFresh(name string) error {
	if name == "" {
		return errors.IllFormedDeclaration(name, "empty name")
	}

	if _, exists := e.constants[name]; exists {
		return errors.DuplicateDeclaration(name)
	}

	return nil
}

// piArity counts the leading Pi binders of ty.
func piArity(ty *term.Term) int {
	n := 0
	for cur := ty; cur != nil && cur.IsPi(); cur = cur.Body() {
		n++
	}

	return n
}

// resultType strips the leading Pi binders of ty.
func resultType(ty *term.Term) *term.Term {
	cur := ty
	for cur.IsPi() {
		cur = cur.Body()
	}

	return cur
}
