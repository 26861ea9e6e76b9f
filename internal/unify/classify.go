package unify

import "github.com/orizon-lang/unifyeq/internal/term"

// ShapeKind classifies the type of a hypothesis.
type ShapeKind int

const (
	ShapeNotAnEquation ShapeKind = iota
	ShapeHomogeneous
	ShapeHeterogeneous
)

// String returns a string representation of the shape kind.
func (k ShapeKind) String() string {
	switch k {
	case ShapeHomogeneous:
		return "homogeneous"
	case ShapeHeterogeneous:
		return "heterogeneous"
	default:
		return "not an equation"
	}
}

// Shape is the classification of an equation type. For homogeneous equations
// TypeR equals Type.
type Shape struct {
	Type  *term.Term
	LHS   *term.Term
	TypeR *term.Term
	RHS   *term.Term
	Kind  ShapeKind
}

// Classify inspects the head of t.
func Classify(t *term.Term) Shape {
	if ty, lhs, rhs, ok := term.EqArgs(t); ok {
		return Shape{Kind: ShapeHomogeneous, Type: ty, LHS: lhs, TypeR: ty, RHS: rhs}
	}

	if tyL, lhs, tyR, rhs, ok := term.HEqArgs(t); ok {
		return Shape{Kind: ShapeHeterogeneous, Type: tyL, LHS: lhs, TypeR: tyR, RHS: rhs}
	}

	return Shape{Kind: ShapeNotAnEquation}
}
