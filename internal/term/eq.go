package term

// Names of the equality constants every environment provides.
const (
	EqName      = "Eq"
	EqReflName  = "Eq.refl"
	HEqName     = "HEq"
	HEqReflName = "HEq.refl"
	EqOfHEqName = "eq_of_heq"
)

// MkEqTerm builds the proposition lhs = rhs at type ty without any checking.
func MkEqTerm(ty, lhs, rhs *Term) *Term {
	return Apps(Const(EqName), ty, lhs, rhs)
}

// MkHEqTerm builds the proposition HEq lhs rhs without any checking.
func MkHEqTerm(tyL, lhs, tyR, rhs *Term) *Term {
	return Apps(Const(HEqName), tyL, lhs, tyR, rhs)
}

// IsEq reports whether t has the shape Eq ty lhs rhs.
func IsEq(t *Term) bool {
	return t.IsAppOfArity(EqName, 3)
}

// IsHEq reports whether t has the shape HEq tyL lhs tyR rhs.
func IsHEq(t *Term) bool {
	return t.IsAppOfArity(HEqName, 4)
}

// EqArgs returns the components of Eq ty lhs rhs.
func EqArgs(t *Term) (ty, lhs, rhs *Term, ok bool) {
	if !IsEq(t) {
		return nil, nil, nil, false
	}

	args := t.GetAppArgs()

	return args[0], args[1], args[2], true
}

// HEqArgs returns the components of HEq tyL lhs tyR rhs.
func HEqArgs(t *Term) (tyL, lhs, tyR, rhs *Term, ok bool) {
	if !IsHEq(t) {
		return nil, nil, nil, nil, false
	}

	args := t.GetAppArgs()

	return args[0], args[1], args[2], args[3], true
}
