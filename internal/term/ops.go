package term

// Equal reports whether a and b are syntactically equal. Binder names and binder
// implicitness are ignored.
func Equal(a, b *Term) bool {
	if a == b {
		return true
	}

	if a == nil || b == nil || a.kind != b.kind {
		return false
	}

	switch a.kind {
	case KindBVar, KindSort:
		return a.index == b.index
	case KindFVar:
		return a.fvar == b.fvar
	case KindMVar:
		return a.mvar == b.mvar
	case KindConst:
		return a.name == b.name
	case KindApp:
		return Equal(a.fn, b.fn) && Equal(a.arg, b.arg)
	case KindLam, KindPi:
		return Equal(a.domain, b.domain) && Equal(a.body, b.body)
	default:
		return false
	}
}

// Replace rebuilds t bottom-up. fn is called on every subterm together with the
// number of binders above it; when it returns (r, true) the subterm is replaced by r
// and not visited further. Unchanged subtrees are shared with t.
func Replace(t *Term, fn func(sub *Term, depth int) (*Term, bool)) *Term {
	return replace(t, 0, fn)
}

func replace(t *Term, depth int, fn func(*Term, int) (*Term, bool)) *Term {
	if r, ok := fn(t, depth); ok {
		return r
	}

	switch t.kind {
	case KindApp:
		newFn := replace(t.fn, depth, fn)
		newArg := replace(t.arg, depth, fn)

		if newFn == t.fn && newArg == t.arg {
			return t
		}

		return App(newFn, newArg)

	case KindLam, KindPi:
		newDomain := replace(t.domain, depth, fn)
		newBody := replace(t.body, depth+1, fn)

		if newDomain == t.domain && newBody == t.body {
			return t
		}

		return &Term{kind: t.kind, name: t.name, domain: newDomain, body: newBody, implicit: t.implicit}

	default:
		return t
	}
}

// Find reports whether pred holds for some subterm of t.
func Find(t *Term, pred func(*Term) bool) bool {
	if pred(t) {
		return true
	}

	switch t.kind {
	case KindApp:
		return Find(t.fn, pred) || Find(t.arg, pred)
	case KindLam, KindPi:
		return Find(t.domain, pred) || Find(t.body, pred)
	default:
		return false
	}
}

// HasFVar reports whether the free variable id occurs in t.
func HasFVar(t *Term, id FVarID) bool {
	return Find(t, func(sub *Term) bool {
		return sub.kind == KindFVar && sub.fvar == id
	})
}

// HasAnyFVar reports whether t mentions any of the given free variables.
func HasAnyFVar(t *Term, ids map[FVarID]bool) bool {
	return Find(t, func(sub *Term) bool {
		return sub.kind == KindFVar && ids[sub.fvar]
	})
}

// FVars returns the free variables of t in first-occurrence order.
func FVars(t *Term) []FVarID {
	var ids []FVarID

	seen := make(map[FVarID]bool)

	Find(t, func(sub *Term) bool {
		if sub.kind == KindFVar && !seen[sub.fvar] {
			seen[sub.fvar] = true
			ids = append(ids, sub.fvar)
		}

		return false
	})

	return ids
}

// HasMVar reports whether t mentions a metavariable.
func HasMVar(t *Term) bool {
	return Find(t, func(sub *Term) bool { return sub.kind == KindMVar })
}

// HasLooseBVars reports whether t has bound variables that escape t.
func HasLooseBVars(t *Term) bool {
	return hasLooseBVarsAbove(t, 0)
}

func hasLooseBVarsAbove(t *Term, depth int) bool {
	switch t.kind {
	case KindBVar:
		return t.index >= depth
	case KindApp:
		return hasLooseBVarsAbove(t.fn, depth) || hasLooseBVarsAbove(t.arg, depth)
	case KindLam, KindPi:
		return hasLooseBVarsAbove(t.domain, depth) || hasLooseBVarsAbove(t.body, depth+1)
	default:
		return false
	}
}

// ReplaceFVar replaces every occurrence of the free variable id in t by replacement.
func ReplaceFVar(t *Term, id FVarID, replacement *Term) *Term {
	return Replace(t, func(sub *Term, depth int) (*Term, bool) {
		if sub.kind == KindFVar && sub.fvar == id {
			return liftLooseBVars(replacement, 0, depth), true
		}

		return nil, false
	})
}

// Instantiate substitutes arg for the outermost loose bound variable of body,
// as when entering the body of a binder.
func Instantiate(body, arg *Term) *Term {
	return Replace(body, func(sub *Term, depth int) (*Term, bool) {
		if sub.kind != KindBVar {
			if !hasLooseBVarsAbove(sub, depth) {
				return sub, true
			}

			return nil, false
		}

		switch {
		case sub.index == depth:
			return liftLooseBVars(arg, 0, depth), true
		case sub.index > depth:
			return BVar(sub.index - 1), true
		default:
			return sub, true
		}
	})
}

// InstantiateMany instantiates the leading binders of a Pi or Lam chain with args,
// the first argument going to the outermost binder.
func InstantiateMany(t *Term, args []*Term) *Term {
	result := t
	for _, arg := range args {
		if result.kind != KindPi && result.kind != KindLam {
			return nil
		}

		result = Instantiate(result.body, arg)
	}

	return result
}

// Abstract turns occurrences of the free variable id into a bound variable for a
// binder placed directly above t. t must not have loose bound variables.
func Abstract(t *Term, id FVarID) *Term {
	return Replace(t, func(sub *Term, depth int) (*Term, bool) {
		if sub.kind == KindFVar && sub.fvar == id {
			return BVar(depth), true
		}

		return nil, false
	})
}

// liftLooseBVars shifts loose bound variables with index >= start by n.
func liftLooseBVars(t *Term, start, n int) *Term {
	if n == 0 {
		return t
	}

	return Replace(t, func(sub *Term, depth int) (*Term, bool) {
		if sub.kind == KindBVar {
			if sub.index >= start+depth {
				return BVar(sub.index + n), true
			}

			return sub, true
		}

		if !hasLooseBVarsAbove(sub, start+depth) {
			return sub, true
		}

		return nil, false
	})
}
