package term

import (
	"fmt"
	"strings"
)

const (
	precLowest = iota
	precEq
	precApp
	precArg
)

// Printer renders terms in the surface syntax. Names of free variables and
// metavariables are resolved through the optional callbacks; raw ids are printed
// otherwise.
type Printer struct {
	FVarName func(FVarID) (string, bool)
	MVarName func(MVarID) (string, bool)
}

// Print renders t.
func (p *Printer) Print(t *Term) string {
	var sb strings.Builder

	p.print(&sb, t, nil, precLowest)

	return sb.String()
}

func (p *Printer) print(sb *strings.Builder, t *Term, names []string, prec int) {
	switch t.kind {
	case KindBVar:
		if t.index < len(names) {
			sb.WriteString(names[len(names)-1-t.index])
		} else {
			fmt.Fprintf(sb, "#%d", t.index)
		}

	case KindFVar:
		if p.FVarName != nil {
			if name, ok := p.FVarName(t.fvar); ok {
				sb.WriteString(name)

				return
			}
		}

		sb.WriteString(t.fvar.String())

	case KindMVar:
		if p.MVarName != nil {
			if name, ok := p.MVarName(t.mvar); ok {
				sb.WriteString("?" + name)

				return
			}
		}

		sb.WriteString(t.mvar.String())

	case KindSort:
		switch t.index {
		case 0:
			sb.WriteString("Prop")
		case 1:
			sb.WriteString("Type")
		default:
			fmt.Fprintf(sb, "Sort %d", t.index)
		}

	case KindConst:
		sb.WriteString(t.name)

	case KindApp:
		p.printApp(sb, t, names, prec)

	case KindLam:
		if prec > precLowest {
			sb.WriteString("(")
		}

		fmt.Fprintf(sb, "fun (%s : ", t.name)
		p.print(sb, t.domain, names, precLowest)
		sb.WriteString(") => ")
		p.print(sb, t.body, append(names, t.name), precLowest)

		if prec > precLowest {
			sb.WriteString(")")
		}

	case KindPi:
		if prec > precLowest {
			sb.WriteString("(")
		}

		switch {
		case t.implicit:
			fmt.Fprintf(sb, "{%s : ", t.name)
			p.print(sb, t.domain, names, precLowest)
			sb.WriteString("} -> ")
		case hasLooseBVar(t.body, 0):
			fmt.Fprintf(sb, "(%s : ", t.name)
			p.print(sb, t.domain, names, precLowest)
			sb.WriteString(") -> ")
		default:
			p.print(sb, t.domain, names, precEq)
			sb.WriteString(" -> ")
		}

		p.print(sb, t.body, append(names, t.name), precLowest)

		if prec > precLowest {
			sb.WriteString(")")
		}
	}
}

func (p *Printer) printApp(sb *strings.Builder, t *Term, names []string, prec int) {
	if _, lhs, rhs, ok := EqArgs(t); ok {
		if prec > precLowest {
			sb.WriteString("(")
		}

		p.print(sb, lhs, names, precApp)
		sb.WriteString(" = ")
		p.print(sb, rhs, names, precApp)

		if prec > precLowest {
			sb.WriteString(")")
		}

		return
	}

	head, args := t.HeadAndArgs()
	if prec >= precArg {
		sb.WriteString("(")
	}

	if _, lhs, _, rhs, ok := HEqArgs(t); ok {
		sb.WriteString(HEqName)
		args = []*Term{lhs, rhs}
	} else {
		p.print(sb, head, names, precApp)
	}

	for _, arg := range args {
		sb.WriteString(" ")
		p.print(sb, arg, names, precArg)
	}

	if prec >= precArg {
		sb.WriteString(")")
	}
}

// hasLooseBVar reports whether the bound variable with the given index, counted
// from the top of t, occurs in t.
func hasLooseBVar(t *Term, index int) bool {
	switch t.kind {
	case KindBVar:
		return t.index == index
	case KindApp:
		return hasLooseBVar(t.fn, index) || hasLooseBVar(t.arg, index)
	case KindLam, KindPi:
		return hasLooseBVar(t.domain, index) || hasLooseBVar(t.body, index+1)
	default:
		return false
	}
}
