package unify

import (
	"fmt"

	"github.com/orizon-lang/unifyeq/internal/diagnostic"
	"github.com/orizon-lang/unifyeq/internal/term"
	"github.com/orizon-lang/unifyeq/internal/trace"
)

// injection decomposes an equation between constructor applications into one
// equation per field, or closes the goal when the constructors differ.
func (c *call) injection(a, b *term.Term) (*Outcome, error) {
	m := c.r.meta

	ra, err := m.WHNF(a)
	if err != nil {
		return nil, err
	}

	rb, err := m.WHNF(b)
	if err != nil {
		return nil, err
	}

	for _, side := range []*term.Term{ra, rb} {
		if !m.Env.IsConstructorApp(side) {
			return nil, newError(ErrMalformedInjectionTarget, c.hyp.Name,
				diagnostic.Common.MalformedInjectionTarget(c.pretty(c.hyp.Type), c.pretty(side)))
		}
	}

	if c.r.trace.IsEnabled(trace.Injection) {
		trace.SafeEmit(c.r.sink, trace.Injection,
			fmt.Sprintf("%s : %s = %s", c.hyp.Name, c.pretty(ra), c.pretty(rb)))
	}

	res, err := m.InjectionCore(c.id, c.hyp.ID)
	if err != nil {
		return nil, err
	}

	if res.Closed {
		return &Outcome{Kind: Closed}, nil
	}

	return &Outcome{
		Kind:             Progress,
		Goal:             res.Goal,
		Hypotheses:       res.Equations,
		PendingEquations: len(res.Equations),
	}, nil
}
