package goal

import (
	"github.com/samber/lo"

	"github.com/orizon-lang/unifyeq/internal/errors"
	"github.com/orizon-lang/unifyeq/internal/term"
)

type slot struct {
	goal *Goal
	// proof is set once the goal has been closed.
	proof *term.Term
	gen   uint32
	live  bool
}

// Store owns goal snapshots. It is meant for a single writer; callers sharing a
// store across goroutines must serialize access.
type Store struct {
	txn   *Txn
	slots []slot
	// free lists dead slots ready for reuse. Slots retired inside a transaction
	// join it only once the transaction ends.
	free     []uint32
	nextFVar term.FVarID
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		// Slot 0 is reserved so that the zero ID is never valid.
		slots: []slot{{}},
	}
}

// NewFVarID allocates a fresh free-variable id.
func (s *Store) NewFVarID() term.FVarID {
	s.nextFVar++

	return s.nextFVar
}

// NewGoal registers a goal built from hyps and target. Hypothesis ids must have
// been allocated with NewFVarID, and each type may only refer to earlier hypotheses.
func (s *Store) NewGoal(hyps []*Hypothesis, target *term.Term) (ID, error) {
	g := &Goal{hyps: append([]*Hypothesis(nil), hyps...), target: target}

	if err := checkScopes(g); err != nil {
		return ID{}, err
	}

	return s.alloc(g), nil
}

// Get returns the snapshot behind id.
func (s *Store) Get(id ID) (*Goal, error) {
	if int(id.slot) >= len(s.slots) || id.slot == 0 {
		return nil, errors.StaleGoal(id.String())
	}

	sl := &s.slots[id.slot]
	if !sl.live || sl.gen != id.gen {
		return nil, errors.StaleGoal(id.String())
	}

	return sl.goal, nil
}

// Valid reports whether id refers to a live goal.
func (s *Store) Valid(id ID) bool {
	_, err := s.Get(id)

	return err == nil
}

// Hypothesis returns the hypothesis fvar of goal id.
func (s *Store) Hypothesis(id ID, fvar term.FVarID) (*Hypothesis, error) {
	g, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	h, _, ok := g.Find(fvar)
	if !ok {
		return nil, errors.UnknownHypothesis(fvar.String())
	}

	return h, nil
}

// Assert appends a hypothesis name : ty justified by proof. It returns the new goal
// and the id of the new hypothesis.
func (s *Store) Assert(id ID, name string, ty, proof *term.Term) (ID, term.FVarID, error) {
	g, err := s.Get(id)
	if err != nil {
		return ID{}, 0, err
	}

	for _, fv := range term.FVars(ty) {
		if _, _, ok := g.Find(fv); !ok {
			return ID{}, 0, errors.UnknownHypothesis(fv.String())
		}
	}

	h := &Hypothesis{ID: s.NewFVarID(), Name: name, Type: ty, Proof: proof}
	next := &Goal{hyps: append(g.Hypotheses(), h), target: g.target}

	return s.replace(id, next), h.ID, nil
}

// Clear removes the hypothesis fvar. It fails while another hypothesis or the
// target refers to it.
func (s *Store) Clear(id ID, fvar term.FVarID) (ID, error) {
	g, err := s.Get(id)
	if err != nil {
		return ID{}, err
	}

	h, index, ok := g.Find(fvar)
	if !ok {
		return ID{}, errors.UnknownHypothesis(fvar.String())
	}

	if term.HasFVar(g.target, fvar) {
		return ID{}, errors.HypothesisInUse(h.Name, "the target")
	}

	for _, other := range g.hyps[index+1:] {
		if term.HasFVar(other.Type, fvar) {
			return ID{}, errors.HypothesisInUse(h.Name, other.Name)
		}
	}

	next := &Goal{
		hyps:   lo.Filter(g.hyps, func(other *Hypothesis, _ int) bool { return other.ID != fvar }),
		target: g.target,
	}

	return s.replace(id, next), nil
}

// Substitute eliminates the variable fvar by replacing it with replacement in every
// hypothesis and in the target. Hypotheses depending on fvar are moved after the
// others, keeping their relative order. The operation fails without touching the
// store when replacement mentions fvar or when the result would not be well scoped.
func (s *Store) Substitute(id ID, fvar term.FVarID, replacement *term.Term) (ID, error) {
	g, err := s.Get(id)
	if err != nil {
		return ID{}, err
	}

	x, index, ok := g.Find(fvar)
	if !ok {
		return ID{}, errors.UnknownHypothesis(fvar.String())
	}

	if term.HasFVar(replacement, fvar) {
		return ID{}, errors.OccursCheck(x.Name, g.Pretty(replacement))
	}

	for _, fv := range term.FVars(replacement) {
		if _, _, ok := g.Find(fv); !ok {
			return ID{}, errors.UnknownHypothesis(fv.String())
		}
	}

	dependents := map[term.FVarID]bool{fvar: true}
	for _, h := range g.hyps[index+1:] {
		if term.HasAnyFVar(h.Type, dependents) {
			dependents[h.ID] = true
		}
	}

	rewrite := func(h *Hypothesis, _ int) *Hypothesis {
		next := &Hypothesis{ID: h.ID, Name: h.Name, Type: term.ReplaceFVar(h.Type, fvar, replacement)}
		if h.Proof != nil {
			next.Proof = term.ReplaceFVar(h.Proof, fvar, replacement)
		}

		return next
	}

	kept := lo.Filter(g.hyps, func(h *Hypothesis, _ int) bool { return !dependents[h.ID] })
	moved := lo.Filter(g.hyps, func(h *Hypothesis, _ int) bool { return dependents[h.ID] && h.ID != fvar })

	next := &Goal{
		hyps:   lo.Map(append(kept, moved...), rewrite),
		target: term.ReplaceFVar(g.target, fvar, replacement),
	}

	if err := checkScopes(next); err != nil {
		return ID{}, err
	}

	return s.replace(id, next), nil
}

// Close discharges the goal with proof. The handle is retired and no new goal exists.
func (s *Store) Close(id ID, proof *term.Term) error {
	if _, err := s.Get(id); err != nil {
		return err
	}

	s.retire(id)
	s.slots[id.slot].proof = proof

	return nil
}

// checkScopes verifies every hypothesis and the target only refer to earlier hypotheses.
func checkScopes(g *Goal) error {
	declared := make(map[term.FVarID]bool, len(g.hyps))
	names := make(map[term.FVarID]string, len(g.hyps))

	for _, h := range g.hyps {
		names[h.ID] = h.Name
	}

	nameOf := func(id term.FVarID) string {
		if name, ok := names[id]; ok {
			return name
		}

		return id.String()
	}

	for _, h := range g.hyps {
		for _, fv := range term.FVars(h.Type) {
			if !declared[fv] {
				return errors.ScopeEscape(h.Name, nameOf(fv))
			}
		}

		declared[h.ID] = true
	}

	for _, fv := range term.FVars(g.target) {
		if !declared[fv] {
			return errors.ScopeEscape("the target", nameOf(fv))
		}
	}

	return nil
}

func (s *Store) alloc(g *Goal) ID {
	var index uint32

	if n := len(s.free); n > 0 {
		index = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.slots = append(s.slots, slot{gen: 1})
		index = uint32(len(s.slots) - 1)
	}

	sl := &s.slots[index]
	sl.goal, sl.proof, sl.live = g, nil, true
	id := ID{slot: index, gen: sl.gen}

	if s.txn != nil {
		s.txn.created = append(s.txn.created, id)
	}

	return id
}

func (s *Store) retire(id ID) {
	sl := &s.slots[id.slot]

	if s.txn != nil && !lo.Contains(s.txn.created, id) {
		s.txn.retired = append(s.txn.retired, retired{id: id, proof: sl.proof})
	}

	sl.live = false
	sl.gen++

	if s.txn == nil {
		s.release(id.slot)
	}
}

// release puts a dead slot on the free list.
func (s *Store) release(index uint32) {
	s.slots[index].goal = nil
	s.free = append(s.free, index)
}

// replace retires id and registers next under a fresh handle.
func (s *Store) replace(id ID, next *Goal) ID {
	s.retire(id)

	return s.alloc(next)
}
