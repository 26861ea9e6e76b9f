package goal

import (
	"github.com/orizon-lang/unifyeq/internal/errors"
	"github.com/orizon-lang/unifyeq/internal/term"
)

type retired struct {
	proof *term.Term
	id    ID
}

// Txn groups store mutations so that they can be undone as a whole. While a
// transaction is open, handles retired by mutations can be revived by Rollback and
// handles created inside it are killed.
type Txn struct {
	store   *Store
	created []ID
	retired []retired
	origin  ID
	done    bool
}

// Begin opens a transaction on goal id. Only one transaction may be open at a time.
func (s *Store) Begin(id ID) (*Txn, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}

	if s.txn != nil {
		return nil, errors.TransactionOpen(s.txn.origin.String())
	}

	s.txn = &Txn{store: s, origin: id}

	return s.txn, nil
}

// Commit keeps every mutation made inside the transaction.
func (t *Txn) Commit() error {
	if t.done || t.store.txn != t {
		return errors.NoTransaction(t.origin.String())
	}

	s := t.store

	for _, id := range t.created {
		if !s.slots[id.slot].live {
			s.release(id.slot)
		}
	}

	for _, r := range t.retired {
		s.release(r.id.slot)
	}

	t.done = true
	s.txn = nil

	return nil
}

// Rollback undoes every mutation made inside the transaction: handles created in it
// become stale and retired handles are live again with their previous contents.
// Calling Rollback after Commit is a no-op.
func (t *Txn) Rollback() {
	if t.done || t.store.txn != t {
		return
	}

	s := t.store

	for _, id := range t.created {
		sl := &s.slots[id.slot]
		if sl.live && sl.gen == id.gen {
			sl.live = false
			sl.gen++
		}
	}

	for i := len(t.retired) - 1; i >= 0; i-- {
		r := t.retired[i]
		sl := &s.slots[r.id.slot]
		sl.live = true
		sl.gen = r.id.gen
		sl.proof = r.proof
	}

	for _, id := range t.created {
		s.release(id.slot)
	}

	t.done = true
	s.txn = nil
}
