package meta

import (
	"maps"

	"github.com/orizon-lang/unifyeq/internal/term"
)

// MVarDecl declares a metavariable.
type MVarDecl struct {
	Type *term.Term
	Name string
	ID   term.MVarID
}

// MetavarContext tracks metavariables and their assignments.
type MetavarContext struct {
	decls       map[term.MVarID]*MVarDecl
	assignments map[term.MVarID]*term.Term
	next        term.MVarID
}

// MCtxState is a snapshot of the assignments of a MetavarContext.
type MCtxState struct {
	assignments map[term.MVarID]*term.Term
}

// NewMetavarContext creates an empty metavariable context.
func NewMetavarContext() *MetavarContext {
	return &MetavarContext{
		decls:       make(map[term.MVarID]*MVarDecl),
		assignments: make(map[term.MVarID]*term.Term),
	}
}

// Declare creates a fresh unassigned metavariable of type ty.
func (m *MetavarContext) Declare(name string, ty *term.Term) term.MVarID {
	m.next++
	m.decls[m.next] = &MVarDecl{ID: m.next, Name: name, Type: ty}

	return m.next
}

// Decl returns the declaration of id.
func (m *MetavarContext) Decl(id term.MVarID) (*MVarDecl, bool) {
	d, ok := m.decls[id]

	return d, ok
}

// FindByName returns the metavariable declared with name.
func (m *MetavarContext) FindByName(name string) (*MVarDecl, bool) {
	for _, d := range m.decls {
		if d.Name == name {
			return d, true
		}
	}

	return nil, false
}

// Assign records value as the solution of id.
func (m *MetavarContext) Assign(id term.MVarID, value *term.Term) {
	m.assignments[id] = value
}

// Assignment returns the value assigned to id.
func (m *MetavarContext) Assignment(id term.MVarID) (*term.Term, bool) {
	v, ok := m.assignments[id]

	return v, ok
}

// IsAssigned reports whether id has a value.
func (m *MetavarContext) IsAssigned(id term.MVarID) bool {
	_, ok := m.assignments[id]

	return ok
}

// Name returns the user-facing name of id.
func (m *MetavarContext) Name(id term.MVarID) (string, bool) {
	d, ok := m.decls[id]
	if !ok || d.Name == "" {
		return "", false
	}

	return d.Name, true
}

// Save snapshots the current assignments.
func (m *MetavarContext) Save() MCtxState {
	return MCtxState{assignments: maps.Clone(m.assignments)}
}

// Restore rolls assignments back to a snapshot taken with Save.
func (m *MetavarContext) Restore(s MCtxState) {
	m.assignments = maps.Clone(s.assignments)
	if m.assignments == nil {
		m.assignments = make(map[term.MVarID]*term.Term)
	}
}
