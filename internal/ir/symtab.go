package ir

import (
	"errors"

	"golang.org/x/text/cases"
)

// ErrSymtabBorrowed guards against registering or unregistering a symbol
// while IterPinned is walking the table (e.g. the collector's pinned-root
// scan); a global's disposal that tries to unregister its names during
// such a walk gets this error too. This is single-threaded re-entrancy protection, not a
// concurrency primitive — there is exactly one bool flag, not a mutex.
var ErrSymtabBorrowed = errors.New("ir: symbol table already borrowed")

var foldCaser = cases.Fold()

// SymbolTable maps an interned, casefolded name to at most one live
// global. A symbol is pinned when its entry is present — pins and
// registration are the same operation here, matching how the spec's
// pinned set is just "the globals in the symbol table".
type SymbolTable struct {
	byName  map[string]GlobalID
	borrowed bool
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{byName: make(map[string]GlobalID)}
}

func foldName(name string) string { return foldCaser.String(name) }

// Register binds name to id. If name is already registered, Register
// fails and returns the existing id rather than overwriting it.
func (s *SymbolTable) Register(name string, id GlobalID) (GlobalID, error) {
	if s.borrowed {
		return GlobalID(noIndex), ErrSymtabBorrowed
	}
	key := foldName(name)
	if existing, ok := s.byName[key]; ok {
		return existing, errors.New("ir: symbol already registered")
	}
	s.byName[key] = id
	return id, nil
}

// Unregister removes name's binding, if present.
func (s *SymbolTable) Unregister(name string) error {
	if s.borrowed {
		return ErrSymtabBorrowed
	}
	delete(s.byName, foldName(name))
	return nil
}

// Lookup returns the global bound to name, if any.
func (s *SymbolTable) Lookup(name string) (GlobalID, bool) {
	id, ok := s.byName[foldName(name)]
	return id, ok
}

// IterPinned calls visit for every pinned global while the table is
// borrowed, so a visit callback cannot re-enter Register/Unregister
// (e.g. by disposing a global mid-walk) and corrupt the map being
// ranged over.
func (s *SymbolTable) IterPinned(visit func(name string, id GlobalID)) {
	s.borrowed = true
	defer func() { s.borrowed = false }()
	for name, id := range s.byName {
		visit(name, id)
	}
}

func (s *SymbolTable) Len() int { return len(s.byName) }

// UnregisterGlobalDispose unregisters every name bound to id. Callers
// (Global disposal) must call this before releasing the global's
// operands or body, so the table never holds a freed id — the spec's
// ordering requirement for C7.
func (s *SymbolTable) UnregisterGlobalDispose(id GlobalID) error {
	if s.borrowed {
		return ErrSymtabBorrowed
	}
	for name, bound := range s.byName {
		if bound == id {
			delete(s.byName, name)
		}
	}
	return nil
}
