package ir

import (
	"errors"

	"github.com/google/uuid"

	"github.com/kestrel-ir/kestrel/internal/irconfig"
	"github.com/kestrel-ir/kestrel/internal/irobserv"
)

// Module owns one entity substrate and one symbol table. ID exists
// purely for log/diagnostic correlation when a process builds more than
// one module in its lifetime; it has no bearing on entity identity or
// collector semantics, which stay pool-local.
type Module struct {
	ID      uuid.UUID
	Allocs  *Allocs
	Symbols *SymbolTable

	Timer *irobserv.Timer
}

// NewModule returns an empty module with a freshly minted identity. timer
// may be nil; when non-nil, the collector records its phase timings
// through it (the builder does not use it).
func NewModule(timer *irobserv.Timer) *Module {
	return NewModuleWithConfig(irconfig.Default(), timer)
}

// NewModuleWithConfig is NewModule with pool sizing driven by cfg.
func NewModuleWithConfig(cfg irconfig.Config, timer *irobserv.Timer) *Module {
	return &Module{
		ID:      uuid.New(),
		Allocs:  NewAllocsWithConfig(cfg),
		Symbols: NewSymbolTable(),
		Timer:   timer,
	}
}

// Pin registers name for global, making it a GC root. It fails if the
// name is already bound to a different global.
func (m *Module) Pin(name string, id GlobalID) error {
	bound, err := m.Symbols.Register(name, id)
	if err != nil {
		return err
	}
	if bound != id {
		return errors.New("ir: name already bound to a different global")
	}
	m.Allocs.SetGlobalPinned(id, true)
	return nil
}

// Unpin removes name's binding. The global itself is not disposed; if
// nothing else references it, a subsequent GC cycle frees it.
func (m *Module) Unpin(name string) error {
	return m.Symbols.Unregister(name)
}

// DisposeGlobal unregisters every name bound to id before disposing its
// body and operands, so the symbol table never holds a freed id — the
// ordering C7 requires.
func (m *Module) DisposeGlobal(id GlobalID) error {
	if err := m.Symbols.UnregisterGlobalDispose(id); err != nil {
		return err
	}
	return m.Allocs.DisposeGlobal(id)
}

// ManagedInst is a discipline-layer RAII-style wrapper: Close disposes the
// wrapped instruction unless Release has been called. It is never
// mandatory — callers may call Allocs.DisposeInst directly instead.
type ManagedInst struct {
	allocs *Allocs
	id     InstID
}

func NewManagedInst(allocs *Allocs, id InstID) *ManagedInst {
	return &ManagedInst{allocs: allocs, id: id}
}

// Release transfers ownership of the wrapped id out, making Close a no-op.
func (m *ManagedInst) Release() InstID {
	id := m.id
	m.id = InstID(noIndex)
	return id
}

func (m *ManagedInst) Close() error {
	if m.id == InstID(noIndex) {
		return nil
	}
	id := m.id
	m.id = InstID(noIndex)
	return m.allocs.DisposeInst(id)
}

// ManagedBlock mirrors ManagedInst for BlockID.
type ManagedBlock struct {
	allocs *Allocs
	id     BlockID
}

func NewManagedBlock(allocs *Allocs, id BlockID) *ManagedBlock {
	return &ManagedBlock{allocs: allocs, id: id}
}

func (m *ManagedBlock) Release() BlockID {
	id := m.id
	m.id = BlockID(noIndex)
	return id
}

func (m *ManagedBlock) Close() error {
	if m.id == BlockID(noIndex) {
		return nil
	}
	id := m.id
	m.id = BlockID(noIndex)
	return m.allocs.DisposeBlock(id)
}

// ManagedExpr mirrors ManagedInst for ExprID.
type ManagedExpr struct {
	allocs *Allocs
	id     ExprID
}

func NewManagedExpr(allocs *Allocs, id ExprID) *ManagedExpr {
	return &ManagedExpr{allocs: allocs, id: id}
}

func (m *ManagedExpr) Release() ExprID {
	id := m.id
	m.id = ExprID(noIndex)
	return id
}

func (m *ManagedExpr) Close() error {
	if m.id == ExprID(noIndex) {
		return nil
	}
	id := m.id
	m.id = ExprID(noIndex)
	return m.allocs.DisposeExpr(id)
}
