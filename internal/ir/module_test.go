package ir

import (
	"testing"

	"github.com/kestrel-ir/kestrel/internal/irobserv"
)

func TestPinRejectsNameBoundToAnotherGlobal(t *testing.T) {
	m := NewModule(irobserv.NewTimer())
	f := m.Allocs.NewGlobalFunction("f", nil, nil)
	g := m.Allocs.NewGlobalFunction("g", nil, nil)

	if err := m.Pin("shared", f); err != nil {
		t.Fatalf("Pin(f): %v", err)
	}
	if err := m.Pin("shared", g); err == nil {
		t.Fatal("Pin(g) with a name already bound to f should have failed")
	}
	if !m.Allocs.GlobalPinned(f) {
		t.Error("f should remain pinned after the conflicting Pin attempt")
	}
	if m.Allocs.GlobalPinned(g) {
		t.Error("g should not be marked pinned after a rejected Pin")
	}
}

func TestUnpinLeavesGlobalAliveUntilDisposed(t *testing.T) {
	m := NewModule(irobserv.NewTimer())
	f := m.Allocs.NewGlobalFunction("f", nil, nil)
	if err := m.Pin("f", f); err != nil {
		t.Fatalf("Pin: %v", err)
	}
	if err := m.Unpin("f"); err != nil {
		t.Fatalf("Unpin: %v", err)
	}
	if !m.Allocs.Globals.IsLive(uint32(f)) {
		t.Error("Unpin must not dispose the global itself")
	}
	if _, ok := m.Symbols.Lookup("f"); ok {
		t.Error("Unpin should remove the name binding")
	}
}

func TestModuleDisposeGlobalUnregistersNameFirst(t *testing.T) {
	m := NewModule(irobserv.NewTimer())
	f := m.Allocs.NewGlobalFunction("f", nil, nil)
	if err := m.Pin("f", f); err != nil {
		t.Fatalf("Pin: %v", err)
	}
	if err := m.DisposeGlobal(f); err != nil {
		t.Fatalf("DisposeGlobal: %v", err)
	}
	if _, ok := m.Symbols.Lookup("f"); ok {
		t.Error("disposed global's name should no longer resolve")
	}
	if !m.Allocs.Globals.IsDisposed(uint32(f)) {
		t.Error("disposed global should be marked disposed")
	}
}

func TestManagedInstCloseDisposesUnlessReleased(t *testing.T) {
	a := NewAllocs()

	disposed := a.NewInst(InstBinOp, nil)
	mi := NewManagedInst(a, disposed)
	if err := mi.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !a.Insts.IsDisposed(uint32(disposed)) {
		t.Error("Close should have marked the wrapped inst disposed")
	}
	if err := mi.Close(); err != nil {
		t.Errorf("second Close on an already-closed wrapper should be a no-op, got %v", err)
	}

	released := a.NewInst(InstBinOp, nil)
	mr := NewManagedInst(a, released)
	got := mr.Release()
	if got != released {
		t.Errorf("Release() = %v, want %v", got, released)
	}
	if err := mr.Close(); err != nil {
		t.Errorf("Close after Release should be a no-op, got %v", err)
	}
	if a.Insts.IsDisposed(uint32(released)) {
		t.Error("a released instruction must not be disposed by Close")
	}
}
