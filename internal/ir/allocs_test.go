package ir

import (
	"testing"

	"github.com/kestrel-ir/kestrel/internal/irconfig"
)

// TestInstPoolGrowsAndReusesFreedSlots forces the Inst pool past its
// initial growth chunk, frees half of what was allocated, and checks that
// a further round of allocation reuses the freed indices rather than
// growing Cap further.
func TestInstPoolGrowsAndReusesFreedSlots(t *testing.T) {
	cfg := irconfig.Default()
	cfg.BasePoolCapacity = 4 // Inst chunk size = 4*4 = 16
	a := NewAllocsWithConfig(cfg)

	const n = 20 // > one chunk (16), forces a second chunk to be allocated
	ids := make([]InstID, n)
	for i := range ids {
		ids[i] = a.NewInst(InstBinOp, nil)
	}
	if got := a.Insts.Cap(); got < n {
		t.Fatalf("Insts.Cap() = %d after %d allocations, want >= %d", got, n, n)
	}
	capAfterGrowth := a.Insts.Cap()

	for i := 0; i < n/2; i++ {
		if err := a.DisposeInst(ids[i]); err != nil {
			t.Fatalf("DisposeInst(%d): %v", i, err)
		}
	}
	a.DrainDisposals()
	if got := a.PendingDisposals(); got != 0 {
		t.Fatalf("PendingDisposals() = %d after drain, want 0", got)
	}

	reused := make(map[uint32]bool, n/2)
	for i := 0; i < n/2; i++ {
		id := a.NewInst(InstBinOp, nil)
		reused[uint32(id)] = true
	}

	for i := 0; i < n/2; i++ {
		if !reused[uint32(ids[i])] {
			t.Errorf("freed index %d was not reused by subsequent allocation", uint32(ids[i]))
		}
	}
	if got := a.Insts.Cap(); got != capAfterGrowth {
		t.Errorf("Insts.Cap() = %d after reuse round, want unchanged %d (pools never shrink)", got, capAfterGrowth)
	}
}

func TestDisposeInstTwiceReturnsAlreadyDisposed(t *testing.T) {
	a := NewAllocs()
	id := a.NewInst(InstBinOp, nil)
	if err := a.DisposeInst(id); err != nil {
		t.Fatalf("first DisposeInst: %v", err)
	}
	if err := a.DisposeInst(id); err != ErrAlreadyDisposed {
		t.Errorf("second DisposeInst = %v, want ErrAlreadyDisposed", err)
	}
}
