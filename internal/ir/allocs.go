package ir

import "github.com/kestrel-ir/kestrel/internal/irconfig"

// Allocs owns the six entity pools (C1) plus the disposal queue (C1) that
// every other file in this package mutates through. A Module embeds one.
type Allocs struct {
	Exprs       *pool[exprData]
	Insts       *pool[instData]
	Globals     *pool[globalData]
	Blocks      *pool[blockData]
	Uses        *pool[useData]
	JumpTargets *pool[jumpTargetData]

	disposal disposalQueue
}

// NewAllocs returns an empty entity substrate sized per irconfig.Default,
// with every pool's index 0 reserved as the class's "none" sentinel
// (pool.next starts at 1).
func NewAllocs() *Allocs {
	return NewAllocsWithConfig(irconfig.Default())
}

// NewAllocsWithConfig is NewAllocs with pool chunk sizes scaled from cfg's
// BasePoolCapacity (see irconfig.Config.PoolChunkSizes).
func NewAllocsWithConfig(cfg irconfig.Config) *Allocs {
	sizes := cfg.PoolChunkSizes()
	return &Allocs{
		Exprs:       newPool[exprData](sizes.Expr),
		Insts:       newPool[instData](sizes.Inst),
		Globals:     newPool[globalData](sizes.Global),
		Blocks:      newPool[blockData](sizes.Block),
		Uses:        newPool[useData](sizes.Use),
		JumpTargets: newPool[jumpTargetData](sizes.JumpTarget),
	}
}

// PendingDisposals reports how many entity slots are queued for
// reclamation but not yet freed.
func (a *Allocs) PendingDisposals() int { return a.disposal.Len() }

// DrainDisposals frees every queued slot, dispatching by class to the
// owning pool. This is the only place Free is called outside of the
// collector's own sweep, so a caller that disposes entities directly
// (rather than through the collector) still reclaims their slots.
func (a *Allocs) DrainDisposals() {
	a.disposal.Drain(func(id EntityID) {
		switch id.Class {
		case ClassExpr:
			a.Exprs.Free(id.Index)
		case ClassInst:
			a.Insts.Free(id.Index)
		case ClassGlobal:
			a.Globals.Free(id.Index)
		case ClassBlock:
			a.Blocks.Free(id.Index)
		case ClassUse:
			a.Uses.Free(id.Index)
		case ClassJumpTarget:
			a.JumpTargets.Free(id.Index)
		}
	})
}

// Stats is a point-in-time snapshot of pool occupancy, used by the
// observability layer and by tests asserting pool growth/reuse behavior.
type Stats struct {
	ExprCap, InstCap, GlobalCap, BlockCap, UseCap, JumpTargetCap int
	PendingDisposals                                              int
}

func (a *Allocs) Stats() Stats {
	return Stats{
		ExprCap:          a.Exprs.Cap(),
		InstCap:          a.Insts.Cap(),
		GlobalCap:        a.Globals.Cap(),
		BlockCap:         a.Blocks.Cap(),
		UseCap:           a.Uses.Cap(),
		JumpTargetCap:    a.JumpTargets.Cap(),
		PendingDisposals: a.disposal.Len(),
	}
}
