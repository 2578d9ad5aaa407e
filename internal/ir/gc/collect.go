// Package gc implements the module's mark-sweep collector: a three-phase
// cycle that reclaims every entity unreachable from a pinned symbol-table
// root while leaving every ring and chain invariant intact.
package gc

import "github.com/kestrel-ir/kestrel/internal/ir"

// liveSet holds one bitset per pool, sized to that pool's capacity at the
// start of the cycle.
type liveSet struct {
	exprs, insts, globals, blocks, uses, jumpTargets []bool
}

func newLiveSet(a *ir.Allocs) *liveSet {
	return &liveSet{
		exprs:       make([]bool, a.Exprs.Cap()+1),
		insts:       make([]bool, a.Insts.Cap()+1),
		globals:     make([]bool, a.Globals.Cap()+1),
		blocks:      make([]bool, a.Blocks.Cap()+1),
		uses:        make([]bool, a.Uses.Cap()+1),
		jumpTargets: make([]bool, a.JumpTargets.Cap()+1),
	}
}

func (ls *liveSet) marked(id ir.EntityID) bool {
	switch id.Class {
	case ir.ClassExpr:
		return id.Index < uint32(len(ls.exprs)) && ls.exprs[id.Index]
	case ir.ClassInst:
		return id.Index < uint32(len(ls.insts)) && ls.insts[id.Index]
	case ir.ClassGlobal:
		return id.Index < uint32(len(ls.globals)) && ls.globals[id.Index]
	case ir.ClassBlock:
		return id.Index < uint32(len(ls.blocks)) && ls.blocks[id.Index]
	case ir.ClassUse:
		return id.Index < uint32(len(ls.uses)) && ls.uses[id.Index]
	case ir.ClassJumpTarget:
		return id.Index < uint32(len(ls.jumpTargets)) && ls.jumpTargets[id.Index]
	default:
		return false
	}
}

func (ls *liveSet) mark(id ir.EntityID) {
	switch id.Class {
	case ir.ClassExpr:
		ls.exprs[id.Index] = true
	case ir.ClassInst:
		ls.insts[id.Index] = true
	case ir.ClassGlobal:
		ls.globals[id.Index] = true
	case ir.ClassBlock:
		ls.blocks[id.Index] = true
	case ir.ClassUse:
		ls.uses[id.Index] = true
	case ir.ClassJumpTarget:
		ls.jumpTargets[id.Index] = true
	}
}

// Stats is the per-class count of entities freed during one Collect call.
type Stats struct {
	Exprs, Insts, Globals, Blocks, Uses, JumpTargets int
}

func (s Stats) Total() int {
	return s.Exprs + s.Insts + s.Globals + s.Blocks + s.Uses + s.JumpTargets
}

// Collect runs one mark-sweep cycle over m and returns how many entities
// of each class were freed.
func Collect(m *ir.Module) Stats {
	idx := m.Timer.Begin("gc:mark")
	m.Allocs.DrainDisposals() // phase 0: pre-drain

	live := mark(m)
	m.Timer.End(idx, "")

	idx = m.Timer.Begin("gc:sweep-edges")
	usesFreed, jumpTargetsFreed := sweepEdges(m.Allocs, live)
	m.Allocs.DrainDisposals()
	m.Timer.End(idx, "")

	idx = m.Timer.Begin("gc:sweep-vertices")
	stats := sweepVertices(m.Allocs, live)
	stats.Uses = usesFreed
	stats.JumpTargets = jumpTargetsFreed
	m.Timer.End(idx, statsNote(stats))
	return stats
}

func statsNote(s Stats) string {
	if s.Total() == 0 {
		return "freed none"
	}
	return "freed insts=" + itoa(s.Insts) + " blocks=" + itoa(s.Blocks) +
		" exprs=" + itoa(s.Exprs) + " globals=" + itoa(s.Globals) +
		" uses=" + itoa(s.Uses) + " jumptargets=" + itoa(s.JumpTargets)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// mark runs phase 1: BFS from every pinned global, following the
// per-kind outgoing-edge table.
func mark(m *ir.Module) *liveSet {
	a := m.Allocs
	live := newLiveSet(a)

	var queue []ir.EntityID
	push := func(id ir.EntityID) {
		if !id.Valid() || live.marked(id) {
			return
		}
		live.mark(id)
		queue = append(queue, id)
	}

	m.Symbols.IterPinned(func(_ string, id ir.GlobalID) {
		push(ir.EntityID{Class: ir.ClassGlobal, Index: uint32(id)})
	})

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visit(a, id, push)
	}
	return live
}

func visit(a *ir.Allocs, id ir.EntityID, push func(ir.EntityID)) {
	switch id.Class {
	case ir.ClassGlobal:
		g := ir.GlobalID(id.Index)
		pushUse(push, a.GlobalUserRing(g))
		switch a.GlobalKindOf(g) {
		case ir.GlobalVariable:
			pushUse(push, a.GlobalInitUse(g))
		case ir.GlobalFunction:
			for i := 0; i < a.FuncArgCount(g); i++ {
				pushUse(push, a.FuncArgUserRing(g, i))
			}
			for _, b := range a.FuncBlocks(g) {
				push(ir.EntityID{Class: ir.ClassBlock, Index: uint32(b)})
			}
		}

	case ir.ClassBlock:
		b := ir.BlockID(id.Index)
		for _, inst := range a.BlockAllInsts(b) {
			push(ir.EntityID{Class: ir.ClassInst, Index: uint32(inst)})
		}
		pushJumpTarget(push, a.BlockPredRingSentinel(b))
		pushUse(push, a.BlockUserRing(b))

	case ir.ClassInst:
		inst := ir.InstID(id.Index)
		for _, u := range a.InstOperands(inst) {
			push(ir.EntityID{Class: ir.ClassUse, Index: uint32(u)})
		}
		if !a.InstOp(inst).IsVoid() {
			pushUse(push, a.InstUserRing(inst))
		}
		if a.InstOp(inst).IsTerminator() {
			for _, j := range a.InstJumpTargets(inst) {
				push(ir.EntityID{Class: ir.ClassJumpTarget, Index: uint32(j)})
			}
		}

	case ir.ClassExpr:
		e := ir.ExprID(id.Index)
		for _, u := range a.ExprOperands(e) {
			push(ir.EntityID{Class: ir.ClassUse, Index: uint32(u)})
		}
		pushUse(push, a.ExprUserRing(e))

	case ir.ClassUse:
		v := a.Operand(ir.UseID(id.Index))
		if entity, ok := v.Entity(); ok {
			push(entity)
		}

	case ir.ClassJumpTarget:
		b := a.JumpTargetBlock(ir.JumpTargetID(id.Index))
		if b.Valid() {
			push(ir.EntityID{Class: ir.ClassBlock, Index: uint32(b)})
		}
	}
}

func pushUse(push func(ir.EntityID), u ir.UseID) {
	if u.Valid() {
		push(ir.EntityID{Class: ir.ClassUse, Index: uint32(u)})
	}
}

func pushJumpTarget(push func(ir.EntityID), j ir.JumpTargetID) {
	if j.Valid() {
		push(ir.EntityID{Class: ir.ClassJumpTarget, Index: uint32(j)})
	}
}

// sweepEdges is phase 2's first step: dispose every allocated-but-unmarked
// Use and JumpTarget. Disposing detaches from rings, restoring the
// invariant that lets vertex freeing (below) be unconditional.
func sweepEdges(a *ir.Allocs, live *liveSet) (usesFreed, jumpTargetsFreed int) {
	for i := uint32(1); i <= uint32(a.Uses.Cap()); i++ {
		if a.Uses.IsLive(i) && !live.uses[i] {
			if a.DisposeUse(ir.UseID(i)) == nil {
				usesFreed++
			}
		}
	}
	for i := uint32(1); i <= uint32(a.JumpTargets.Cap()); i++ {
		if a.JumpTargets.IsLive(i) && !live.jumpTargets[i] {
			if a.DisposeJumpTarget(ir.JumpTargetID(i)) == nil {
				jumpTargetsFreed++
			}
		}
	}
	return usesFreed, jumpTargetsFreed
}

// sweepVertices is phase 2's second step: with edges already detached,
// free every unmarked Inst/Block/Expr/Global slot directly.
func sweepVertices(a *ir.Allocs, live *liveSet) Stats {
	var s Stats
	s.Insts = a.Insts.FullyFreeIf(func(idx uint32) bool { return live.insts[idx] })
	s.Blocks = a.Blocks.FullyFreeIf(func(idx uint32) bool { return live.blocks[idx] })
	s.Exprs = a.Exprs.FullyFreeIf(func(idx uint32) bool { return live.exprs[idx] })
	s.Globals = a.Globals.FullyFreeIf(func(idx uint32) bool { return live.globals[idx] })
	return s
}
