package ir

// blockData is the Block entity. A live body block's instruction chain
// always has the shape head, phi*, phi-end, non-phi*, terminator, tail —
// enforced by the builder (insertion/split/terminator-replacement
// primitives), not re-derived here on every access.
type blockData struct {
	parent GlobalID

	head, phiEnd, tail InstID

	userRing UseID
	predRing JumpTargetID
}

// NewBlock allocates an empty body block: head/phi-end/tail sentinel
// instructions linked together, an empty user-ring, and an empty
// predecessor ring. The block has no parent function until the builder
// attaches it.
func (a *Allocs) NewBlock() BlockID {
	id := BlockID(a.Blocks.Allocate(blockData{}))

	head := a.newSentinelInst(id, InstSentinelHead)
	phiEnd := a.newSentinelInst(id, InstPhiEnd)
	tail := a.newSentinelInst(id, InstSentinelTail)

	h := a.Insts.Deref(uint32(head))
	p := a.Insts.Deref(uint32(phiEnd))
	t := a.Insts.Deref(uint32(tail))
	h.chainNext, p.chainPrev = phiEnd, head
	p.chainNext, t.chainPrev = tail, phiEnd

	bd := a.Blocks.Deref(uint32(id))
	bd.head, bd.phiEnd, bd.tail = head, phiEnd, tail
	bd.userRing = a.newUserRingSentinel(BlockValue(id))
	bd.predRing = a.newPredRingSentinel()
	return id
}

func (a *Allocs) newSentinelInst(parent BlockID, op InstOp) InstID {
	id := InstID(a.Insts.Allocate(instData{op: op, parent: parent}))
	return id
}

func (a *Allocs) BlockParent(id BlockID) GlobalID { return a.Blocks.Deref(uint32(id)).parent }
func (a *Allocs) BlockHead(id BlockID) InstID      { return a.Blocks.Deref(uint32(id)).head }
func (a *Allocs) BlockPhiEnd(id BlockID) InstID    { return a.Blocks.Deref(uint32(id)).phiEnd }
func (a *Allocs) BlockTail(id BlockID) InstID      { return a.Blocks.Deref(uint32(id)).tail }
func (a *Allocs) BlockUserRing(id BlockID) UseID         { return a.Blocks.Deref(uint32(id)).userRing }
func (a *Allocs) BlockPredRingSentinel(id BlockID) JumpTargetID {
	return a.Blocks.Deref(uint32(id)).predRing
}

// BlockAllInsts returns every instruction in b's chain in order, including
// the head, phi-end, and tail sentinels — the full mark-phase visit set
// for a block, as opposed to BlockInsts' builder-facing view.
func (a *Allocs) BlockAllInsts(id BlockID) []InstID {
	bd := a.Blocks.Deref(uint32(id))
	var out []InstID
	for cur := bd.head; cur != 0; {
		out = append(out, cur)
		if cur == bd.tail {
			break
		}
		cur = a.Insts.Deref(uint32(cur)).chainNext
	}
	return out
}

func (a *Allocs) setBlockParent(id BlockID, fn GlobalID) { a.Blocks.Deref(uint32(id)).parent = fn }

// BlockInsts returns every non-sentinel, non-phi-end instruction in b's
// chain, in order (phi instructions included).
func (a *Allocs) BlockInsts(id BlockID) []InstID {
	bd := a.Blocks.Deref(uint32(id))
	var out []InstID
	for cur := a.Insts.Deref(uint32(bd.head)).chainNext; cur != bd.tail; {
		data := a.Insts.Deref(uint32(cur))
		if cur != bd.phiEnd {
			out = append(out, cur)
		}
		cur = data.chainNext
	}
	return out
}

// BlockTerminator returns the instruction immediately before the tail
// sentinel, i.e. the block's terminator (zero if the block is malformed
// and empty, which sanity checking flags).
func (a *Allocs) BlockTerminator(id BlockID) InstID {
	bd := a.Blocks.Deref(uint32(id))
	prev := a.Insts.Deref(uint32(bd.tail)).chainPrev
	if prev == bd.phiEnd {
		return InstID(noIndex)
	}
	return prev
}

// InsertInstBefore splices inst into block's chain immediately before
// pivot, setting inst's parent first as the block-shape invariant
// requires.
func (a *Allocs) InsertInstBefore(block BlockID, inst, pivot InstID) {
	a.Insts.Deref(uint32(inst)).parent = block
	a.chainPushBefore(inst, pivot)
}

// InsertInstAfter splices inst into block's chain immediately after
// pivot.
func (a *Allocs) InsertInstAfter(block BlockID, inst, pivot InstID) {
	a.Insts.Deref(uint32(inst)).parent = block
	a.chainPushAfter(inst, pivot)
}

// RemoveInst unplugs inst from its chain without disposing it (used by
// split-block, which relocates an instruction rather than freeing it).
// Parent is cleared after unplugging, as the invariant requires.
func (a *Allocs) RemoveInst(inst InstID) {
	a.chainUnplug(inst)
	a.Insts.Deref(uint32(inst)).parent = BlockID(noIndex)
}

// DisposeBlock walks the instruction chain disposing every instruction
// (including the three sentinels), disposes the block's own user-ring
// sentinel and predecessor-ring sentinel, and queues the block's slot for
// reclamation. The caller (builder or collector) is responsible for first
// unplugging the block from its function's block list and ensuring no
// live JumpTarget still targets it.
func (a *Allocs) DisposeBlock(id BlockID) error {
	if a.Blocks.IsDisposed(uint32(id)) {
		return ErrAlreadyDisposed
	}
	bd := a.Blocks.Deref(uint32(id))

	cur := bd.head
	for cur != 0 {
		next := a.Insts.Deref(uint32(cur)).chainNext
		_ = a.DisposeInst(cur)
		cur = next
	}

	if bd.userRing != 0 {
		_ = a.DisposeUse(bd.userRing)
	}
	if bd.predRing != 0 {
		_ = a.DisposeJumpTarget(bd.predRing)
	}

	bd.parent = GlobalID(noIndex)
	a.Blocks.MarkDisposed(uint32(id))
	a.disposal.Push(blockEntity(id))
	return nil
}
