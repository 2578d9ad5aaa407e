package ir

// JumpTargetKind names the CFG edge slot a JumpTarget occupies.
// SwitchCase carries its index in Slot rather than one enum value per k.
type JumpTargetKind uint8

const (
	JumpTargetSentinel JumpTargetKind = iota // predecessor-ring anchor
	JumpTargetDisposed

	JumpTargetJump
	JumpTargetBranchThen
	JumpTargetBranchElse
	JumpTargetSwitchDefault
	JumpTargetSwitchCase // Slot = case index
)

var jumpTargetKindNames = [...]string{
	JumpTargetSentinel:      "sentinel",
	JumpTargetDisposed:      "disposed",
	JumpTargetJump:          "jump",
	JumpTargetBranchThen:    "branch-then",
	JumpTargetBranchElse:    "branch-else",
	JumpTargetSwitchDefault: "switch-default",
	JumpTargetSwitchCase:    "switch-case",
}

func (k JumpTargetKind) String() string {
	if int(k) < len(jumpTargetKindNames) {
		return jumpTargetKindNames[k]
	}
	return "unknown"
}

// jumpTargetData is the JumpTarget entity: a directed CFG edge plus its
// predecessor-ring linkage.
type jumpTargetData struct {
	kind        JumpTargetKind
	slot        int
	terminator  InstID
	block       BlockID
	ringPrev, ringNext JumpTargetID
}

func (a *Allocs) newPredRingSentinel() JumpTargetID {
	id := JumpTargetID(a.JumpTargets.Allocate(jumpTargetData{kind: JumpTargetSentinel}))
	jt := a.JumpTargets.Deref(uint32(id))
	jt.ringPrev, jt.ringNext = id, id
	return id
}

func (a *Allocs) allocJumpTarget(terminator InstID, kind JumpTargetKind, slot int) JumpTargetID {
	return JumpTargetID(a.JumpTargets.Allocate(jumpTargetData{kind: kind, slot: slot, terminator: terminator}))
}

func (a *Allocs) attachJTToRing(sentinel, j JumpTargetID) {
	s := a.JumpTargets.Deref(uint32(sentinel))
	tailID := s.ringPrev
	tail := a.JumpTargets.Deref(uint32(tailID))
	node := a.JumpTargets.Deref(uint32(j))

	node.ringPrev, node.ringNext = tailID, sentinel
	tail.ringNext = j
	s.ringPrev = j
}

func (a *Allocs) detachJTFromRing(j JumpTargetID) {
	node := a.JumpTargets.Deref(uint32(j))
	if node.ringPrev == 0 && node.ringNext == 0 {
		return
	}
	prev := a.JumpTargets.Deref(uint32(node.ringPrev))
	next := a.JumpTargets.Deref(uint32(node.ringNext))
	prev.ringNext = node.ringNext
	next.ringPrev = node.ringPrev
	node.ringPrev, node.ringNext = 0, 0
}

func (a *Allocs) jtInRing(j JumpTargetID) bool {
	node := a.JumpTargets.Deref(uint32(j))
	return node.ringPrev != 0 || node.ringNext != 0
}

// SetBlock points JumpTarget j at destination block b (zero to clear),
// detaching from any prior predecessor ring and attaching to b's.
func (a *Allocs) SetBlock(j JumpTargetID, b BlockID) error {
	jt := a.JumpTargets.Deref(uint32(j))
	if jt.kind == JumpTargetDisposed {
		return ErrAlreadyDisposed
	}
	if a.jtInRing(j) {
		a.detachJTFromRing(j)
	}
	jt.block = b
	if b.Valid() {
		bd := a.Blocks.Deref(uint32(b))
		a.attachJTToRing(bd.predRing, j)
	}
	return nil
}

func (a *Allocs) CleanBlock(j JumpTargetID) error { return a.SetBlock(j, BlockID(noIndex)) }

// DisposeJumpTarget idempotently detaches j and clears both its block and
// terminator, queuing its slot for reclamation.
func (a *Allocs) DisposeJumpTarget(id JumpTargetID) error {
	jt := a.JumpTargets.Deref(uint32(id))
	if jt.kind == JumpTargetDisposed {
		return ErrAlreadyDisposed
	}
	if a.jtInRing(id) {
		a.detachJTFromRing(id)
	}
	jt.kind = JumpTargetDisposed
	jt.block = BlockID(noIndex)
	jt.terminator = InstID(noIndex)
	a.JumpTargets.MarkDisposed(uint32(id))
	a.disposal.Push(jumpTargetEntity(id))
	return nil
}

func (a *Allocs) JumpTargetBlock(j JumpTargetID) BlockID { return a.JumpTargets.Deref(uint32(j)).block }
func (a *Allocs) JumpTargetTerminator(j JumpTargetID) InstID {
	return a.JumpTargets.Deref(uint32(j)).terminator
}
func (a *Allocs) JumpTargetKindOf(j JumpTargetID) JumpTargetKind {
	return a.JumpTargets.Deref(uint32(j)).kind
}

// PredRingLen counts the JumpTargets arriving at b (excluding the
// sentinel).
func (a *Allocs) PredRingLen(b BlockID) int {
	bd := a.Blocks.Deref(uint32(b))
	sentinel := bd.predRing
	n := 0
	s := a.JumpTargets.Deref(uint32(sentinel))
	for cur := s.ringNext; cur != sentinel; cur = a.JumpTargets.Deref(uint32(cur)).ringNext {
		n++
	}
	return n
}

// PredRingEdges returns every JumpTarget arriving at b.
func (a *Allocs) PredRingEdges(b BlockID) []JumpTargetID {
	bd := a.Blocks.Deref(uint32(b))
	sentinel := bd.predRing
	var out []JumpTargetID
	s := a.JumpTargets.Deref(uint32(sentinel))
	for cur := s.ringNext; cur != sentinel; cur = a.JumpTargets.Deref(uint32(cur)).ringNext {
		out = append(out, cur)
	}
	return out
}
