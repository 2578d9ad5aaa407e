package ir

// The instruction chain is a doubly-linked sequence with head and tail
// sentinels, intrusive the same way the use-def rings are: the prev/next
// links live on instData itself. Unlike a ring there is no wraparound —
// Front/Back simply walk from head.next / tail.prev.

func (a *Allocs) chainPushBefore(node, pivot InstID) {
	p := a.Insts.Deref(uint32(pivot))
	prevID := p.chainPrev
	prev := a.Insts.Deref(uint32(prevID))
	n := a.Insts.Deref(uint32(node))

	n.chainPrev, n.chainNext = prevID, pivot
	prev.chainNext = node
	p.chainPrev = node
}

func (a *Allocs) chainPushAfter(node, pivot InstID) {
	p := a.Insts.Deref(uint32(pivot))
	nextID := p.chainNext
	next := a.Insts.Deref(uint32(nextID))
	n := a.Insts.Deref(uint32(node))

	n.chainPrev, n.chainNext = pivot, nextID
	next.chainPrev = node
	p.chainNext = node
}

// chainUnplug removes node from whatever chain it is in. The node's own
// links are left pointing at itself removed (zeroed); callers clear
// Parent separately, after unplugging, per the parent-clearing order the
// block-shape invariant requires.
func (a *Allocs) chainUnplug(node InstID) {
	n := a.Insts.Deref(uint32(node))
	prev := a.Insts.Deref(uint32(n.chainPrev))
	next := a.Insts.Deref(uint32(n.chainNext))
	prev.chainNext = n.chainNext
	next.chainPrev = n.chainPrev
	n.chainPrev, n.chainNext = InstID(noIndex), InstID(noIndex)
}
