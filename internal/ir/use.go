package ir

import "errors"

// UseKind names the operand slot a Use occupies. Parametrized slots (a
// phi's k-th incoming pair, a GEP's k-th index, a call's k-th argument)
// carry the index in Slot rather than exploding into one enum value per k.
type UseKind uint8

const (
	UseKindSentinel UseKind = iota // ring anchor; never a real operand
	UseKindDisposed

	UseKindBinLHS
	UseKindBinRHS
	UseKindUnaryOperand
	UseKindCmpLHS
	UseKindCmpRHS
	UseKindCastOperand
	UseKindLoadPtr
	UseKindStorePtr
	UseKindStoreVal
	UseKindGEPBase
	UseKindGEPIndex
	UseKindCallCallee
	UseKindCallArg // Slot = argument index
	UseKindRetVal
	UseKindBrCond
	UseKindSwitchDiscriminant
	UseKindPhiIncomingValue // Slot = predecessor index
	UseKindPhiIncomingBlock // Slot = predecessor index
	UseKindGlobalInit
)

var useKindNames = [...]string{
	UseKindSentinel:           "sentinel",
	UseKindDisposed:           "disposed",
	UseKindBinLHS:             "binop-lhs",
	UseKindBinRHS:             "binop-rhs",
	UseKindUnaryOperand:       "unary-operand",
	UseKindCmpLHS:             "cmp-lhs",
	UseKindCmpRHS:             "cmp-rhs",
	UseKindCastOperand:        "cast-operand",
	UseKindLoadPtr:            "load-ptr",
	UseKindStorePtr:           "store-ptr",
	UseKindStoreVal:           "store-val",
	UseKindGEPBase:            "gep-base",
	UseKindGEPIndex:           "gep-index",
	UseKindCallCallee:        "call-callee",
	UseKindCallArg:            "call-arg",
	UseKindRetVal:             "ret-val",
	UseKindBrCond:             "br-cond",
	UseKindSwitchDiscriminant: "switch-discriminant",
	UseKindPhiIncomingValue:   "phi-incoming-value",
	UseKindPhiIncomingBlock:   "phi-incoming-block",
	UseKindGlobalInit:         "global-init",
}

func (k UseKind) String() string {
	if int(k) < len(useKindNames) {
		return useKindNames[k]
	}
	return "unknown"
}

// useData is the Use entity: an operand edge plus its ring linkage. It is
// intrusive — the ring node lives inside the entity, not in a separate
// container.
type useData struct {
	kind    UseKind
	slot    int
	owner   EntityID // the User that owns this Use as one of its operands; zero for a ring sentinel
	operand Value

	ringPrev, ringNext UseID
}

var (
	ErrUseDisposed    = errors.New("ir: use is disposed")
	ErrInvariantBroken = errors.New("ir: invariant broken")
)

// newUserRingSentinel allocates a self-looped sentinel Use anchoring a
// user-ring, and records self as its operand so marking the sentinel is
// enough for the collector to consider the whole ring reachable.
func (a *Allocs) newUserRingSentinel(self Value) UseID {
	id := UseID(a.Uses.Allocate(useData{kind: UseKindSentinel}))
	u := a.Uses.Deref(uint32(id))
	u.ringPrev, u.ringNext = id, id
	u.operand = self
	return id
}

// allocUse allocates a bare Use entity owned by owner at the given slot,
// with no operand attached yet (SetOperand attaches it).
func (a *Allocs) allocUse(owner EntityID, kind UseKind, slot int) UseID {
	return UseID(a.Uses.Allocate(useData{kind: kind, slot: slot, owner: owner}))
}

func (a *Allocs) attachUseToRing(sentinel, u UseID) {
	s := a.Uses.Deref(uint32(sentinel))
	tailID := s.ringPrev
	tail := a.Uses.Deref(uint32(tailID))
	node := a.Uses.Deref(uint32(u))

	node.ringPrev, node.ringNext = tailID, sentinel
	tail.ringNext = u
	s.ringPrev = u
}

func (a *Allocs) detachUseFromRing(u UseID) {
	node := a.Uses.Deref(uint32(u))
	if node.ringPrev == 0 && node.ringNext == 0 {
		return
	}
	prev := a.Uses.Deref(uint32(node.ringPrev))
	next := a.Uses.Deref(uint32(node.ringNext))
	prev.ringNext = node.ringNext
	next.ringPrev = node.ringPrev
	node.ringPrev, node.ringNext = 0, 0
}

func (a *Allocs) useInRing(u UseID) bool {
	node := a.Uses.Deref(uint32(u))
	return node.ringPrev != 0 || node.ringNext != 0
}

// userRingSentinelOf returns the UserRing sentinel anchoring v's
// traceable defining entity.
func (a *Allocs) userRingSentinelOf(v Value) (UseID, bool) {
	switch v.Kind {
	case ValConstExpr:
		return a.Exprs.Deref(uint32(v.Expr)).userRing, true
	case ValFuncArg:
		g := a.Globals.Deref(uint32(v.ArgFunc))
		if v.ArgIndex < 0 || v.ArgIndex >= len(g.args) {
			return 0, false
		}
		return g.args[v.ArgIndex].userRing, true
	case ValBlock:
		return a.Blocks.Deref(uint32(v.Block)).userRing, true
	case ValInst:
		inst := a.Insts.Deref(uint32(v.Inst))
		if inst.op.IsVoid() {
			return 0, false
		}
		return inst.userRing, true
	case ValGlobal:
		return a.Globals.Deref(uint32(v.Global)).userRing, true
	default:
		return 0, false
	}
}

// SetOperand points Use u at v, detaching from any prior ring membership
// and attaching to v's user-ring if v is traceable.
func (a *Allocs) SetOperand(u UseID, v Value) error {
	use := a.Uses.Deref(uint32(u))
	if use.kind == UseKindDisposed {
		return ErrUseDisposed
	}
	if a.useInRing(u) {
		a.detachUseFromRing(u)
	}
	use.operand = v
	if v.Traceable() {
		sentinel, ok := a.userRingSentinelOf(v)
		if !ok {
			return ErrInvariantBroken
		}
		if a.Uses.Deref(uint32(sentinel)).kind == UseKindDisposed {
			return ErrInvariantBroken
		}
		a.attachUseToRing(sentinel, u)
	}
	return nil
}

// CleanOperand is SetOperand(u, None).
func (a *Allocs) CleanOperand(u UseID) error {
	return a.SetOperand(u, None)
}

// DisposeUse idempotently detaches u and marks it disposed, queuing its
// slot for reclamation.
func (a *Allocs) DisposeUse(id UseID) error {
	u := a.Uses.Deref(uint32(id))
	if u.kind == UseKindDisposed {
		return ErrAlreadyDisposed
	}
	if a.useInRing(id) {
		a.detachUseFromRing(id)
	}
	u.kind = UseKindDisposed
	u.operand = None
	u.owner = EntityID{}
	a.Uses.MarkDisposed(uint32(id))
	a.disposal.Push(useEntity(id))
	return nil
}

// Operand returns the Value u currently refers to.
func (a *Allocs) Operand(u UseID) Value { return a.Uses.Deref(uint32(u)).operand }

// UseOwner returns the User that owns u as one of its operands.
func (a *Allocs) UseOwner(u UseID) EntityID { return a.Uses.Deref(uint32(u)).owner }

// ReplaceAllUsesWith retargets every Use in v's user-ring to point at w
// instead, visiting the ring with a captured next-pointer so reshaping
// mid-iteration (which SetOperand necessarily does) is safe.
func (a *Allocs) ReplaceAllUsesWith(v, w Value) error {
	sentinel, ok := a.userRingSentinelOf(v)
	if !ok {
		return nil
	}
	s := a.Uses.Deref(uint32(sentinel))
	cur := s.ringNext
	for cur != sentinel {
		next := a.Uses.Deref(uint32(cur)).ringNext
		if err := a.SetOperand(cur, w); err != nil {
			return err
		}
		cur = next
	}
	return nil
}

// UserRingLen counts the Uses attached to v's user-ring (excluding the
// sentinel). Mainly useful for tests asserting invariant laws.
func (a *Allocs) UserRingLen(v Value) int {
	sentinel, ok := a.userRingSentinelOf(v)
	if !ok {
		return 0
	}
	n := 0
	s := a.Uses.Deref(uint32(sentinel))
	for cur := s.ringNext; cur != sentinel; cur = a.Uses.Deref(uint32(cur)).ringNext {
		n++
	}
	return n
}

// UserRingUsers returns the owning EntityID of every Use in v's user-ring.
func (a *Allocs) UserRingUsers(v Value) []EntityID {
	sentinel, ok := a.userRingSentinelOf(v)
	if !ok {
		return nil
	}
	var out []EntityID
	s := a.Uses.Deref(uint32(sentinel))
	for cur := s.ringNext; cur != sentinel; cur = a.Uses.Deref(uint32(cur)).ringNext {
		out = append(out, a.UseOwner(cur))
	}
	return out
}

// UserRingUseIDs returns every Use in v's user-ring, mirroring
// PredRingEdges' edge-identity return shape rather than UserRingUsers'
// owner-only view. Sanity checking needs the Use identities themselves to
// confirm a specific Use is the one the ring carries, not just who owns it.
func (a *Allocs) UserRingUseIDs(v Value) []UseID {
	sentinel, ok := a.userRingSentinelOf(v)
	if !ok {
		return nil
	}
	var out []UseID
	s := a.Uses.Deref(uint32(sentinel))
	for cur := s.ringNext; cur != sentinel; cur = a.Uses.Deref(uint32(cur)).ringNext {
		out = append(out, cur)
	}
	return out
}

// UseKindOf returns the UseKind u was allocated with.
func (a *Allocs) UseKindOf(u UseID) UseKind { return a.Uses.Deref(uint32(u)).kind }
