package ir

import "github.com/kestrel-ir/kestrel/internal/irtype"

// instData is the Inst entity: an opcode, its place in a block's
// instruction chain, the Uses it owns as operands, the JumpTargets it owns
// if it is a terminator, and — if it produces a value — the sentinel
// anchoring its own user-ring.
type instData struct {
	op     InstOp
	parent BlockID

	chainPrev, chainNext InstID

	operands []UseID
	userRing UseID // zero unless op is non-void

	jumpTargets []JumpTargetID // populated only for terminator ops

	typ      irtype.Type
	auxInt   int64
	auxFloat float64
	aux      any
	name     string
}

// NewInst allocates an Inst entity of the given opcode, attached to no
// block yet (the builder inserts it into a chain separately). If op
// produces a value its own user-ring sentinel is created immediately.
func (a *Allocs) NewInst(op InstOp, typ irtype.Type) InstID {
	id := InstID(a.Insts.Allocate(instData{op: op, typ: typ}))
	if !op.IsVoid() {
		inst := a.Insts.Deref(uint32(id))
		inst.userRing = a.newUserRingSentinel(InstValue(id))
	}
	return id
}

// AddOperand allocates a Use owned by inst at the given slot and binds it
// to value, appending it to inst's operand list.
func (a *Allocs) AddOperand(inst InstID, kind UseKind, slot int, value Value) (UseID, error) {
	u := a.allocUse(instEntity(inst), kind, slot)
	data := a.Insts.Deref(uint32(inst))
	data.operands = append(data.operands, u)
	if err := a.SetOperand(u, value); err != nil {
		return u, err
	}
	return u, nil
}

// AddJumpTarget allocates a JumpTarget owned by the terminator inst at the
// given slot and points it at dest, appending it to inst's jump-target
// list.
func (a *Allocs) AddJumpTarget(inst InstID, kind JumpTargetKind, slot int, dest BlockID) (JumpTargetID, error) {
	j := a.allocJumpTarget(inst, kind, slot)
	data := a.Insts.Deref(uint32(inst))
	data.jumpTargets = append(data.jumpTargets, j)
	if err := a.SetBlock(j, dest); err != nil {
		return j, err
	}
	return j, nil
}

func (a *Allocs) InstOp(id InstID) InstOp         { return a.Insts.Deref(uint32(id)).op }
func (a *Allocs) InstParent(id InstID) BlockID     { return a.Insts.Deref(uint32(id)).parent }
func (a *Allocs) InstType(id InstID) irtype.Type   { return a.Insts.Deref(uint32(id)).typ }
func (a *Allocs) InstOperands(id InstID) []UseID   { return a.Insts.Deref(uint32(id)).operands }
func (a *Allocs) InstJumpTargets(id InstID) []JumpTargetID {
	return a.Insts.Deref(uint32(id)).jumpTargets
}
func (a *Allocs) InstUserRing(id InstID) UseID   { return a.Insts.Deref(uint32(id)).userRing }
func (a *Allocs) InstAuxInt(id InstID) int64     { return a.Insts.Deref(uint32(id)).auxInt }
func (a *Allocs) InstAuxFloat(id InstID) float64 { return a.Insts.Deref(uint32(id)).auxFloat }
func (a *Allocs) InstAux(id InstID) any           { return a.Insts.Deref(uint32(id)).aux }
func (a *Allocs) InstName(id InstID) string       { return a.Insts.Deref(uint32(id)).name }

func (a *Allocs) SetInstAuxInt(id InstID, v int64)     { a.Insts.Deref(uint32(id)).auxInt = v }
func (a *Allocs) SetInstAuxFloat(id InstID, v float64) { a.Insts.Deref(uint32(id)).auxFloat = v }
func (a *Allocs) SetInstAux(id InstID, v any)           { a.Insts.Deref(uint32(id)).aux = v }
func (a *Allocs) SetInstName(id InstID, name string)    { a.Insts.Deref(uint32(id)).name = name }

// ValueOfInst returns a Value referencing this instruction, handy for
// passing an instruction's result as someone else's operand.
func (a *Allocs) ValueOfInst(id InstID) Value { return InstValue(id) }

// DisposeInst detaches inst from its block chain, disposes everything it
// owns (operand Uses, its own user-ring sentinel if present, any
// JumpTargets if it is a terminator), and queues its slot for
// reclamation.
func (a *Allocs) DisposeInst(id InstID) error {
	inst := a.Insts.Deref(uint32(id))
	if a.Insts.IsDisposed(uint32(id)) {
		return ErrAlreadyDisposed
	}

	if inst.chainPrev != 0 || inst.chainNext != 0 {
		a.chainUnplug(id)
	}
	inst.parent = BlockID(noIndex)

	for _, u := range inst.operands {
		_ = a.DisposeUse(u)
	}
	if inst.userRing != 0 {
		_ = a.DisposeUse(inst.userRing)
	}
	for _, j := range inst.jumpTargets {
		_ = a.DisposeJumpTarget(j)
	}

	a.Insts.MarkDisposed(uint32(id))
	a.disposal.Push(instEntity(id))
	return nil
}
