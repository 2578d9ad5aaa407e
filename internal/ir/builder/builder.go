// Package builder implements the structural editing contract: every
// insertion, terminator replacement, and block split goes through a
// Builder so the invariants the core substrate assumes (block shape, one
// terminator, parent-before-chain) are never momentarily broken in a way
// a caller could observe.
package builder

import (
	"errors"

	"github.com/kestrel-ir/kestrel/internal/ir"
	"github.com/kestrel-ir/kestrel/internal/irtype"
)

// FocusDegradeConfig controls what InsertInst does when the exact focus
// position it would naturally use is unsuitable for the instruction being
// inserted (e.g. inserting a phi while focused mid-body).
type FocusDegradeConfig uint8

const (
	DegradeStrict   FocusDegradeConfig = iota // fail with ErrFocusDegraded
	DegradeToBlock                             // fall back to the block's natural insertion point
	DegradeIgnore                              // insert at the requested position anyway
)

var (
	ErrFocusInvalid    = errors.New("builder: focus invalid")
	ErrFocusDegraded   = errors.New("builder: focus degraded")
	ErrCannotSplitHere = errors.New("builder: cannot split here")
)

// Builder holds a module and a focus triple (function, block,
// instruction) describing where new nodes land. A zero-valued focus
// field means "unset at this level."
type Builder struct {
	Module  *ir.Module
	Degrade FocusDegradeConfig

	fn    ir.GlobalID
	block ir.BlockID
	inst  ir.InstID
}

func New(m *ir.Module, degrade FocusDegradeConfig) *Builder {
	return &Builder{Module: m, Degrade: degrade}
}

func (b *Builder) FocusFunc() ir.GlobalID  { return b.fn }
func (b *Builder) FocusBlock() ir.BlockID  { return b.block }
func (b *Builder) FocusInst() ir.InstID    { return b.inst }

// SetFocusFunc positions the builder on fn with no block or instruction
// focus.
func (b *Builder) SetFocusFunc(fn ir.GlobalID) error {
	if b.Module.Allocs.GlobalKindOf(fn) != ir.GlobalFunction {
		return ErrFocusInvalid
	}
	b.fn, b.block, b.inst = fn, ir.BlockID(0), ir.InstID(0)
	return nil
}

// SetFocusBlock positions the builder on block, inferring its parent
// function. Fails if block does not belong to the currently focused
// function (when one is set). A block not yet attached to any function is
// accepted while no function is focused; the function focus then stays
// unset.
func (b *Builder) SetFocusBlock(block ir.BlockID) error {
	parent := b.Module.Allocs.BlockParent(block)
	if b.fn != 0 && parent != b.fn {
		return ErrFocusInvalid
	}
	b.fn, b.block, b.inst = parent, block, ir.InstID(0)
	return nil
}

// SetFocusInst positions the builder on inst, inferring its parent block
// and function. Fails if inst is in no block, or belongs to a different
// function than the one currently focused; as with SetFocusBlock, a block
// not yet attached to any function is accepted.
func (b *Builder) SetFocusInst(inst ir.InstID) error {
	block := b.Module.Allocs.InstParent(inst)
	if block == ir.BlockID(0) {
		return ErrFocusInvalid
	}
	parent := b.Module.Allocs.BlockParent(block)
	if b.fn != 0 && parent != b.fn {
		return ErrFocusInvalid
	}
	b.fn, b.block, b.inst = parent, block, inst
	return nil
}

// InsertInst splices a non-terminator instruction at the focus. Focused
// on an instruction, it lands immediately after it and the cursor
// advances (focused on the block's terminator, it lands immediately
// before it instead, so the terminator stays last); focused on a block only, it lands before the terminator (or
// before the tail sentinel if none exists yet) for a non-phi, or before
// the phi-end sentinel for a phi.
func (b *Builder) InsertInst(id ir.InstID) error {
	a := b.Module.Allocs
	if a.InstOp(id).IsTerminator() {
		return ErrCannotSplitHere
	}
	if b.block == ir.BlockID(0) {
		return ErrFocusInvalid
	}

	isPhi := a.InstOp(id) == ir.InstPhi

	if b.inst != ir.InstID(0) {
		pivot := b.inst
		pivotIsPhi := a.InstOp(pivot) == ir.InstPhi
		if isPhi && !pivotIsPhi {
			switch b.Degrade {
			case DegradeStrict:
				return ErrFocusDegraded
			case DegradeToBlock:
				pivot = a.BlockPhiEnd(b.block)
				a.InsertInstBefore(b.block, id, pivot)
				b.inst = id
				return nil
			case DegradeIgnore:
			}
		}
		if a.InstOp(pivot).IsTerminator() {
			a.InsertInstBefore(b.block, id, pivot)
			b.inst = id
			return nil
		}
		a.InsertInstAfter(b.block, id, pivot)
		b.inst = id
		return nil
	}

	var pivot ir.InstID
	if isPhi {
		pivot = a.BlockPhiEnd(b.block)
	} else if term := a.BlockTerminator(b.block); term != ir.InstID(0) {
		pivot = term
	} else {
		pivot = a.BlockTail(b.block)
	}
	a.InsertInstBefore(b.block, id, pivot)
	b.inst = id
	return nil
}

// BuildInst runs construct to allocate a new instruction, then inserts it
// at the current focus.
func (b *Builder) BuildInst(construct func(a *ir.Allocs) ir.InstID) (ir.InstID, error) {
	id := construct(b.Module.Allocs)
	if err := b.InsertInst(id); err != nil {
		return id, err
	}
	return id, nil
}

// replaceTerminator disposes the block's current terminator, if it has
// one, and splices newTerm in its place immediately before the tail
// sentinel. BlockTerminator's "whatever precedes the tail" heuristic
// only identifies a real terminator when the block-shape invariant
// holds; SplitBlock calls this after relocating instructions out of the
// block, which can transiently leave a non-terminator immediately
// before the tail, so the op itself is checked before disposing it.
func (b *Builder) replaceTerminator(newTerm ir.InstID) error {
	if b.block == ir.BlockID(0) {
		return ErrFocusInvalid
	}
	a := b.Module.Allocs
	if old := a.BlockTerminator(b.block); old != ir.InstID(0) && a.InstOp(old).IsTerminator() {
		if err := a.DisposeInst(old); err != nil {
			return err
		}
	}
	a.InsertInstBefore(b.block, newTerm, a.BlockTail(b.block))
	b.inst = newTerm
	return nil
}

// FocusSetJumpTo replaces the focused block's terminator with an
// unconditional jump to dest.
func (b *Builder) FocusSetJumpTo(dest ir.BlockID) (ir.InstID, error) {
	a := b.Module.Allocs
	term := a.NewInst(ir.InstJump, nil)
	if _, err := a.AddJumpTarget(term, ir.JumpTargetJump, 0, dest); err != nil {
		return term, err
	}
	return term, b.replaceTerminator(term)
}

// FocusSetBranchTo replaces the focused block's terminator with a
// conditional branch.
func (b *Builder) FocusSetBranchTo(cond ir.Value, thenBB, elseBB ir.BlockID) (ir.InstID, error) {
	a := b.Module.Allocs
	term := a.NewInst(ir.InstBr, nil)
	if _, err := a.AddOperand(term, ir.UseKindBrCond, 0, cond); err != nil {
		return term, err
	}
	if _, err := a.AddJumpTarget(term, ir.JumpTargetBranchThen, 0, thenBB); err != nil {
		return term, err
	}
	if _, err := a.AddJumpTarget(term, ir.JumpTargetBranchElse, 0, elseBB); err != nil {
		return term, err
	}
	return term, b.replaceTerminator(term)
}

// FocusSetSwitchTo replaces the focused block's terminator with a switch
// over discrim, with the given default and ordered case targets.
func (b *Builder) FocusSetSwitchTo(discrim ir.Value, defaultBB ir.BlockID, cases []ir.BlockID) (ir.InstID, error) {
	a := b.Module.Allocs
	term := a.NewInst(ir.InstSwitch, nil)
	if _, err := a.AddOperand(term, ir.UseKindSwitchDiscriminant, 0, discrim); err != nil {
		return term, err
	}
	if _, err := a.AddJumpTarget(term, ir.JumpTargetSwitchDefault, 0, defaultBB); err != nil {
		return term, err
	}
	for i, c := range cases {
		if _, err := a.AddJumpTarget(term, ir.JumpTargetSwitchCase, i, c); err != nil {
			return term, err
		}
	}
	return term, b.replaceTerminator(term)
}

// PushSwitchCase appends one more case to an already-built switch
// terminator, for callers building the case list incrementally.
func (b *Builder) PushSwitchCase(sw ir.InstID, target ir.BlockID) (ir.JumpTargetID, error) {
	a := b.Module.Allocs
	slot := 0
	for _, j := range a.InstJumpTargets(sw) {
		if a.JumpTargetKindOf(j) == ir.JumpTargetSwitchCase {
			slot++
		}
	}
	return a.AddJumpTarget(sw, ir.JumpTargetSwitchCase, slot, target)
}

// SplitBlock splits the focused block at the focused instruction (which
// becomes the first instruction of the new successor; everything before
// it stays behind) or, with no instruction focused, appends a new empty
// successor linked by an unconditional jump. The old terminator (if any
// instructions moved) migrates to the new block; phi incoming-block
// operands in further successors are left unchanged — the caller's
// responsibility.
func (b *Builder) SplitBlock() (ir.BlockID, error) {
	a := b.Module.Allocs
	if b.block == ir.BlockID(0) {
		return ir.BlockID(0), ErrFocusInvalid
	}
	newBlock := a.NewBlock()
	a.InsertBlockAfter(b.fn, b.block, newBlock)

	pivot := b.inst
	if pivot != ir.InstID(0) && a.InstOp(pivot).IsTerminator() {
		pivot = ir.InstID(0)
	}

	if pivot == ir.InstID(0) {
		b.inst = ir.InstID(0)
		if _, err := b.FocusSetJumpTo(newBlock); err != nil {
			return newBlock, err
		}
		b.block, b.inst = newBlock, ir.InstID(0)
		return newBlock, nil
	}

	insts := a.BlockInsts(b.block)
	start := -1
	for i, inst := range insts {
		if inst == pivot {
			start = i
			break
		}
	}
	if start < 0 {
		return newBlock, ErrCannotSplitHere
	}
	moving := insts[start:]

	for _, inst := range moving {
		a.RemoveInst(inst)
	}
	tail := a.BlockTail(newBlock)
	for _, inst := range moving {
		a.InsertInstBefore(newBlock, inst, tail)
	}

	b.inst = ir.InstID(0)
	if _, err := b.FocusSetJumpTo(newBlock); err != nil {
		return newBlock, err
	}

	b.block, b.inst = newBlock, ir.InstID(0)
	return newBlock, nil
}

// BuildAlloca allocates a pointer-typed slot in the current block.
func (b *Builder) BuildAlloca(resultType irtype.Type) (ir.InstID, error) {
	return b.BuildInst(func(a *ir.Allocs) ir.InstID {
		return a.NewInst(ir.InstAlloca, resultType)
	})
}

// BuildLoad reads through ptr, producing resultType.
func (b *Builder) BuildLoad(ptr ir.Value, resultType irtype.Type) (ir.InstID, error) {
	return b.BuildInst(func(a *ir.Allocs) ir.InstID {
		inst := a.NewInst(ir.InstLoad, resultType)
		_, _ = a.AddOperand(inst, ir.UseKindLoadPtr, 0, ptr)
		return inst
	})
}

// BuildStore writes val through ptr. Stores are void.
func (b *Builder) BuildStore(ptr, val ir.Value) (ir.InstID, error) {
	return b.BuildInst(func(a *ir.Allocs) ir.InstID {
		inst := a.NewInst(ir.InstStore, nil)
		_, _ = a.AddOperand(inst, ir.UseKindStorePtr, 0, ptr)
		_, _ = a.AddOperand(inst, ir.UseKindStoreVal, 0, val)
		return inst
	})
}

// BuildBinOp computes lhs kind rhs, producing resultType.
func (b *Builder) BuildBinOp(kind ir.BinOpKind, lhs, rhs ir.Value, resultType irtype.Type) (ir.InstID, error) {
	return b.BuildInst(func(a *ir.Allocs) ir.InstID {
		inst := a.NewInst(ir.InstBinOp, resultType)
		a.SetInstAuxInt(inst, int64(kind))
		_, _ = a.AddOperand(inst, ir.UseKindBinLHS, 0, lhs)
		_, _ = a.AddOperand(inst, ir.UseKindBinRHS, 0, rhs)
		return inst
	})
}

// BuildCast converts operand to resultType.
func (b *Builder) BuildCast(operand ir.Value, resultType irtype.Type) (ir.InstID, error) {
	return b.BuildInst(func(a *ir.Allocs) ir.InstID {
		inst := a.NewInst(ir.InstCast, resultType)
		_, _ = a.AddOperand(inst, ir.UseKindCastOperand, 0, operand)
		return inst
	})
}

// BuildGEP computes a pointer resultType bytes/elements from base, offset by
// indices. indices is usually one entry (an array or pointer step), but the
// instruction carries as many as the caller supplies.
func (b *Builder) BuildGEP(base ir.Value, indices []ir.Value, resultType irtype.Type) (ir.InstID, error) {
	return b.BuildInst(func(a *ir.Allocs) ir.InstID {
		inst := a.NewInst(ir.InstGEP, resultType)
		_, _ = a.AddOperand(inst, ir.UseKindGEPBase, 0, base)
		for i, idx := range indices {
			_, _ = a.AddOperand(inst, ir.UseKindGEPIndex, i, idx)
		}
		return inst
	})
}

// BuildCmp compares lhs kind rhs, producing a boolean result.
func (b *Builder) BuildCmp(kind ir.CmpKind, lhs, rhs ir.Value, resultType irtype.Type) (ir.InstID, error) {
	return b.BuildInst(func(a *ir.Allocs) ir.InstID {
		inst := a.NewInst(ir.InstCmp, resultType)
		a.SetInstAuxInt(inst, int64(kind))
		_, _ = a.AddOperand(inst, ir.UseKindCmpLHS, 0, lhs)
		_, _ = a.AddOperand(inst, ir.UseKindCmpRHS, 0, rhs)
		return inst
	})
}

// BuildCall invokes callee with args, producing resultType (pass nil for
// a void call).
func (b *Builder) BuildCall(callee ir.Value, args []ir.Value, resultType irtype.Type) (ir.InstID, error) {
	return b.BuildInst(func(a *ir.Allocs) ir.InstID {
		inst := a.NewInst(ir.InstCall, resultType)
		_, _ = a.AddOperand(inst, ir.UseKindCallCallee, 0, callee)
		for i, arg := range args {
			_, _ = a.AddOperand(inst, ir.UseKindCallArg, i, arg)
		}
		return inst
	})
}

// BuildPhi allocates an empty phi; use Allocs.AddPhiIncoming to populate
// its incoming pairs afterward.
func (b *Builder) BuildPhi(resultType irtype.Type) (ir.InstID, error) {
	return b.BuildInst(func(a *ir.Allocs) ir.InstID {
		return a.NewInst(ir.InstPhi, resultType)
	})
}

// BuildRet replaces the focused block's terminator with a return. Pass
// ir.None for a void return.
func (b *Builder) BuildRet(val ir.Value) (ir.InstID, error) {
	a := b.Module.Allocs
	term := a.NewInst(ir.InstRet, nil)
	if val.Kind != ir.ValNone {
		if _, err := a.AddOperand(term, ir.UseKindRetVal, 0, val); err != nil {
			return term, err
		}
	}
	return term, b.replaceTerminator(term)
}

// BuildUnreachable replaces the focused block's terminator with an
// unreachable marker.
func (b *Builder) BuildUnreachable() (ir.InstID, error) {
	a := b.Module.Allocs
	term := a.NewInst(ir.InstUnreachable, nil)
	return term, b.replaceTerminator(term)
}
