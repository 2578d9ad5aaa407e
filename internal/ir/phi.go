package ir

// AddPhiIncoming appends an incoming (value, block) pair to a phi
// instruction at the next free index, allocating one Use per half of the
// pair and binding their kinds/slots accordingly.
func (a *Allocs) AddPhiIncoming(inst InstID, value Value, block BlockID) (valUse, blockUse UseID, err error) {
	data := a.Insts.Deref(uint32(inst))
	k := len(data.operands) / 2

	valUse = a.allocUse(instEntity(inst), UseKindPhiIncomingValue, k)
	blockUse = a.allocUse(instEntity(inst), UseKindPhiIncomingBlock, k)
	data.operands = append(data.operands, valUse, blockUse)

	if err = a.SetOperand(valUse, value); err != nil {
		return
	}
	err = a.SetOperand(blockUse, BlockValue(block))
	return
}

func (a *Allocs) PhiIncomingCount(inst InstID) int {
	return len(a.Insts.Deref(uint32(inst)).operands) / 2
}

func (a *Allocs) PhiIncomingValue(inst InstID, k int) Value {
	data := a.Insts.Deref(uint32(inst))
	return a.Operand(data.operands[2*k])
}

func (a *Allocs) PhiIncomingBlock(inst InstID, k int) BlockID {
	data := a.Insts.Deref(uint32(inst))
	v := a.Operand(data.operands[2*k+1])
	return v.Block
}

// RemovePhiIncoming drops the k-th incoming pair via swap-then-pop: the
// last pair (if it isn't the one being removed) is moved into slot k and
// its Uses' slot fields are updated to match.
func (a *Allocs) RemovePhiIncoming(inst InstID, k int) error {
	data := a.Insts.Deref(uint32(inst))
	n := len(data.operands) / 2
	if k < 0 || k >= n {
		return ErrInvariantBroken
	}

	valUse, blockUse := data.operands[2*k], data.operands[2*k+1]
	_ = a.DisposeUse(valUse)
	_ = a.DisposeUse(blockUse)

	last := n - 1
	if k != last {
		movedVal, movedBlock := data.operands[2*last], data.operands[2*last+1]
		a.Uses.Deref(uint32(movedVal)).slot = k
		a.Uses.Deref(uint32(movedBlock)).slot = k
		data.operands[2*k], data.operands[2*k+1] = movedVal, movedBlock
	}
	data.operands = data.operands[:2*last]
	return nil
}
