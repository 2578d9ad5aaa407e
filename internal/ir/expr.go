package ir

import "github.com/kestrel-ir/kestrel/internal/irtype"

// exprData is the ConstExpr entity: a folded constant computation (e.g. a
// GEP over a global's address taken at compile time). It is a User and a
// traceable Value, same as Inst, but owns no block placement or
// JumpTargets.
type exprData struct {
	op       ExprOp
	operands []UseID
	userRing UseID
	typ      irtype.Type
	auxInt   int64
	aux      any
}

// NewExpr allocates a ConstExpr entity and its own user-ring sentinel.
func (a *Allocs) NewExpr(op ExprOp, typ irtype.Type) ExprID {
	id := ExprID(a.Exprs.Allocate(exprData{op: op, typ: typ}))
	data := a.Exprs.Deref(uint32(id))
	data.userRing = a.newUserRingSentinel(ExprValue(id))
	return id
}

// AddExprOperand allocates a Use owned by expr at the given slot and
// binds it to value.
func (a *Allocs) AddExprOperand(expr ExprID, kind UseKind, slot int, value Value) (UseID, error) {
	u := a.allocUse(exprEntity(expr), kind, slot)
	data := a.Exprs.Deref(uint32(expr))
	data.operands = append(data.operands, u)
	if err := a.SetOperand(u, value); err != nil {
		return u, err
	}
	return u, nil
}

func (a *Allocs) ExprOp(id ExprID) ExprOp         { return a.Exprs.Deref(uint32(id)).op }
func (a *Allocs) ExprType(id ExprID) irtype.Type   { return a.Exprs.Deref(uint32(id)).typ }
func (a *Allocs) ExprOperands(id ExprID) []UseID   { return a.Exprs.Deref(uint32(id)).operands }
func (a *Allocs) ExprUserRing(id ExprID) UseID      { return a.Exprs.Deref(uint32(id)).userRing }
func (a *Allocs) ExprAuxInt(id ExprID) int64       { return a.Exprs.Deref(uint32(id)).auxInt }
func (a *Allocs) SetExprAuxInt(id ExprID, v int64) { a.Exprs.Deref(uint32(id)).auxInt = v }

// DisposeExpr disposes every Use expr owns, its own user-ring sentinel,
// and queues expr's slot for reclamation.
func (a *Allocs) DisposeExpr(id ExprID) error {
	data := a.Exprs.Deref(uint32(id))
	if a.Exprs.IsDisposed(uint32(id)) {
		return ErrAlreadyDisposed
	}
	for _, u := range data.operands {
		_ = a.DisposeUse(u)
	}
	if data.userRing != 0 {
		_ = a.DisposeUse(data.userRing)
	}
	a.Exprs.MarkDisposed(uint32(id))
	a.disposal.Push(exprEntity(id))
	return nil
}
