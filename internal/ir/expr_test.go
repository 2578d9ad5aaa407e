package ir

import "testing"

func TestExprOperandsAttachAndDispose(t *testing.T) {
	a := NewAllocs()
	g := a.NewGlobalVariable("base", nil)

	gep := a.NewExpr(ExprGEP, nil)
	baseUse, err := a.AddExprOperand(gep, UseKindGEPBase, 0, GlobalValue(g))
	if err != nil {
		t.Fatalf("AddExprOperand(base): %v", err)
	}
	idxUse, err := a.AddExprOperand(gep, UseKindGEPIndex, 0, ConstInt(4))
	if err != nil {
		t.Fatalf("AddExprOperand(index): %v", err)
	}

	if got := a.ExprOperands(gep); len(got) != 2 || got[0] != baseUse || got[1] != idxUse {
		t.Fatalf("ExprOperands(gep) = %v, want [%v %v]", got, baseUse, idxUse)
	}
	if got := a.Operand(baseUse); got.Kind != ValGlobal || got.Global != g {
		t.Errorf("Operand(baseUse) = %+v, want global %v", got, g)
	}

	// base's user-ring should now report the GEP as a user.
	if got := a.UserRingLen(GlobalValue(g)); got != 1 {
		t.Errorf("UserRingLen(base) = %d, want 1", got)
	}

	if err := a.DisposeExpr(gep); err != nil {
		t.Fatalf("DisposeExpr: %v", err)
	}
	if err := a.DisposeExpr(gep); err != ErrAlreadyDisposed {
		t.Errorf("second DisposeExpr = %v, want ErrAlreadyDisposed", err)
	}

	if got := a.UserRingLen(GlobalValue(g)); got != 0 {
		t.Errorf("UserRingLen(base) after DisposeExpr = %d, want 0", got)
	}
}
