// Package irverify implements the module's sanity-checking API: a
// debug-only panic-on-violation assertion and a structured report form,
// checking the same invariant set either way — use-ring membership and
// back-pointers (U1-U3), predecessor-ring membership and back-pointers
// (J1-J2), block shape (B1-B2), symbol-table consistency, phi-incoming
// cardinality, call-site arity, and a handful of per-opcode type rules
// (GEP index, cast, cmp).
package irverify

import (
	"fmt"

	"github.com/kestrel-ir/kestrel/internal/ir"
	"github.com/kestrel-ir/kestrel/internal/irconfig"
	"github.com/kestrel-ir/kestrel/internal/irobserv"
	"github.com/kestrel-ir/kestrel/internal/irtype"
)

// Report is the structured result of BasicSanityCheck.
type Report struct {
	bag *irobserv.Bag
}

func (r *Report) OK() bool { return !r.bag.HasErrors() }

func (r *Report) Diagnostics() []irobserv.Diagnostic { return r.bag.Items() }

func (r *Report) Error() string {
	if r.OK() {
		return ""
	}
	return fmt.Sprintf("ir: module sanity check found %d problem(s)", r.bag.Len())
}

// AssertModuleSane panics on the first invariant violation found. It is a
// debug aid, grounded on teacher's verify.go checker but made fail-fast
// rather than error-returning, for use in tests and assertions gated by
// irconfig.Config.Strict.
func AssertModuleSane(m *ir.Module) {
	report := BasicSanityCheck(m)
	if !report.OK() {
		panic(report.Error() + ": " + firstMessage(report))
	}
}

// Verify checks m per cfg.Strict: when Strict, it panics on the first
// violation via AssertModuleSane and returns nil; otherwise it returns
// BasicSanityCheck's structured report and never panics.
func Verify(m *ir.Module, cfg irconfig.Config) *Report {
	if cfg.Strict {
		AssertModuleSane(m)
		return nil
	}
	return BasicSanityCheck(m)
}

func firstMessage(r *Report) string {
	items := r.Diagnostics()
	if len(items) == 0 {
		return ""
	}
	return items[0].Message
}

// BasicSanityCheck walks every global reachable through the symbol table
// and every block/instruction it owns, checking every invariant named in
// the package doc, and returns every violation found rather than stopping
// at the first.
func BasicSanityCheck(m *ir.Module) *Report {
	bag := irobserv.NewBag(256)
	a := m.Allocs

	checkDisposedUseInvariant(a, bag) // U3

	m.Symbols.IterPinned(func(name string, g ir.GlobalID) {
		checkSymbolTable(a, bag, name, g)
		checkGlobal(a, bag, name, g)
	})

	return &Report{bag: bag}
}

// checkSymbolTable confirms a pinned binding agrees with the global's own
// bookkeeping: the global must consider itself pinned, and must not have
// been disposed out from under the name that still resolves to it.
func checkSymbolTable(a *ir.Allocs, bag *irobserv.Bag, name string, g ir.GlobalID) {
	if !a.GlobalPinned(g) {
		bag.Add(irobserv.Diagnostic{
			Severity: irobserv.SevError,
			Rule:     "symtab",
			Message:  fmt.Sprintf("symbol %q resolves to global#%d which does not consider itself pinned", name, g),
			Entity:   fmt.Sprintf("global#%d", g),
		})
	}
	if a.Globals.IsDisposed(uint32(g)) {
		bag.Add(irobserv.Diagnostic{
			Severity: irobserv.SevError,
			Rule:     "symtab",
			Message:  fmt.Sprintf("symbol %q resolves to disposed global#%d", name, g),
			Entity:   fmt.Sprintf("global#%d", g),
		})
	}
}

func checkGlobal(a *ir.Allocs, bag *irobserv.Bag, name string, g ir.GlobalID) {
	switch a.GlobalKindOf(g) {
	case ir.GlobalVariable:
		if init := a.GlobalInitUse(g); init.Valid() {
			checkUse(a, bag, name, ir.EntityID{Class: ir.ClassGlobal, Index: uint32(g)}, init)
		}
		return
	case ir.GlobalFunction:
		blocks := a.FuncBlocks(g)
		for i, b := range blocks {
			if a.BlockParent(b) != g {
				bag.Add(irobserv.Diagnostic{
					Severity: irobserv.SevError,
					Rule:     "B2",
					Message:  fmt.Sprintf("block %s in function %q has parent != function", b, name),
					Entity:   fmt.Sprintf("block#%d", b),
				})
			}
			if i == 0 && b != a.FuncEntry(g) {
				bag.Add(irobserv.Diagnostic{
					Severity: irobserv.SevError,
					Rule:     "F1",
					Message:  fmt.Sprintf("function %q entry is not block-chain position 0", name),
				})
			}
			checkBlockShape(a, bag, name, b)
		}
	}
}

func checkBlockShape(a *ir.Allocs, bag *irobserv.Bag, fnName string, b ir.BlockID) {
	insts := a.BlockAllInsts(b)
	if len(insts) < 3 {
		bag.Add(irobserv.Diagnostic{
			Severity: irobserv.SevError,
			Rule:     "B1",
			Message:  fmt.Sprintf("block %s in %q is missing its sentinel shape", b, fnName),
		})
		return
	}
	head, tail := insts[0], insts[len(insts)-1]
	if head != a.BlockHead(b) || a.InstOp(head) != ir.InstSentinelHead {
		bag.Add(irobserv.Diagnostic{Severity: irobserv.SevError, Rule: "B1", Message: fmt.Sprintf("block %s head is not a head sentinel", b)})
	}
	if tail != a.BlockTail(b) || a.InstOp(tail) != ir.InstSentinelTail {
		bag.Add(irobserv.Diagnostic{Severity: irobserv.SevError, Rule: "B1", Message: fmt.Sprintf("block %s tail is not a tail sentinel", b)})
	}

	terminators := 0
	sawPhiEnd := false
	for _, inst := range insts[1 : len(insts)-1] {
		op := a.InstOp(inst)
		if op == ir.InstPhiEnd {
			sawPhiEnd = true
			continue
		}
		if op == ir.InstPhi {
			if sawPhiEnd {
				bag.Add(irobserv.Diagnostic{Severity: irobserv.SevError, Rule: "B1", Message: fmt.Sprintf("phi %s in block %s appears after phi-end", inst, b)})
			}
		} else if !sawPhiEnd {
			bag.Add(irobserv.Diagnostic{Severity: irobserv.SevError, Rule: "B1", Message: fmt.Sprintf("non-phi instruction %s in block %s appears before phi-end", inst, b)})
		}
		if op.IsTerminator() {
			terminators++
		}
		if a.InstParent(inst) != b {
			bag.Add(irobserv.Diagnostic{Severity: irobserv.SevError, Rule: "B2", Message: fmt.Sprintf("instruction %s parent != block %s", inst, b)})
		}

		checkInstOperands(a, bag, fnName, inst)
		switch op {
		case ir.InstPhi:
			checkPhiCardinality(a, bag, fnName, b, inst)
		case ir.InstCall:
			checkCallArity(a, bag, fnName, inst)
		case ir.InstGEP:
			checkGEPType(a, bag, fnName, inst)
		case ir.InstCast:
			checkCastType(a, bag, fnName, inst)
		case ir.InstCmp:
			checkCmpType(a, bag, fnName, inst)
		}
		if op.IsTerminator() {
			checkJumpTargets(a, bag, fnName, inst)
		}
	}
	if terminators != 1 {
		bag.Add(irobserv.Diagnostic{
			Severity: irobserv.SevError,
			Rule:     "B1",
			Message:  fmt.Sprintf("block %s has %d terminators, want exactly 1", b, terminators),
		})
	} else {
		term := insts[len(insts)-2]
		if !a.InstOp(term).IsTerminator() {
			bag.Add(irobserv.Diagnostic{
				Severity: irobserv.SevError,
				Rule:     "B1",
				Message:  fmt.Sprintf("block %s terminator is not immediately before the tail sentinel", b),
			})
		}
	}
}

// checkInstOperands walks every Use inst owns as an operand, checking U1
// and U2 for each, and recursing into any operand that is itself a
// constant expression so its own operand Uses get the same treatment.
func checkInstOperands(a *ir.Allocs, bag *irobserv.Bag, fnName string, inst ir.InstID) {
	owner := ir.EntityID{Class: ir.ClassInst, Index: uint32(inst)}
	for _, u := range a.InstOperands(inst) {
		checkUse(a, bag, fnName, owner, u)
	}
}

// checkUse is U1 (the operand's Value must carry u in its user-ring, if
// traceable) and U2 (u's own back-pointer must name owner) for one Use.
func checkUse(a *ir.Allocs, bag *irobserv.Bag, fnName string, owner ir.EntityID, u ir.UseID) {
	if !a.Uses.IsLive(uint32(u)) {
		bag.Add(irobserv.Diagnostic{
			Severity: irobserv.SevError,
			Rule:     "U1",
			Message:  fmt.Sprintf("%s in %q references disposed use %s", owner, fnName, u),
			Entity:   fmt.Sprintf("use#%d", u),
		})
		return
	}
	if got := a.UseOwner(u); got != owner {
		bag.Add(irobserv.Diagnostic{
			Severity: irobserv.SevError,
			Rule:     "U2",
			Message:  fmt.Sprintf("use %s back-pointer is %s, want owner %s", u, got, owner),
			Entity:   fmt.Sprintf("use#%d", u),
		})
	}

	v := a.Operand(u)
	if v.Traceable() {
		if !containsUse(a.UserRingUseIDs(v), u) {
			bag.Add(irobserv.Diagnostic{
				Severity: irobserv.SevError,
				Rule:     "U1",
				Message:  fmt.Sprintf("use %s points at %s but is absent from its user-ring", u, v),
				Entity:   fmt.Sprintf("use#%d", u),
			})
		}
	}

	if v.Kind == ir.ValConstExpr {
		checkExprOperands(a, bag, fnName, v.Expr)
	}
}

func checkExprOperands(a *ir.Allocs, bag *irobserv.Bag, fnName string, expr ir.ExprID) {
	owner := ir.EntityID{Class: ir.ClassExpr, Index: uint32(expr)}
	for _, u := range a.ExprOperands(expr) {
		checkUse(a, bag, fnName, owner, u)
	}
}

func containsUse(ids []ir.UseID, want ir.UseID) bool {
	for _, id := range ids {
		if id == want {
			return true
		}
	}
	return false
}

// checkDisposedUseInvariant is U3: a disposed Use must carry no operand and
// no owner, checked directly against the raw pool rather than through any
// owner's operand list (a disposed Use, by construction, is in no such
// list any more).
func checkDisposedUseInvariant(a *ir.Allocs, bag *irobserv.Bag) {
	for i := uint32(1); i <= uint32(a.Uses.Cap()); i++ {
		if !a.Uses.IsDisposed(i) {
			continue
		}
		u := ir.UseID(i)
		if op := a.Operand(u); op.Kind != ir.ValNone {
			bag.Add(irobserv.Diagnostic{
				Severity: irobserv.SevError,
				Rule:     "U3",
				Message:  fmt.Sprintf("disposed use %s still carries operand %s", u, op),
				Entity:   fmt.Sprintf("use#%d", u),
			})
		}
		if owner := a.UseOwner(u); owner.Valid() {
			bag.Add(irobserv.Diagnostic{
				Severity: irobserv.SevError,
				Rule:     "U3",
				Message:  fmt.Sprintf("disposed use %s still carries owner %s", u, owner),
				Entity:   fmt.Sprintf("use#%d", u),
			})
		}
	}
}

// checkJumpTargets is J1 (pred-ring membership) and J2 (back-pointer) for
// every edge a terminator owns.
func checkJumpTargets(a *ir.Allocs, bag *irobserv.Bag, fnName string, term ir.InstID) {
	for _, j := range a.InstJumpTargets(term) {
		if got := a.JumpTargetTerminator(j); got != term {
			bag.Add(irobserv.Diagnostic{
				Severity: irobserv.SevError,
				Rule:     "J2",
				Message:  fmt.Sprintf("jump target %s back-pointer is inst %s, want terminator %s", j, got, term),
				Entity:   fmt.Sprintf("jumptarget#%d", j),
			})
		}
		dest := a.JumpTargetBlock(j)
		if !dest.Valid() {
			continue
		}
		if !containsJumpTarget(a.PredRingEdges(dest), j) {
			bag.Add(irobserv.Diagnostic{
				Severity: irobserv.SevError,
				Rule:     "J1",
				Message:  fmt.Sprintf("jump target %s targets block %s but is absent from its predecessor ring", j, dest),
				Entity:   fmt.Sprintf("jumptarget#%d", j),
			})
		}
	}
}

func containsJumpTarget(ids []ir.JumpTargetID, want ir.JumpTargetID) bool {
	for _, id := range ids {
		if id == want {
			return true
		}
	}
	return false
}

// checkPhiCardinality confirms a phi carries exactly one incoming pair per
// predecessor edge, and that every incoming block it names is an actual
// predecessor rather than a stale or fabricated one.
func checkPhiCardinality(a *ir.Allocs, bag *irobserv.Bag, fnName string, b ir.BlockID, phi ir.InstID) {
	want := a.PredRingLen(b)
	got := a.PhiIncomingCount(phi)
	if got != want {
		bag.Add(irobserv.Diagnostic{
			Severity: irobserv.SevError,
			Rule:     "phi-cardinality",
			Message:  fmt.Sprintf("phi %s in block %s has %d incoming pair(s), block has %d predecessor(s)", phi, b, got, want),
			Entity:   fmt.Sprintf("inst#%d", phi),
		})
	}

	preds := make(map[ir.BlockID]bool, want)
	for _, j := range a.PredRingEdges(b) {
		term := a.JumpTargetTerminator(j)
		preds[a.InstParent(term)] = true
	}
	for k := 0; k < got; k++ {
		blk := a.PhiIncomingBlock(phi, k)
		if !preds[blk] {
			bag.Add(irobserv.Diagnostic{
				Severity: irobserv.SevError,
				Rule:     "phi-cardinality",
				Message:  fmt.Sprintf("phi %s incoming pair %d names block %s, which is not a predecessor of %s", phi, k, blk, b),
				Entity:   fmt.Sprintf("inst#%d", phi),
			})
		}
	}
}

// checkCallArity confirms a direct call's argument-use count matches its
// callee's declared parameter count. An indirect call (callee not a known
// function global) has no statically known arity and is left unchecked.
func checkCallArity(a *ir.Allocs, bag *irobserv.Bag, fnName string, call ir.InstID) {
	var callee ir.Value
	argCount := 0
	for _, u := range a.InstOperands(call) {
		switch a.UseKindOf(u) {
		case ir.UseKindCallCallee:
			callee = a.Operand(u)
		case ir.UseKindCallArg:
			argCount++
		}
	}
	if callee.Kind != ir.ValGlobal || a.GlobalKindOf(callee.Global) != ir.GlobalFunction {
		return
	}
	want := a.FuncArgCount(callee.Global)
	if argCount != want {
		bag.Add(irobserv.Diagnostic{
			Severity: irobserv.SevError,
			Rule:     "call-arity",
			Message:  fmt.Sprintf("call %s passes %d argument(s) to %q, want %d", call, argCount, a.GlobalName(callee.Global), want),
			Entity:   fmt.Sprintf("inst#%d", call),
		})
	}
}

// checkGEPType is the GEP index type walk: the base operand must classify
// as a pointer or array, and every index operand must classify as an int.
func checkGEPType(a *ir.Allocs, bag *irobserv.Bag, fnName string, inst ir.InstID) {
	for _, u := range a.InstOperands(inst) {
		switch a.UseKindOf(u) {
		case ir.UseKindGEPBase:
			t, ok := a.ValueType(a.Operand(u))
			if !ok {
				continue
			}
			switch irtype.Classify(t) {
			case irtype.KindPointer, irtype.KindArray:
			default:
				bag.Add(irobserv.Diagnostic{
					Severity: irobserv.SevError,
					Rule:     "gep-type",
					Message:  fmt.Sprintf("gep %s base has type %s, want pointer or array", inst, t),
					Entity:   fmt.Sprintf("inst#%d", inst),
				})
			}
		case ir.UseKindGEPIndex:
			t, ok := a.ValueType(a.Operand(u))
			if !ok {
				continue
			}
			if irtype.Classify(t) != irtype.KindInt {
				bag.Add(irobserv.Diagnostic{
					Severity: irobserv.SevError,
					Rule:     "gep-type",
					Message:  fmt.Sprintf("gep %s index has type %s, want int", inst, t),
					Entity:   fmt.Sprintf("inst#%d", inst),
				})
			}
		}
	}
}

// checkCastType is the cast kind rule: a cast operates on scalars and
// pointers, never directly on an aggregate, and neither side may be void.
// It does not compare operand and result widths or the direction of the
// conversion.
func checkCastType(a *ir.Allocs, bag *irobserv.Bag, fnName string, inst ir.InstID) {
	resultType := a.InstType(inst)
	var operandType irtype.Type
	for _, u := range a.InstOperands(inst) {
		if a.UseKindOf(u) == ir.UseKindCastOperand {
			operandType, _ = a.ValueType(a.Operand(u))
		}
	}
	if resultType == nil || operandType == nil {
		return
	}
	if rk, bad := badCastKind(irtype.Classify(resultType)); bad {
		bag.Add(irobserv.Diagnostic{
			Severity: irobserv.SevError,
			Rule:     "cast-type",
			Message:  fmt.Sprintf("cast %s targets %s, a %s type; cast can only produce a scalar or pointer", inst, resultType, rk),
			Entity:   fmt.Sprintf("inst#%d", inst),
		})
	}
	if ok, bad := badCastKind(irtype.Classify(operandType)); bad {
		bag.Add(irobserv.Diagnostic{
			Severity: irobserv.SevError,
			Rule:     "cast-type",
			Message:  fmt.Sprintf("cast %s operand has type %s, a %s type; cast can only source a scalar or pointer", inst, operandType, ok),
			Entity:   fmt.Sprintf("inst#%d", inst),
		})
	}
}

func badCastKind(k irtype.Classification) (irtype.Classification, bool) {
	switch k {
	case irtype.KindVoid, irtype.KindStruct, irtype.KindArray, irtype.KindVector, irtype.KindInvalid:
		return k, true
	default:
		return k, false
	}
}

// checkCmpType is the cmp type rule: both sides of a comparison must carry
// identical types.
func checkCmpType(a *ir.Allocs, bag *irobserv.Bag, fnName string, inst ir.InstID) {
	var lhs, rhs irtype.Type
	for _, u := range a.InstOperands(inst) {
		switch a.UseKindOf(u) {
		case ir.UseKindCmpLHS:
			lhs, _ = a.ValueType(a.Operand(u))
		case ir.UseKindCmpRHS:
			rhs, _ = a.ValueType(a.Operand(u))
		}
	}
	if lhs == nil || rhs == nil {
		return
	}
	if !irtype.Identical(lhs, rhs) {
		bag.Add(irobserv.Diagnostic{
			Severity: irobserv.SevError,
			Rule:     "cmp-type",
			Message:  fmt.Sprintf("cmp %s operands have mismatched types: %s vs %s", inst, lhs, rhs),
			Entity:   fmt.Sprintf("inst#%d", inst),
		})
	}
}
