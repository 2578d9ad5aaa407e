package irverify

import (
	"testing"

	"github.com/kestrel-ir/kestrel/internal/ir"
	"github.com/kestrel-ir/kestrel/internal/ir/builder"
	"github.com/kestrel-ir/kestrel/internal/irconfig"
	"github.com/kestrel-ir/kestrel/internal/irobserv"
	"github.com/kestrel-ir/kestrel/internal/irtype"
)

func buildSaneModule(t *testing.T) *ir.Module {
	t.Helper()
	m := ir.NewModule(irobserv.NewTimer())
	i32 := irtype.Typ[irtype.Int]
	fn := m.Allocs.NewGlobalFunction("f", i32, nil)
	if err := m.Pin("f", fn); err != nil {
		t.Fatalf("Pin: %v", err)
	}
	entry := m.Allocs.NewBlock()
	m.Allocs.AppendBlock(fn, entry)
	b := builder.New(m, builder.DegradeToBlock)
	if err := b.SetFocusBlock(entry); err != nil {
		t.Fatalf("SetFocusBlock: %v", err)
	}
	if _, err := b.BuildRet(ir.ConstInt(0)); err != nil {
		t.Fatalf("BuildRet: %v", err)
	}
	return m
}

func TestBasicSanityCheckOKOnWellFormedModule(t *testing.T) {
	m := buildSaneModule(t)
	report := BasicSanityCheck(m)
	if !report.OK() {
		for _, d := range report.Diagnostics() {
			t.Logf("diagnostic: %s %s %s", d.Severity, d.Rule, d.Message)
		}
		t.Fatalf("BasicSanityCheck reported violations on a well-formed module")
	}
}

// TestStrictModeReportsNonNilWhenNotStrict and
// TestStrictModePanicsOnInjectedViolation cover the config-driven strict
// mode scenario: the same broken module either panics (Strict=true) or
// returns a non-OK structured report (Strict=false).
func TestStrictModeReportsNonNilWhenNotStrict(t *testing.T) {
	m := buildSaneModule(t)
	// Inject a violation by disconnecting the block's tail sentinel from
	// its terminator, bypassing the builder entirely.
	entry := m.Allocs.FuncBlocks(firstGlobal(m))[0]
	term := m.Allocs.BlockTerminator(entry)
	m.Allocs.RemoveInst(term)

	cfg := irconfig.Default()
	cfg.Strict = false
	report := Verify(m, cfg)
	if report == nil {
		t.Fatal("Verify with Strict=false returned nil report")
	}
	if report.OK() {
		t.Fatal("Verify did not detect the injected violation")
	}
}

func TestStrictModePanicsOnInjectedViolation(t *testing.T) {
	m := buildSaneModule(t)
	entry := m.Allocs.FuncBlocks(firstGlobal(m))[0]
	term := m.Allocs.BlockTerminator(entry)
	m.Allocs.RemoveInst(term)

	cfg := irconfig.Default()
	cfg.Strict = true

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("Verify with Strict=true did not panic on an invariant violation")
		}
	}()
	Verify(m, cfg)
}

func firstGlobal(m *ir.Module) ir.GlobalID {
	var g ir.GlobalID
	m.Symbols.IterPinned(func(_ string, id ir.GlobalID) { g = id })
	return g
}

func hasRule(r *Report, rule string) bool {
	for _, d := range r.Diagnostics() {
		if d.Rule == rule {
			return true
		}
	}
	return false
}

func TestCallArityMismatchDetected(t *testing.T) {
	m := ir.NewModule(irobserv.NewTimer())
	i32 := irtype.Typ[irtype.Int]

	g := m.Allocs.NewGlobalFunction("g", i32, []irtype.Type{i32, i32})
	if err := m.Pin("g", g); err != nil {
		t.Fatalf("Pin g: %v", err)
	}
	gEntry := m.Allocs.NewBlock()
	m.Allocs.AppendBlock(g, gEntry)
	gb := builder.New(m, builder.DegradeToBlock)
	if err := gb.SetFocusBlock(gEntry); err != nil {
		t.Fatalf("SetFocusBlock(g entry): %v", err)
	}
	if _, err := gb.BuildRet(ir.ConstInt(0)); err != nil {
		t.Fatalf("BuildRet: %v", err)
	}

	f := m.Allocs.NewGlobalFunction("f", i32, nil)
	if err := m.Pin("f", f); err != nil {
		t.Fatalf("Pin f: %v", err)
	}
	fEntry := m.Allocs.NewBlock()
	m.Allocs.AppendBlock(f, fEntry)
	fb := builder.New(m, builder.DegradeToBlock)
	if err := fb.SetFocusBlock(fEntry); err != nil {
		t.Fatalf("SetFocusBlock(f entry): %v", err)
	}
	if _, err := fb.BuildCall(ir.GlobalValue(g), []ir.Value{ir.ConstInt(1)}, i32); err != nil {
		t.Fatalf("BuildCall: %v", err)
	}
	if _, err := fb.BuildRet(ir.ConstInt(0)); err != nil {
		t.Fatalf("BuildRet: %v", err)
	}

	report := BasicSanityCheck(m)
	if report.OK() {
		t.Fatal("expected a call-arity violation for a 1-argument call to a 2-parameter function")
	}
	if !hasRule(report, "call-arity") {
		t.Errorf("expected a call-arity diagnostic, got: %v", report.Diagnostics())
	}
}

func TestCmpTypeMismatchDetected(t *testing.T) {
	m := ir.NewModule(irobserv.NewTimer())
	boolT := irtype.Typ[irtype.Bool]
	fn := m.Allocs.NewGlobalFunction("f", boolT, nil)
	if err := m.Pin("f", fn); err != nil {
		t.Fatalf("Pin: %v", err)
	}
	entry := m.Allocs.NewBlock()
	m.Allocs.AppendBlock(fn, entry)
	b := builder.New(m, builder.DegradeToBlock)
	if err := b.SetFocusBlock(entry); err != nil {
		t.Fatalf("SetFocusBlock: %v", err)
	}
	cmp, err := b.BuildCmp(ir.CmpEq, ir.ConstInt(1), ir.ConstFloat(1), boolT)
	if err != nil {
		t.Fatalf("BuildCmp: %v", err)
	}
	if _, err := b.BuildRet(ir.InstValue(cmp)); err != nil {
		t.Fatalf("BuildRet: %v", err)
	}

	report := BasicSanityCheck(m)
	if report.OK() {
		t.Fatal("expected a cmp-type violation comparing an int against a float")
	}
	if !hasRule(report, "cmp-type") {
		t.Errorf("expected a cmp-type diagnostic, got: %v", report.Diagnostics())
	}
}

func TestCastToAggregateDetected(t *testing.T) {
	m := ir.NewModule(irobserv.NewTimer())
	structT := irtype.NewStruct([]*irtype.Field{irtype.NewField("x", irtype.Typ[irtype.Int])})
	fn := m.Allocs.NewGlobalFunction("f", irtype.Typ[irtype.Void], nil)
	if err := m.Pin("f", fn); err != nil {
		t.Fatalf("Pin: %v", err)
	}
	entry := m.Allocs.NewBlock()
	m.Allocs.AppendBlock(fn, entry)
	b := builder.New(m, builder.DegradeToBlock)
	if err := b.SetFocusBlock(entry); err != nil {
		t.Fatalf("SetFocusBlock: %v", err)
	}
	if _, err := b.BuildCast(ir.ConstInt(1), structT); err != nil {
		t.Fatalf("BuildCast: %v", err)
	}
	if _, err := b.BuildRet(ir.None); err != nil {
		t.Fatalf("BuildRet: %v", err)
	}

	report := BasicSanityCheck(m)
	if report.OK() {
		t.Fatal("expected a cast-type violation casting an int directly to a struct")
	}
	if !hasRule(report, "cast-type") {
		t.Errorf("expected a cast-type diagnostic, got: %v", report.Diagnostics())
	}
}

func TestGEPIndexTypeMismatchDetected(t *testing.T) {
	m := ir.NewModule(irobserv.NewTimer())
	i32 := irtype.Typ[irtype.Int]
	ctx := irtype.NewContext(nil)
	ptrT := ctx.InternPointer(i32)

	g := m.Allocs.NewGlobalVariable("g", ptrT)
	if err := m.Pin("g", g); err != nil {
		t.Fatalf("Pin g: %v", err)
	}
	if err := m.Allocs.SetGlobalInit(g, ir.ConstNull()); err != nil {
		t.Fatalf("SetGlobalInit: %v", err)
	}

	fn := m.Allocs.NewGlobalFunction("f", i32, nil)
	if err := m.Pin("f", fn); err != nil {
		t.Fatalf("Pin f: %v", err)
	}
	entry := m.Allocs.NewBlock()
	m.Allocs.AppendBlock(fn, entry)
	b := builder.New(m, builder.DegradeToBlock)
	if err := b.SetFocusBlock(entry); err != nil {
		t.Fatalf("SetFocusBlock: %v", err)
	}
	gep, err := b.BuildGEP(ir.GlobalValue(g), []ir.Value{ir.ConstFloat(2)}, ptrT)
	if err != nil {
		t.Fatalf("BuildGEP: %v", err)
	}
	loaded, err := b.BuildLoad(ir.InstValue(gep), i32)
	if err != nil {
		t.Fatalf("BuildLoad: %v", err)
	}
	if _, err := b.BuildRet(ir.InstValue(loaded)); err != nil {
		t.Fatalf("BuildRet: %v", err)
	}

	report := BasicSanityCheck(m)
	if report.OK() {
		t.Fatal("expected a gep-type violation indexing with a float")
	}
	if !hasRule(report, "gep-type") {
		t.Errorf("expected a gep-type diagnostic, got: %v", report.Diagnostics())
	}
}

func TestPhiCardinalityMismatchDetected(t *testing.T) {
	m := ir.NewModule(irobserv.NewTimer())
	i32 := irtype.Typ[irtype.Int]
	fn := m.Allocs.NewGlobalFunction("f", i32, nil)
	if err := m.Pin("f", fn); err != nil {
		t.Fatalf("Pin: %v", err)
	}

	entry := m.Allocs.NewBlock()
	thenBB := m.Allocs.NewBlock()
	elseBB := m.Allocs.NewBlock()
	merge := m.Allocs.NewBlock()
	m.Allocs.AppendBlock(fn, entry)
	m.Allocs.AppendBlock(fn, thenBB)
	m.Allocs.AppendBlock(fn, elseBB)
	m.Allocs.AppendBlock(fn, merge)

	b := builder.New(m, builder.DegradeToBlock)
	if err := b.SetFocusBlock(entry); err != nil {
		t.Fatalf("SetFocusBlock(entry): %v", err)
	}
	if _, err := b.FocusSetBranchTo(ir.ConstBool(true), thenBB, elseBB); err != nil {
		t.Fatalf("FocusSetBranchTo: %v", err)
	}

	if err := b.SetFocusBlock(thenBB); err != nil {
		t.Fatalf("SetFocusBlock(then): %v", err)
	}
	if _, err := b.FocusSetJumpTo(merge); err != nil {
		t.Fatalf("FocusSetJumpTo(then): %v", err)
	}

	if err := b.SetFocusBlock(elseBB); err != nil {
		t.Fatalf("SetFocusBlock(else): %v", err)
	}
	if _, err := b.FocusSetJumpTo(merge); err != nil {
		t.Fatalf("FocusSetJumpTo(else): %v", err)
	}

	if err := b.SetFocusBlock(merge); err != nil {
		t.Fatalf("SetFocusBlock(merge): %v", err)
	}
	phi, err := b.BuildPhi(i32)
	if err != nil {
		t.Fatalf("BuildPhi: %v", err)
	}
	// merge has two predecessors; only wire up one incoming pair.
	if _, _, err := m.Allocs.AddPhiIncoming(phi, ir.ConstInt(1), thenBB); err != nil {
		t.Fatalf("AddPhiIncoming: %v", err)
	}
	if _, err := b.BuildRet(ir.InstValue(phi)); err != nil {
		t.Fatalf("BuildRet: %v", err)
	}

	report := BasicSanityCheck(m)
	if report.OK() {
		t.Fatal("expected a phi-cardinality violation for a two-predecessor block with one incoming pair")
	}
	if !hasRule(report, "phi-cardinality") {
		t.Errorf("expected a phi-cardinality diagnostic, got: %v", report.Diagnostics())
	}
}

func TestSymbolTableConsistencyDetectsUnpinnedBinding(t *testing.T) {
	m := ir.NewModule(irobserv.NewTimer())
	i32 := irtype.Typ[irtype.Int]
	fn := m.Allocs.NewGlobalFunction("f", i32, nil)
	if err := m.Pin("f", fn); err != nil {
		t.Fatalf("Pin: %v", err)
	}
	entry := m.Allocs.NewBlock()
	m.Allocs.AppendBlock(fn, entry)
	b := builder.New(m, builder.DegradeToBlock)
	if err := b.SetFocusBlock(entry); err != nil {
		t.Fatalf("SetFocusBlock: %v", err)
	}
	if _, err := b.BuildRet(ir.ConstInt(0)); err != nil {
		t.Fatalf("BuildRet: %v", err)
	}

	// Clear the pinned flag directly, bypassing Unpin, so the symbol table
	// still resolves "f" to a global that no longer considers itself pinned.
	m.Allocs.SetGlobalPinned(fn, false)

	report := BasicSanityCheck(m)
	if report.OK() {
		t.Fatal("expected a symtab violation for a pinned name resolving to an unpinned global")
	}
	if !hasRule(report, "symtab") {
		t.Errorf("expected a symtab diagnostic, got: %v", report.Diagnostics())
	}
}
