package irprint

import (
	"strings"
	"testing"

	"github.com/kestrel-ir/kestrel/internal/ir"
	"github.com/kestrel-ir/kestrel/internal/ir/builder"
	"github.com/kestrel-ir/kestrel/internal/irobserv"
	"github.com/kestrel-ir/kestrel/internal/irtype"
)

func TestSprintMaxFunction(t *testing.T) {
	m := ir.NewModule(irobserv.NewTimer())
	i32 := irtype.Typ[irtype.Int]

	fn := m.Allocs.NewGlobalFunction("max", i32, []irtype.Type{i32, i32})
	if err := m.Pin("max", fn); err != nil {
		t.Fatalf("Pin: %v", err)
	}
	m.Allocs.SetFuncArgName(fn, 0, "a")
	m.Allocs.SetFuncArgName(fn, 1, "b")

	entry := m.Allocs.NewBlock()
	thenBB := m.Allocs.NewBlock()
	elseBB := m.Allocs.NewBlock()
	m.Allocs.AppendBlock(fn, entry)
	m.Allocs.AppendBlock(fn, thenBB)
	m.Allocs.AppendBlock(fn, elseBB)

	b := builder.New(m, builder.DegradeToBlock)
	if err := b.SetFocusBlock(entry); err != nil {
		t.Fatalf("SetFocusBlock(entry): %v", err)
	}
	i1 := irtype.Typ[irtype.Bool]
	cmp, err := b.BuildCmp(ir.CmpGt, ir.FuncArgValue(fn, 0), ir.FuncArgValue(fn, 1), i1)
	if err != nil {
		t.Fatalf("BuildCmp: %v", err)
	}
	if _, err := b.FocusSetBranchTo(ir.InstValue(cmp), thenBB, elseBB); err != nil {
		t.Fatalf("FocusSetBranchTo: %v", err)
	}

	if err := b.SetFocusBlock(thenBB); err != nil {
		t.Fatalf("SetFocusBlock(then): %v", err)
	}
	if _, err := b.BuildRet(ir.FuncArgValue(fn, 0)); err != nil {
		t.Fatalf("BuildRet(a): %v", err)
	}

	if err := b.SetFocusBlock(elseBB); err != nil {
		t.Fatalf("SetFocusBlock(else): %v", err)
	}
	if _, err := b.BuildRet(ir.FuncArgValue(fn, 1)); err != nil {
		t.Fatalf("BuildRet(b): %v", err)
	}

	out := Sprint(m)

	for _, want := range []string{
		"func max(a", "b", "(entry)", "cmp", "ret",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Sprint output missing %q, got:\n%s", want, out)
		}
	}
	if strings.Count(out, "b") < 3 {
		t.Errorf("expected at least 3 block labels in output, got:\n%s", out)
	}
}
