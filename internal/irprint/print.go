// Package irprint implements a minimal textual dump of a module,
// readable enough for debugging and for the demo CLI's dump subcommand.
// It is not the cross-validation writer a full LLVM-textual-IR emitter
// would be: no value numbering scheme stability guarantee, no attempt at
// syntactic validity against any external assembler.
package irprint

import (
	"fmt"
	"io"
	"strings"

	"github.com/kestrel-ir/kestrel/internal/ir"
)

// Fprint writes every pinned global in m to w, sorted by symbol name (the
// casefolded key the symbol table stores), so the output order is stable.
func Fprint(w io.Writer, m *ir.Module) {
	names := make([]string, 0, m.Symbols.Len())
	m.Symbols.IterPinned(func(name string, _ ir.GlobalID) {
		names = append(names, name)
	})
	sortStrings(names)

	for i, name := range names {
		g, _ := m.Symbols.Lookup(name)
		if i > 0 {
			fmt.Fprintln(w)
		}
		fprintGlobal(w, m.Allocs, name, g)
	}
}

// Sprint returns Fprint's output as a string.
func Sprint(m *ir.Module) string {
	var sb strings.Builder
	Fprint(&sb, m)
	return sb.String()
}

func fprintGlobal(w io.Writer, a *ir.Allocs, name string, g ir.GlobalID) {
	switch a.GlobalKindOf(g) {
	case ir.GlobalVariable:
		fmt.Fprintf(w, "global %s %s = %s\n", a.GlobalType(g), name, a.GlobalInit(g))
	case ir.GlobalFunction:
		fprintFunc(w, a, name, g)
	}
}

func fprintFunc(w io.Writer, a *ir.Allocs, name string, g ir.GlobalID) {
	fmt.Fprintf(w, "func %s(", name)
	for i := 0; i < a.FuncArgCount(g); i++ {
		if i > 0 {
			fmt.Fprint(w, ", ")
		}
		argName := a.FuncArgName(g, i)
		if argName == "" {
			argName = fmt.Sprintf("arg%d", i)
		}
		fmt.Fprintf(w, "%s %s", argName, a.FuncArgType(g, i))
	}
	fmt.Fprintf(w, ") %s:\n", a.GlobalType(g))

	for _, b := range a.FuncBlocks(g) {
		fprintBlock(w, a, b, a.FuncEntry(g))
	}
}

func fprintBlock(w io.Writer, a *ir.Allocs, b, entry ir.BlockID) {
	label := ""
	if b == entry {
		label = " (entry)"
	}
	preds := a.PredRingEdges(b)
	predsStr := ""
	if len(preds) > 0 {
		var names []string
		for _, j := range preds {
			term := a.JumpTargetTerminator(j)
			names = append(names, fmt.Sprintf("b%d", a.InstParent(term)))
		}
		predsStr = " <- " + strings.Join(names, " ")
	}
	fmt.Fprintf(w, "  b%d:%s%s\n", b, label, predsStr)

	for _, inst := range a.BlockInsts(b) {
		fmt.Fprintf(w, "    %s\n", formatInst(a, inst))
	}
}

func formatInst(a *ir.Allocs, inst ir.InstID) string {
	var sb strings.Builder
	op := a.InstOp(inst)

	if !op.IsVoid() {
		fmt.Fprintf(&sb, "%%%d = %s", inst, op)
	} else {
		sb.WriteString(op.String())
	}
	if t := a.InstType(inst); t != nil {
		fmt.Fprintf(&sb, " <%s>", t)
	}

	switch op {
	case ir.InstBinOp:
		fmt.Fprintf(&sb, " [%s]", ir.BinOpKind(a.InstAuxInt(inst)))
	case ir.InstCmp:
		fmt.Fprintf(&sb, " [%s]", ir.CmpKind(a.InstAuxInt(inst)))
	}

	if op == ir.InstPhi {
		for k := 0; k < a.PhiIncomingCount(inst); k++ {
			fmt.Fprintf(&sb, " [%s, b%d]", a.PhiIncomingValue(inst, k), a.PhiIncomingBlock(inst, k))
		}
	} else {
		for _, u := range a.InstOperands(inst) {
			fmt.Fprintf(&sb, " %s", a.Operand(u))
		}
	}

	for _, j := range a.InstJumpTargets(inst) {
		fmt.Fprintf(&sb, " -> b%d", a.JumpTargetBlock(j))
	}

	return sb.String()
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
