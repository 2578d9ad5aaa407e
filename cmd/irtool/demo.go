package main

import (
	"fmt"

	"github.com/kestrel-ir/kestrel/internal/ir"
	"github.com/kestrel-ir/kestrel/internal/ir/builder"
	"github.com/kestrel-ir/kestrel/internal/irconfig"
	"github.com/kestrel-ir/kestrel/internal/irtype"
	"github.com/kestrel-ir/kestrel/internal/irobserv"
	"github.com/spf13/cobra"
)

// loadConfig reads --config if given, otherwise returns the baked-in
// defaults with --strict layered on top.
func loadConfig(cmd *cobra.Command) (irconfig.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg := irconfig.Default()
	if path != "" {
		loaded, err := irconfig.Load(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if strict, _ := cmd.Flags().GetBool("strict"); strict {
		cfg.Strict = true
	}
	return cfg, nil
}

// buildMaxDemo builds the max(a,b) scenario from an unmet design need for
// a worked example: a function comparing its two i32 arguments and
// returning the greater, plus an unreferenced helper function "g" left
// unpinned so GC subcommands have something to reclaim.
func buildMaxDemo(m *ir.Module) (ir.GlobalID, error) {
	i32 := irtype.Typ[irtype.Int]

	fn := m.Allocs.NewGlobalFunction("max", i32, []irtype.Type{i32, i32})
	m.Allocs.SetFuncArgName(fn, 0, "a")
	m.Allocs.SetFuncArgName(fn, 1, "b")
	if err := m.Pin("max", fn); err != nil {
		return fn, err
	}

	entry := m.Allocs.NewBlock()
	m.Allocs.AppendBlock(fn, entry)
	thenBB := m.Allocs.NewBlock()
	m.Allocs.AppendBlock(fn, thenBB)
	elseBB := m.Allocs.NewBlock()
	m.Allocs.AppendBlock(fn, elseBB)

	b := builder.New(m, builder.DegradeToBlock)
	if err := b.SetFocusBlock(entry); err != nil {
		return fn, err
	}

	a0 := ir.FuncArgValue(fn, 0)
	a1 := ir.FuncArgValue(fn, 1)

	cmp, err := b.BuildCmp(ir.CmpGt, a0, a1, irtype.Typ[irtype.Bool])
	if err != nil {
		return fn, err
	}
	if _, err := b.FocusSetBranchTo(ir.InstValue(cmp), thenBB, elseBB); err != nil {
		return fn, err
	}

	if err := b.SetFocusBlock(thenBB); err != nil {
		return fn, err
	}
	if _, err := b.BuildRet(a0); err != nil {
		return fn, err
	}

	if err := b.SetFocusBlock(elseBB); err != nil {
		return fn, err
	}
	if _, err := b.BuildRet(a1); err != nil {
		return fn, err
	}

	helper := m.Allocs.NewGlobalFunction("g", i32, nil)
	helperEntry := m.Allocs.NewBlock()
	m.Allocs.AppendBlock(helper, helperEntry)
	hb := builder.New(m, builder.DegradeToBlock)
	if err := hb.SetFocusBlock(helperEntry); err != nil {
		return fn, err
	}
	if _, err := hb.BuildRet(ir.ConstInt(0)); err != nil {
		return fn, err
	}

	return fn, nil
}

func newTimedModule(cfg irconfig.Config) *ir.Module {
	return ir.NewModuleWithConfig(cfg, irobserv.NewTimer())
}
