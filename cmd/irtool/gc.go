package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kestrel-ir/kestrel/internal/ir/gc"
)

var gcVerbose bool

func init() {
	gcCmd.Flags().BoolVar(&gcVerbose, "verbose", false, "print the timer report alongside the stats")
}

var gcCmd = &cobra.Command{
	Use:   "gc",
	Short: "Build the demo module and run one mark-sweep cycle over it",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		m := newTimedModule(cfg)
		if _, err := buildMaxDemo(m); err != nil {
			return fmt.Errorf("build demo: %w", err)
		}

		stats := gc.Collect(m)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "freed: insts=%d blocks=%d exprs=%d globals=%d uses=%d jumptargets=%d (total %d)\n",
			stats.Insts, stats.Blocks, stats.Exprs, stats.Globals, stats.Uses, stats.JumpTargets, stats.Total())

		if gcVerbose {
			fmt.Fprintln(out, m.Timer.Summary())
		}
		return nil
	},
}
