package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kestrel-ir/kestrel/internal/ir/gc"
	"github.com/kestrel-ir/kestrel/internal/irprint"
)

var dumpAfterGC bool

func init() {
	dumpCmd.Flags().BoolVar(&dumpAfterGC, "after-gc", false, "run one GC cycle before dumping")
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Build the demo module and print its textual form",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		m := newTimedModule(cfg)
		if _, err := buildMaxDemo(m); err != nil {
			return fmt.Errorf("build demo: %w", err)
		}
		if dumpAfterGC {
			gc.Collect(m)
		}
		irprint.Fprint(cmd.OutOrStdout(), m)
		return nil
	},
}
