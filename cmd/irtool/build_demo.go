package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kestrel-ir/kestrel/internal/irprint"
)

var buildDemoCmd = &cobra.Command{
	Use:   "build-demo",
	Short: "Construct the max(a,b) worked example and print it",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		m := newTimedModule(cfg)
		if _, err := buildMaxDemo(m); err != nil {
			return fmt.Errorf("build demo: %w", err)
		}
		irprint.Fprint(cmd.OutOrStdout(), m)
		return nil
	},
}
