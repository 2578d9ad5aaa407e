package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kestrel-ir/kestrel/internal/irverify"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Build the demo module and sanity-check it",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		m := newTimedModule(cfg)
		if _, err := buildMaxDemo(m); err != nil {
			return fmt.Errorf("build demo: %w", err)
		}

		report := irverify.Verify(m, cfg)
		if report == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "ok (strict mode, no violations)")
			return nil
		}
		if report.OK() {
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		}
		for _, d := range report.Diagnostics() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s [%s] %s\n", d.Severity, d.Rule, d.Message)
		}
		return fmt.Errorf("%s", report.Error())
	},
}
