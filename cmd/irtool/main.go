// Command irtool drives the IR core directly through its builder API —
// there is no front end to parse, so every subcommand constructs the demo
// module in-process.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "irtool",
	Short: "Inspect and exercise the kestrel IR core",
}

func main() {
	rootCmd.AddCommand(buildDemoCmd)
	rootCmd.AddCommand(gcCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(dumpCmd)

	rootCmd.PersistentFlags().String("config", "", "path to a TOML config file (defaults baked in if unset)")
	rootCmd.PersistentFlags().Bool("strict", false, "fail fast on the first invariant violation instead of reporting")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
