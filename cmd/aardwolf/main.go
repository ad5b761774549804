// Command aardwolf is the fault-localization CLI entry point: it loads
// the orchestrator's YAML configuration, drives one analysis run, and
// renders the configured plugins' results to the CLI or to JSON.
//
// Usage:
//
//	aardwolf run --config PATH --ui {cli,json}
//	aardwolf version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is stamped at build time via -ldflags.
var version = "0.1.0-dev"

var rootCmd = &cobra.Command{
	Use:   "aardwolf",
	Short: "aardwolf finds the statements most likely responsible for a failing test",
	Long: `aardwolf is a fault-localization engine.

It consumes three artifacts produced by an external instrumentation
toolchain — a static description of a program's functions and statements, a
runtime execution trace, and a pass/fail verdict per test — and produces,
per configured plugin, a ranked list of source locations hypothesized to
contain the fault.`,
}

func init() {
	rootCmd.AddCommand(runCmd, versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the aardwolf version",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "aardwolf version %s\n", version)
		return err
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
