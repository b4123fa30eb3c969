// Command benchtree runs and formats declarative load/benchmark test
// trees (spec.md §6). Grounded on jefflaplante-conduit's
// cmd/gateway/main.go cobra-root-command wiring.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "benchtree",
	Short: "Declarative load/benchmark test-tree runner",
	Long: `benchtree walks a directory tree of YAML configuration and runs
the plans it finds, spawning parallel worker pools per unit under a
stopping rule, and produces a hierarchical JSON result tree.`,
}

func main() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(formatCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
