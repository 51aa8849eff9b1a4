package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "benchcore",
	Short:   "Benchmark execution engine for comparing endpoint variants",
	Version: version,
	Long: `Benchcore drives concurrent load against named variants of an HTTP
endpoint, one variant at a time, and reports latency percentiles, throughput
and resource usage so the variants can be compared side by side.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.AddCommand(runCmd)
	RootCmd.AddCommand(historyCmd)
}
