package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/querylab/benchcore/internal/bench"
	"github.com/querylab/benchcore/internal/httpx"
	"github.com/querylab/benchcore/internal/orchestrator"
	"github.com/querylab/benchcore/internal/output"
	"github.com/querylab/benchcore/internal/store"
	"github.com/querylab/benchcore/internal/suite"
)

var runNoSave bool

var runCmd = &cobra.Command{
	Use:   "run <suite.yaml>",
	Short: "Run a benchmark suite and save the results",
	Long: `Run executes every variant in the suite file sequentially, printing live
progress, and saves the completed run to the local history unless --no-save
is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSuite(cmd.Context(), args[0])
	},
}

func init() {
	runCmd.Flags().BoolVar(&runNoSave, "no-save", false, "do not persist the completed run")
}

func runSuite(ctx context.Context, path string) error {
	s, err := suite.Load(path)
	if err != nil {
		return err
	}

	clientCfg := httpx.DefaultClientConfig()
	clientCfg.Timeout = s.Config.Timeout()
	client := httpx.NewClient(clientCfg)

	runner := bench.NewRunner(client, s.MetricsURL)
	orch := orchestrator.New(runner)
	reporter := output.NewReporter(os.Stdout)

	watchDone := make(chan struct{})
	go func() {
		defer close(watchDone)
		reporter.Watch(orch.Updates())
	}()

	runs, err := orch.Run(ctx, s.Variants, s.Config)
	<-watchDone
	if err != nil {
		return err
	}

	run := &store.BenchmarkRun{
		Name:     s.Name,
		Hardware: orchestrator.DetectHardware(),
		Runs:     runs,
	}

	if !runNoSave {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.Save(run); err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
	}

	reporter.PrintRun(run)
	return nil
}

