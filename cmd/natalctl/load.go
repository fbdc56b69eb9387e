package main

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/natal/internal/loadtest"
)

// Default load run settings.
const (
	defaultCharts      = 500
	defaultVerify      = 20
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func newLoadCmd() *cobra.Command {
	cfg := &loadtest.Config{}
	var deadline time.Duration

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Submit generated charts to a running server and verify them",
		Long: `Generate deterministic birth inputs, submit them concurrently, then read
a sample back and replay it under an idempotency key. The run fails when a
stored, replayed or recomputed chart disagrees with the original response.

Examples:
  natalctl load
  natalctl load --url http://localhost:8080 --charts 5000 --workers 32
  natalctl load --seed 7 --verify 50 --output inputs.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), deadline)
			defer cancel()

			stats, err := loadtest.Run(ctx, cfg)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(),
				"created %d/%d charts in %s, %d reads and %d replays verified\n",
				stats.ChartsCreated, stats.ChartsSubmitted, stats.Duration.Round(time.Millisecond),
				stats.ReadsVerified, stats.ReplaysVerified)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", "http://localhost:9080", "base URL of the service")
	f.IntVar(&cfg.Charts, "charts", defaultCharts, "number of charts to submit")
	f.IntVar(&cfg.Workers, "workers", runtime.NumCPU()*defaultWorkers, "number of concurrent workers")
	f.DurationVar(&cfg.Timeout, "timeout", defaultTimeout, "HTTP request timeout")
	f.Uint64Var(&cfg.Seed, "seed", 1, "seed for the input generator")
	f.IntVar(&cfg.Verify, "verify", defaultVerify, "number of charts to read back and replay")
	f.StringVar(&cfg.OutputFile, "output", "", "write generated inputs to this JSON file")
	f.BoolVar(&cfg.Verbose, "verbose", false, "log submission progress")
	f.DurationVar(&deadline, "deadline", defaultTestTimeout, "overall time limit for the run")
	return cmd
}
