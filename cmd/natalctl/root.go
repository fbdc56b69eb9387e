package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/natal/pkg/logger"
)

type rootOptions struct {
	logLevel  string
	logFormat string
}

// newRootCmd builds the command tree. A fresh tree per call keeps flag state
// from leaking between executions.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "natalctl",
		Short: "Natal chart toolkit",
		Long: `natalctl computes natal charts and career profiles locally and
drives a running natal service with generated load.

Example usage:
  natalctl compute --date 1990-06-15 --time 12:30 --tz 2 --lat 52.52 --lon 13.405
  natalctl load --url http://localhost:9080 --charts 500 --workers 16`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.initLogging()
		},
	}

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "log format (text, json)")

	root.AddCommand(newComputeCmd(), newLoadCmd())
	return root
}

func (o *rootOptions) initLogging() error {
	if err := logger.SetFormat(o.logFormat); err != nil {
		return fmt.Errorf("log format: %w", err)
	}
	if err := logger.SetLevelString(o.logLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}
