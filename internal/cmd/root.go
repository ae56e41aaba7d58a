// Package cmd wires the job tracking core into a cobra CLI. Commands
// operate on the current working directory as the owner directory.
package cmd

import (
	"github.com/spf13/cobra"
)

// Version is stamped at build time via -ldflags.
var Version = "0.1.0-dev"

var rootCmd = &cobra.Command{
	Use:   "slurmtrack",
	Short: "Track jobs submitted to the Slurm workload manager",
	Long: `slurmtrack submits jobs to Slurm, records them in a local database,
keeps their status in sync with the scheduler, and offers listing and
cancellation scoped to the directory it runs from.

It is a bookkeeping layer, not a scheduler: Slurm remains authoritative
for all job state.`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}
