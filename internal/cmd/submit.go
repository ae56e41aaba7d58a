package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var submitCmd = &cobra.Command{
	Use:   "submit <path>",
	Short: "Submit a job from a working directory",
	Long: `Submit the directory's job script to Slurm and record the result.

If a recorded job for the same working directory is still RUNNING or
PENDING, the submission is skipped unless --resubmit is set.`,
	Args: cobra.ExactArgs(1),
	RunE: runSubmit,
}

func init() {
	rootCmd.AddCommand(submitCmd)
	submitCmd.Flags().String("name", "", "Display name recorded for the job")
	submitCmd.Flags().Bool("resubmit", false, "Submit even if an active job exists for the directory")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	resubmit, _ := cmd.Flags().GetBool("resubmit")

	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.close()

	res, err := rt.mgr.Submit(cmd.Context(), args[0], name, resubmit)
	if err != nil {
		return err
	}

	if res.Skipped {
		_, _ = fmt.Fprintf(os.Stdout, "skipped: a job for this working directory is already %s (use --resubmit to override)\n", res.BlockingStatus)
		return nil
	}

	_, _ = fmt.Fprintf(os.Stdout, "submitted job %s (record %d, status %s)\n", res.SchedulerJobID, res.RecordID, res.Status)
	return nil
}
