package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var cancelCmd = &cobra.Command{
	Use:   "cancel <job_id>",
	Short: "Cancel a Slurm job",
	Long: `Ask Slurm to cancel the given job id.

The local record is not modified; the next refresh picks up whatever
status the scheduler reports for the cancelled job.`,
	Args: cobra.ExactArgs(1),
	RunE: runCancel,
}

func init() {
	rootCmd.AddCommand(cancelCmd)
}

func runCancel(cmd *cobra.Command, args []string) error {
	jobID := strings.TrimSpace(args[0])
	if jobID == "" {
		return fmt.Errorf("job_id is required")
	}

	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.close()

	if err := rt.mgr.Cancel(cmd.Context(), jobID); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "cancelled job %s\n", jobID)
	return nil
}
