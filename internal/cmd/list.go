package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/3leaps/slurmtrack/pkg/jobstore"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded jobs for this directory",
	Long: `List job records owned by the current directory.

Statuses are refreshed against the scheduler before listing, so the
table reflects Slurm's current view.`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().String("status", "", "Only show jobs with this status (case-insensitive)")
	listCmd.Flags().Bool("json", false, "Output as JSON")
}

func runList(cmd *cobra.Command, _ []string) error {
	statusFilter, _ := cmd.Flags().GetString("status")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.close()

	records, err := rt.mgr.List(cmd.Context(), statusFilter)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		_, _ = fmt.Fprintln(os.Stdout, "No jobs found")
		return nil
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	return renderJobTable(os.Stdout, records)
}

func renderJobTable(out io.Writer, records []jobstore.JobRecord) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, "ID\tJOB ID\tNAME\tSTATUS\tWORKDIR\tUPDATED")
	for _, rec := range records {
		name := rec.DisplayName
		if name == "" {
			name = "-"
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			rec.ID,
			rec.SchedulerJobID,
			name,
			rec.Status,
			rec.WorkingDirectory,
			rec.UpdatedAt.UTC().Format(time.RFC3339),
		)
	}

	return w.Flush()
}
