package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh recorded job statuses against the scheduler",
	Long: `Query the scheduler for every job recorded under this directory and
overwrite the stored status with the scheduler's current view. Jobs the
scheduler no longer recognizes become UNKNOWN.

list already refreshes implicitly; this command exists for scripting.`,
	RunE: runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.close()

	if err := rt.mgr.Refresh(cmd.Context()); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(os.Stdout, "refreshed")
	return nil
}
