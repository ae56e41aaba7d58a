package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the slurmtrack version",
	Run: func(_ *cobra.Command, _ []string) {
		_, _ = fmt.Fprintln(os.Stdout, Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
