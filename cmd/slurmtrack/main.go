package main

import (
	"os"

	"github.com/3leaps/slurmtrack/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
