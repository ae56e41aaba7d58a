package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3leaps/slurmtrack/pkg/jobstore"
)

func TestRenderJobTable(t *testing.T) {
	updated := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	records := []jobstore.JobRecord{
		{ID: 1, SchedulerJobID: "123", DisplayName: "train", Status: "RUNNING", WorkingDirectory: "/jobs/a", UpdatedAt: updated},
		{ID: 2, SchedulerJobID: "124", DisplayName: "", Status: "UNKNOWN", WorkingDirectory: "/jobs/b", UpdatedAt: updated},
	}

	var buf bytes.Buffer
	require.NoError(t, renderJobTable(&buf, records))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3, "header plus one line per record")

	assert.Contains(t, lines[0], "JOB ID")
	assert.Contains(t, lines[1], "123")
	assert.Contains(t, lines[1], "RUNNING")
	assert.Contains(t, lines[2], "-", "empty display name rendered as dash")
	assert.Contains(t, lines[2], "UNKNOWN")
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"submit", "list", "cancel", "refresh", "serve", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}
