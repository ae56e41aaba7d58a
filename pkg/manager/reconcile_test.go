package manager

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3leaps/slurmtrack/pkg/jobstore"
	"github.com/3leaps/slurmtrack/pkg/slurm"
)

func TestRefresh_UnrecognizedIDBecomesUnknown(t *testing.T) {
	f := newFixture(t, "/jobs/a")

	ctx := context.Background()
	_, err := f.store.Insert(ctx, jobstore.JobRecord{OwnerDirectory: "/jobs/a", SchedulerJobID: "123", Status: "RUNNING", WorkingDirectory: "/jobs/a"})
	require.NoError(t, err)
	// No facts scripted for 123: the fake reports it unrecognized.

	require.NoError(t, f.mgr.Refresh(ctx))

	records, err := f.store.ListByOwner(ctx, "/jobs/a", "")
	require.NoError(t, err)
	assert.Equal(t, StatusUnknown, records[0].Status)

	// Idempotent: a second refresh yields the same result.
	require.NoError(t, f.mgr.Refresh(ctx))
	records, err = f.store.ListByOwner(ctx, "/jobs/a", "")
	require.NoError(t, err)
	assert.Equal(t, StatusUnknown, records[0].Status)
}

func TestRefresh_OverwritesStatusVerbatim(t *testing.T) {
	f := newFixture(t, "/jobs/a")

	ctx := context.Background()
	_, err := f.store.Insert(ctx, jobstore.JobRecord{
		OwnerDirectory:   "/jobs/a",
		SchedulerJobID:   "123",
		DisplayName:      "train",
		Status:           "PENDING",
		WorkingDirectory: "/jobs/a/run",
	})
	require.NoError(t, err)
	f.sched.facts["123"] = slurm.JobFacts{JobID: "123", State: "RUNNING", WorkDir: "/jobs/a/run"}

	got, err := f.mgr.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "RUNNING", got[0].Status)
	assert.Equal(t, "123", got[0].SchedulerJobID)
	assert.Equal(t, "train", got[0].DisplayName)
	assert.Equal(t, "/jobs/a/run", got[0].WorkingDirectory)
}

func TestRefresh_NonStandardStatusTokenKeptVerbatim(t *testing.T) {
	f := newFixture(t, "/jobs/a")

	ctx := context.Background()
	_, err := f.store.Insert(ctx, jobstore.JobRecord{OwnerDirectory: "/jobs/a", SchedulerJobID: "7", Status: "PENDING", WorkingDirectory: "/jobs/a"})
	require.NoError(t, err)
	// The scheduler's vocabulary is open; no normalization or validation.
	f.sched.facts["7"] = slurm.JobFacts{JobID: "7", State: "NODE_FAIL", WorkDir: "/jobs/a"}

	require.NoError(t, f.mgr.Refresh(ctx))

	records, err := f.store.ListByOwner(ctx, "/jobs/a", "")
	require.NoError(t, err)
	assert.Equal(t, "NODE_FAIL", records[0].Status)
}

func TestRefresh_TransportErrorLeavesRecordUnchanged(t *testing.T) {
	f := newFixture(t, "/jobs/a")

	ctx := context.Background()
	_, err := f.store.Insert(ctx, jobstore.JobRecord{OwnerDirectory: "/jobs/a", SchedulerJobID: "1", Status: "RUNNING", WorkingDirectory: "/jobs/a/x"})
	require.NoError(t, err)
	_, err = f.store.Insert(ctx, jobstore.JobRecord{OwnerDirectory: "/jobs/a", SchedulerJobID: "2", Status: "PENDING", WorkingDirectory: "/jobs/a/y"})
	require.NoError(t, err)

	f.sched.queryErr["1"] = errors.New("slurmctld unreachable")
	f.sched.facts["2"] = slurm.JobFacts{JobID: "2", State: "RUNNING", WorkDir: "/jobs/a/y"}

	require.NoError(t, f.mgr.Refresh(ctx), "a degraded record must not abort reconciliation")

	records, err := f.store.ListByOwner(ctx, "/jobs/a", "")
	require.NoError(t, err)
	assert.Equal(t, "RUNNING", records[0].Status, "degraded record keeps its prior status")
	assert.Equal(t, "RUNNING", records[1].Status, "remaining records still refreshed")

	assert.Contains(t, f.local.String(), "refresh degraded")
	assert.NotContains(t, f.global.String(), "refresh degraded")
}

func TestRefresh_TimeoutIsTreatedAsDegraded(t *testing.T) {
	f := newFixture(t, "/jobs/a")

	ctx := context.Background()
	_, err := f.store.Insert(ctx, jobstore.JobRecord{OwnerDirectory: "/jobs/a", SchedulerJobID: "1", Status: "PENDING", WorkingDirectory: "/jobs/a"})
	require.NoError(t, err)
	f.sched.queryErr["1"] = slurm.ErrSchedulerTimeout

	require.NoError(t, f.mgr.Refresh(ctx))

	records, err := f.store.ListByOwner(ctx, "/jobs/a", "")
	require.NoError(t, err)
	assert.Equal(t, "PENDING", records[0].Status)
}

func TestRefresh_OnlyTouchesOwnerScope(t *testing.T) {
	f := newFixture(t, "/jobs/a")

	ctx := context.Background()
	_, err := f.store.Insert(ctx, jobstore.JobRecord{OwnerDirectory: "/jobs/b", SchedulerJobID: "77", Status: "RUNNING", WorkingDirectory: "/jobs/b"})
	require.NoError(t, err)

	require.NoError(t, f.mgr.Refresh(ctx))

	records, err := f.store.ListByOwner(ctx, "/jobs/b", "")
	require.NoError(t, err)
	assert.Equal(t, "RUNNING", records[0].Status, "records of other owners are not refreshed")
}
