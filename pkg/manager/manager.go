// Package manager holds the decision logic of the system: whether a new
// submission may proceed given the recorded jobs for its working
// directory, and the refresh protocol that keeps local records
// consistent with the scheduler's authoritative state.
package manager

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/3leaps/slurmtrack/pkg/jobstore"
	"github.com/3leaps/slurmtrack/pkg/notify"
	"github.com/3leaps/slurmtrack/pkg/slurm"
)

// Canonical status tokens. The status column is an open string enum;
// these are only the tokens this package makes decisions on.
const (
	StatusPending   = "PENDING"
	StatusRunning   = "RUNNING"
	StatusCancelled = "CANCELLED"
	StatusUnknown   = "UNKNOWN"
)

// isActive reports whether a status still occupies the scheduler's
// queue or an execution slot.
func isActive(status string) bool {
	switch strings.ToUpper(status) {
	case StatusRunning, StatusPending:
		return true
	}
	return false
}

// Scheduler is the narrow view of the batch system this package
// consumes. *slurm.Client satisfies it.
type Scheduler interface {
	Submit(ctx context.Context, workingDirectory string) (string, error)
	QueryDetails(ctx context.Context, jobID string) (slurm.JobFacts, error)
	Cancel(ctx context.Context, jobID string) error
}

// Recorder is the store capability set this package needs.
// *jobstore.Store satisfies it.
type Recorder interface {
	Insert(ctx context.Context, rec jobstore.JobRecord) (int64, error)
	ListByOwner(ctx context.Context, ownerDirectory, statusFilter string) ([]jobstore.JobRecord, error)
	UpdateStatus(ctx context.Context, schedulerJobID, ownerDirectory, newStatus string) error
}

// Manager ties the store, scheduler client, and notifier together for
// one owner directory. All operations are synchronous and blocking.
type Manager struct {
	owner  string
	store  Recorder
	sched  Scheduler
	events *notify.Notifier
}

// New builds a manager scoped to ownerDirectory. The directory is
// normalized to an absolute path; it partitions every store query.
func New(ownerDirectory string, store Recorder, sched Scheduler, events *notify.Notifier) (*Manager, error) {
	abs, err := filepath.Abs(strings.TrimSpace(ownerDirectory))
	if err != nil {
		return nil, fmt.Errorf("resolve owner directory: %w", err)
	}
	return &Manager{owner: abs, store: store, sched: sched, events: events}, nil
}

// Owner returns the normalized owner directory.
func (m *Manager) Owner() string {
	return m.owner
}

// SubmitResult reports the outcome of one submission attempt.
type SubmitResult struct {
	// Skipped is true when an active record blocked the submission.
	Skipped bool

	// BlockingStatus names the active status that caused the skip.
	BlockingStatus string

	// RecordID is the store-assigned id of the new record.
	RecordID int64

	// SchedulerJobID is the scheduler's id for the new job.
	SchedulerJobID string

	// Status is the scheduler's self-reported status at insert time.
	Status string
}

// Submit decides whether a job for path may be submitted, invokes the
// scheduler when it may, and records the outcome.
//
// Decision table over prior records for the target working directory,
// evaluated after a refresh so statuses are current:
//
//   - no prior records: submit
//   - an active (RUNNING/PENDING) record and resubmit unset: skip,
//     warning names the first active record's status
//   - an active record and resubmit set: submit anyway
//   - prior CANCELLED records, none active: informational warning, submit
//   - only other terminal records: submit
//
// The inserted working_directory comes from the scheduler's echoed
// WorkDir, not the caller's path.
func (m *Manager) Submit(ctx context.Context, path, displayName string, resubmit bool) (SubmitResult, error) {
	abs, err := filepath.Abs(strings.TrimSpace(path))
	if err != nil {
		return SubmitResult{}, fmt.Errorf("resolve working directory: %w", err)
	}

	if err := m.Refresh(ctx); err != nil {
		return SubmitResult{}, err
	}
	existing, err := m.store.ListByOwner(ctx, m.owner, "")
	if err != nil {
		return SubmitResult{}, err
	}

	var matching []jobstore.JobRecord
	for _, rec := range existing {
		if rec.WorkingDirectory == abs {
			matching = append(matching, rec)
		}
	}

	if len(matching) > 0 {
		if active := firstActive(matching); active != nil {
			if !resubmit {
				m.events.SubmitSkipped(abs, active.Status)
				return SubmitResult{Skipped: true, BlockingStatus: active.Status}, nil
			}
		} else if anyCancelled(matching) {
			m.events.PreviouslyCancelled(abs)
		}
	}

	jobID, err := m.sched.Submit(ctx, abs)
	if err != nil {
		m.events.SubmitFailed(abs, err)
		return SubmitResult{}, err
	}

	// Record what the scheduler says about the job, not what we asked
	// for: the echoed WorkDir and self-reported status are authoritative.
	facts, err := m.sched.QueryDetails(ctx, jobID)
	if err != nil {
		m.events.SubmitFailed(abs, err)
		return SubmitResult{}, fmt.Errorf("job %s submitted but details query failed: %w", jobID, err)
	}

	id, err := m.store.Insert(ctx, jobstore.JobRecord{
		OwnerDirectory:   m.owner,
		SchedulerJobID:   facts.JobID,
		DisplayName:      displayName,
		Status:           facts.State,
		WorkingDirectory: facts.WorkDir,
	})
	if err != nil {
		return SubmitResult{}, err
	}

	m.events.SubmitSucceeded(facts.JobID, displayName, abs)
	return SubmitResult{RecordID: id, SchedulerJobID: facts.JobID, Status: facts.State}, nil
}

// firstActive returns the first record (insertion order) whose status
// is active, or nil.
func firstActive(records []jobstore.JobRecord) *jobstore.JobRecord {
	for i := range records {
		if isActive(records[i].Status) {
			return &records[i]
		}
	}
	return nil
}

func anyCancelled(records []jobstore.JobRecord) bool {
	for _, rec := range records {
		if strings.ToUpper(rec.Status) == StatusCancelled {
			return true
		}
	}
	return false
}

// List refreshes all records under the owner directory and returns them,
// optionally restricted to one status.
func (m *Manager) List(ctx context.Context, statusFilter string) ([]jobstore.JobRecord, error) {
	if err := m.Refresh(ctx); err != nil {
		return nil, err
	}
	return m.store.ListByOwner(ctx, m.owner, statusFilter)
}

// Cancel asks the scheduler to cancel jobID. The local record is not
// touched here; the next refresh picks up whatever status the scheduler
// reports.
func (m *Manager) Cancel(ctx context.Context, jobID string) error {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return fmt.Errorf("job id is required")
	}
	if err := m.sched.Cancel(ctx, jobID); err != nil {
		m.events.CancelFailed(jobID, m.owner, err)
		return err
	}
	m.events.CancelSucceeded(jobID, m.owner)
	return nil
}
