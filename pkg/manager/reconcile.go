package manager

import (
	"context"
	"errors"

	"github.com/3leaps/slurmtrack/pkg/slurm"
)

// Refresh brings every record under the owner directory up to date with
// the scheduler's current view, one job at a time.
//
// Per record: an id the scheduler no longer recognizes becomes UNKNOWN;
// a successful query overwrites status with the reported token verbatim.
// Any other query failure leaves that record unchanged and emits a soft
// warning — one degraded record must not abort the rest.
func (m *Manager) Refresh(ctx context.Context) error {
	records, err := m.store.ListByOwner(ctx, m.owner, "")
	if err != nil {
		return err
	}

	for _, rec := range records {
		facts, err := m.sched.QueryDetails(ctx, rec.SchedulerJobID)

		var newStatus string
		switch {
		case errors.Is(err, slurm.ErrJobNotFound):
			newStatus = StatusUnknown
		case err != nil:
			m.events.RefreshDegraded(rec.SchedulerJobID, err)
			continue
		default:
			newStatus = facts.State
		}

		if err := m.store.UpdateStatus(ctx, rec.SchedulerJobID, m.owner, newStatus); err != nil {
			return err
		}
	}
	return nil
}
