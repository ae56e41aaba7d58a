package jobstore

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// JobRecord is one row in the jobs table: a single submission attempt
// that the scheduler acknowledged with a job id.
type JobRecord struct {
	// ID is the store-assigned surrogate key. Assigned once, never
	// reused, never mutated.
	ID int64

	// OwnerDirectory is the absolute path of the manager instance that
	// created the record. All queries are partitioned by it.
	OwnerDirectory string

	// SchedulerJobID is the scheduler's identifier, opaque string form.
	SchedulerJobID string

	// DisplayName is the caller-supplied label. Free text, not unique.
	DisplayName string

	// Status is the scheduler-reported state token. Mutated only by
	// refresh after insertion.
	Status string

	// WorkingDirectory is the path the scheduler echoed at submission
	// time, used to correlate later submissions to the same path.
	WorkingDirectory string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Insert appends a new record and returns its assigned id.
func (s *Store) Insert(ctx context.Context, rec JobRecord) (int64, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	now := time.Now().UTC().Format(time.RFC3339)

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs
		 (owner_directory, scheduler_job_id, display_name, status, working_directory, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.OwnerDirectory, rec.SchedulerJobID, rec.DisplayName, rec.Status,
		rec.WorkingDirectory, now, now)
	if err != nil {
		return 0, fmt.Errorf("insert job record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted job id: %w", err)
	}
	return id, nil
}

// ListByOwner returns all records for ownerDirectory in insertion order.
// A non-empty statusFilter restricts results to that status, upper-cased
// before comparison. All values are bound as parameters.
func (s *Store) ListByOwner(ctx context.Context, ownerDirectory, statusFilter string) ([]JobRecord, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	query := `SELECT id, owner_directory, scheduler_job_id, display_name, status, working_directory, created_at, updated_at
		FROM jobs WHERE owner_directory = ?`
	args := []any{ownerDirectory}

	if strings.TrimSpace(statusFilter) != "" {
		query += ` AND status = ?`
		args = append(args, strings.ToUpper(strings.TrimSpace(statusFilter)))
	}
	query += ` ORDER BY id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query job records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []JobRecord
	for rows.Next() {
		var rec JobRecord
		var createdAt, updatedAt string
		if err := rows.Scan(&rec.ID, &rec.OwnerDirectory, &rec.SchedulerJobID,
			&rec.DisplayName, &rec.Status, &rec.WorkingDirectory,
			&createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan job record: %w", err)
		}
		if rec.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at for job record %d: %w", rec.ID, err)
		}
		if rec.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
			return nil, fmt.Errorf("parse updated_at for job record %d: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate job records: %w", err)
	}
	return out, nil
}

// UpdateStatus overwrites the status of the record(s) matching
// (schedulerJobID, ownerDirectory). A no-op when nothing matches.
func (s *Store) UpdateStatus(ctx context.Context, schedulerJobID, ownerDirectory, newStatus string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	now := time.Now().UTC().Format(time.RFC3339)

	_, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, updated_at = ?
		 WHERE scheduler_job_id = ? AND owner_directory = ?`,
		newStatus, now, schedulerJobID, ownerDirectory)
	if err != nil {
		return fmt.Errorf("update job status: %w", err)
	}
	return nil
}

// CountByOwner counts records for ownerDirectory.
func (s *Store) CountByOwner(ctx context.Context, ownerDirectory string) (int64, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM jobs WHERE owner_directory = ?`, ownerDirectory).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count job records: %w", err)
	}
	return n, nil
}
