package slurm

import (
	"errors"
	"fmt"
)

// ErrJobNotFound reports that the scheduler does not recognize a job id.
// Callers refreshing recorded jobs map this to an UNKNOWN status rather
// than treating it as a failure.
var ErrJobNotFound = errors.New("job id not recognized by scheduler")

// ErrSchedulerTimeout reports that a scheduler invocation exceeded its
// configured deadline.
var ErrSchedulerTimeout = errors.New("scheduler call timed out")

// SubmissionError reports a submission attempt that produced no parseable
// job id. No job record may be written when this is returned.
type SubmissionError struct {
	// Stdout and Stderr hold the captured scheduler output for diagnostics.
	Stdout string
	Stderr string
}

func (e *SubmissionError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("submission failed: no job id in scheduler response: %s", e.Stderr)
	}
	return "submission failed: no job id in scheduler response"
}

// MalformedResponseError reports scheduler output missing one of the
// fixed field markers the detail parser requires.
type MalformedResponseError struct {
	// Field is the marker that could not be found (e.g. "JobState").
	Field string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed scheduler response: missing %s field", e.Field)
}

// CancelError reports a cancellation command that exited non-zero.
type CancelError struct {
	JobID    string
	ExitCode int
	Stderr   string
}

func (e *CancelError) Error() string {
	return fmt.Sprintf("cancel job %s: exit code %d: %s", e.JobID, e.ExitCode, e.Stderr)
}
