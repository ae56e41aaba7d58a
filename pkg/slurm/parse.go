// Package slurm invokes the Slurm workload manager's command line entry
// points (sbatch, scontrol, scancel) and parses their textual responses
// into structured job facts.
package slurm

import (
	"regexp"
	"strings"
)

// Slurm acknowledges a submission with a line like:
//
//	Submitted batch job 123
//
// and scontrol emits job details as whitespace-separated Key=Value
// tokens scattered across multiple lines.
var (
	submitAckRe = regexp.MustCompile(`Submitted batch job (\S+)`)
	jobIDRe     = regexp.MustCompile(`JobId=(\S+)`)
	jobStateRe  = regexp.MustCompile(`JobState=(\S+)`)
	workDirRe   = regexp.MustCompile(`WorkDir=(\S+)`)
)

// JobFacts are the details extracted from one scontrol job query.
type JobFacts struct {
	// JobID is the scheduler's identifier, kept as an opaque string.
	JobID string

	// State is the scheduler's status token, verbatim (e.g. RUNNING).
	State string

	// WorkDir is the working directory the scheduler reports for the job.
	WorkDir string
}

// ParseSubmitAck extracts the job id from a submission acknowledgment.
// Returns a *SubmissionError when no id is present.
func ParseSubmitAck(stdout, stderr string) (string, error) {
	m := submitAckRe.FindStringSubmatch(stdout)
	if m == nil {
		return "", &SubmissionError{Stdout: strings.TrimSpace(stdout), Stderr: strings.TrimSpace(stderr)}
	}
	return m[1], nil
}

// ParseJobDetails extracts job id, state, and working directory from
// scontrol show output. A missing marker is fatal: a half-parsed record
// must not reach the store, so the first absent field is reported as a
// *MalformedResponseError.
func ParseJobDetails(output string) (JobFacts, error) {
	id := jobIDRe.FindStringSubmatch(output)
	if id == nil {
		return JobFacts{}, &MalformedResponseError{Field: "JobId"}
	}
	state := jobStateRe.FindStringSubmatch(output)
	if state == nil {
		return JobFacts{}, &MalformedResponseError{Field: "JobState"}
	}
	workDir := workDirRe.FindStringSubmatch(output)
	if workDir == nil {
		return JobFacts{}, &MalformedResponseError{Field: "WorkDir"}
	}
	return JobFacts{JobID: id[1], State: state[1], WorkDir: workDir[1]}, nil
}
