package slurm

import (
	"errors"
	"testing"
)

const scontrolSample = `JobId=4242 JobName=train-run
   UserId=alice(1000) GroupId=alice(1000) MCS_label=N/A
   Priority=4294901759 Nice=0 Account=(null) QOS=normal
   JobState=RUNNING Reason=None Dependency=(null)
   RunTime=00:10:42 TimeLimit=1-00:00:00 TimeMin=N/A
   WorkDir=/scratch/alice/train
   StdErr=/scratch/alice/train/slurm-4242.err
`

func TestParseJobDetails(t *testing.T) {
	facts, err := ParseJobDetails(scontrolSample)
	if err != nil {
		t.Fatalf("ParseJobDetails() error: %v", err)
	}
	if facts.JobID != "4242" {
		t.Fatalf("job id mismatch: got=%q want=%q", facts.JobID, "4242")
	}
	if facts.State != "RUNNING" {
		t.Fatalf("state mismatch: got=%q want=%q", facts.State, "RUNNING")
	}
	if facts.WorkDir != "/scratch/alice/train" {
		t.Fatalf("workdir mismatch: got=%q", facts.WorkDir)
	}
}

func TestParseJobDetails_MissingMarkerIsFatal(t *testing.T) {
	cases := []struct {
		name   string
		output string
		field  string
	}{
		{"no job id", "JobState=PENDING WorkDir=/x", "JobId"},
		{"no state", "JobId=7 WorkDir=/x", "JobState"},
		{"no workdir", "JobId=7 JobState=PENDING", "WorkDir"},
		{"empty", "", "JobId"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseJobDetails(tc.output)
			var malformed *MalformedResponseError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected MalformedResponseError, got %v", err)
			}
			if malformed.Field != tc.field {
				t.Fatalf("field mismatch: got=%q want=%q", malformed.Field, tc.field)
			}
		})
	}
}

func TestParseSubmitAck(t *testing.T) {
	id, err := ParseSubmitAck("Submitted batch job 991\n", "")
	if err != nil {
		t.Fatalf("ParseSubmitAck() error: %v", err)
	}
	if id != "991" {
		t.Fatalf("job id mismatch: got=%q want=%q", id, "991")
	}
}

func TestParseSubmitAck_NoID(t *testing.T) {
	_, err := ParseSubmitAck("sbatch: error: Batch job submission failed\n", "sbatch: error: Invalid partition\n")
	var subErr *SubmissionError
	if !errors.As(err, &subErr) {
		t.Fatalf("expected SubmissionError, got %v", err)
	}
	if subErr.Stderr == "" {
		t.Fatalf("expected captured stderr for diagnostics")
	}
}
