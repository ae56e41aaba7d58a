package slurm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// invalidJobIDPhrase is Slurm's stderr marker for an unrecognized job id.
const invalidJobIDPhrase = "Invalid job id specified"

// DefaultTimeout bounds each scheduler invocation. Slurm control daemons
// can hang indefinitely when the controller is unreachable; an unbounded
// call would block the whole operation.
const DefaultTimeout = 30 * time.Second

// Config controls how the client invokes the scheduler's entry points.
type Config struct {
	// SubmitCommand is the submission binary. Default: sbatch.
	SubmitCommand string

	// SubmitScript is the script name submitted from the working
	// directory. Default: submit.sh.
	SubmitScript string

	// QueryCommand is the detail-query binary. Default: scontrol.
	QueryCommand string

	// CancelCommand is the cancellation binary. Default: scancel.
	CancelCommand string

	// Timeout bounds each invocation. Default: DefaultTimeout.
	Timeout time.Duration
}

func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.SubmitCommand) == "" {
		c.SubmitCommand = "sbatch"
	}
	if strings.TrimSpace(c.SubmitScript) == "" {
		c.SubmitScript = "submit.sh"
	}
	if strings.TrimSpace(c.QueryCommand) == "" {
		c.QueryCommand = "scontrol"
	}
	if strings.TrimSpace(c.CancelCommand) == "" {
		c.CancelCommand = "scancel"
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// runResult captures one finished scheduler invocation.
type runResult struct {
	stdout   string
	stderr   string
	exitCode int
}

// runner invokes a scheduler command in dir and returns its captured
// output. Tests substitute a fake to replay scheduler transcripts
// without child processes.
type runner func(ctx context.Context, dir, name string, args ...string) (runResult, error)

// Client issues submit, query, and cancel requests to Slurm via its
// command line entry points. Every call runs under the configured
// timeout; expiry surfaces as ErrSchedulerTimeout.
type Client struct {
	cfg Config
	run runner
}

// NewClient returns a client that spawns real scheduler processes.
func NewClient(cfg Config) *Client {
	return &Client{cfg: cfg.withDefaults(), run: runCommand}
}

// newClientWithRunner backs the client with a caller-supplied runner.
// Test seam only.
func newClientWithRunner(cfg Config, run runner) *Client {
	return &Client{cfg: cfg.withDefaults(), run: run}
}

func runCommand(ctx context.Context, dir, name string, args ...string) (runResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := runResult{stdout: stdout.String(), stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.exitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, fmt.Errorf("run %s: %w", name, err)
	}
	return res, nil
}

// invoke runs one scheduler command under the per-call timeout.
func (c *Client) invoke(ctx context.Context, dir, name string, args ...string) (runResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	res, err := c.run(callCtx, dir, name, args...)
	if callCtx.Err() != nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return res, fmt.Errorf("%s: %w", name, ErrSchedulerTimeout)
	}
	return res, err
}

// Submit runs the submission command with workingDirectory as the
// execution context and returns the scheduler's job id. A non-zero exit
// or a response with no parseable id is a *SubmissionError.
func (c *Client) Submit(ctx context.Context, workingDirectory string) (string, error) {
	res, err := c.invoke(ctx, workingDirectory, c.cfg.SubmitCommand, c.cfg.SubmitScript)
	if err != nil {
		return "", err
	}
	if res.exitCode != 0 {
		return "", &SubmissionError{Stdout: strings.TrimSpace(res.stdout), Stderr: strings.TrimSpace(res.stderr)}
	}
	return ParseSubmitAck(res.stdout, res.stderr)
}

// QueryDetails runs the detail-query command for jobID and parses the
// response. An id the scheduler does not recognize yields ErrJobNotFound;
// that is an expected outcome for jobs that have aged out of the
// scheduler's accounting window, not a failure.
func (c *Client) QueryDetails(ctx context.Context, jobID string) (JobFacts, error) {
	res, err := c.invoke(ctx, "", c.cfg.QueryCommand, "-dd", "show", "job", jobID)
	if err != nil {
		return JobFacts{}, err
	}
	if strings.Contains(res.stderr, invalidJobIDPhrase) {
		return JobFacts{}, fmt.Errorf("query job %s: %w", jobID, ErrJobNotFound)
	}
	return ParseJobDetails(res.stdout)
}

// Cancel runs the cancellation command for jobID. Success is determined
// solely by a zero exit code; output is captured only for diagnostics.
func (c *Client) Cancel(ctx context.Context, jobID string) error {
	res, err := c.invoke(ctx, "", c.cfg.CancelCommand, jobID)
	if err != nil {
		return err
	}
	if res.exitCode != 0 {
		return &CancelError{JobID: jobID, ExitCode: res.exitCode, Stderr: strings.TrimSpace(res.stderr)}
	}
	return nil
}
