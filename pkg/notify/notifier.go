// Package notify writes human-readable, timestamped event lines to two
// independent append-only sinks: one scoped to the owning directory and
// one global to the host. It is side-effect-only; no decision logic.
package notify

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// LocalLogName is the per-owner-directory log file.
	LocalLogName = ".slurm.log"

	// GlobalLogName is the process-wide log file under the home directory.
	GlobalLogName = ".global_slurm.log"
)

// Notifier fans events out to an owner-directory sink and a global sink.
// Sinks are injected at construction so tests can substitute in-memory
// buffers.
type Notifier struct {
	local  *zap.Logger
	global *zap.Logger
}

// New builds a notifier over two injected write syncers.
func New(localSink, globalSink zapcore.WriteSyncer) *Notifier {
	return &Notifier{
		local:  newSinkLogger(localSink),
		global: newSinkLogger(globalSink),
	}
}

// Open creates a notifier backed by append-only log files: one under
// ownerDirectory, one at globalPath.
func Open(ownerDirectory, globalPath string) (*Notifier, error) {
	localFile, err := openAppend(filepath.Join(ownerDirectory, LocalLogName))
	if err != nil {
		return nil, fmt.Errorf("open local log: %w", err)
	}
	globalFile, err := openAppend(globalPath)
	if err != nil {
		_ = localFile.Close()
		return nil, fmt.Errorf("open global log: %w", err)
	}
	return New(zapcore.AddSync(localFile), zapcore.AddSync(globalFile)), nil
}

func openAppend(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

func newSinkLogger(sink zapcore.WriteSyncer) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), sink, zap.InfoLevel)
	return zap.New(core)
}

// eventID tags the same event across both sinks.
func eventID() zap.Field {
	return zap.String("event_id", uuid.NewString())
}

// SubmitSucceeded records a successful submission in both sinks.
func (n *Notifier) SubmitSucceeded(jobID, displayName, workingDirectory string) {
	id := eventID()
	n.local.Info("submitted job",
		zap.String("job_id", jobID),
		zap.String("display_name", displayName), id)
	n.global.Info("submitted job",
		zap.String("job_id", jobID),
		zap.String("working_directory", workingDirectory), id)
}

// SubmitSkipped records that a submission was skipped because an active
// job already exists for the working directory.
func (n *Notifier) SubmitSkipped(workingDirectory, blockingStatus string) {
	id := eventID()
	n.local.Warn("submission skipped: job for working directory is already active",
		zap.String("working_directory", workingDirectory),
		zap.String("blocking_status", blockingStatus), id)
	n.global.Warn("submission skipped",
		zap.String("working_directory", workingDirectory),
		zap.String("blocking_status", blockingStatus), id)
}

// SubmitFailed records a submission that produced no job id.
func (n *Notifier) SubmitFailed(workingDirectory string, cause error) {
	id := eventID()
	n.local.Error("submission failed",
		zap.String("working_directory", workingDirectory),
		zap.Error(cause), id)
	n.global.Error("submission failed",
		zap.String("working_directory", workingDirectory),
		zap.Error(cause), id)
}

// PreviouslyCancelled records the informational warning that a prior job
// for the working directory had been cancelled. Local sink only; it is
// advisory, not a state change.
func (n *Notifier) PreviouslyCancelled(workingDirectory string) {
	n.local.Warn("a job from this working directory was previously cancelled",
		zap.String("working_directory", workingDirectory), eventID())
}

// CancelSucceeded records a successful cancellation in both sinks.
func (n *Notifier) CancelSucceeded(jobID, ownerDirectory string) {
	id := eventID()
	n.local.Info("cancelled job", zap.String("job_id", jobID), id)
	n.global.Info("cancelled job",
		zap.String("job_id", jobID),
		zap.String("owner_directory", ownerDirectory), id)
}

// CancelFailed records a failed cancellation with its diagnostic text.
func (n *Notifier) CancelFailed(jobID, ownerDirectory string, cause error) {
	id := eventID()
	n.local.Error("failed to cancel job",
		zap.String("job_id", jobID),
		zap.Error(cause), id)
	n.global.Error("failed to cancel job",
		zap.String("job_id", jobID),
		zap.String("owner_directory", ownerDirectory),
		zap.Error(cause), id)
}

// RefreshDegraded records that one record's refresh failed for a reason
// other than an unrecognized id; the record's status was left unchanged.
func (n *Notifier) RefreshDegraded(jobID string, cause error) {
	n.local.Warn("status refresh degraded; record left unchanged",
		zap.String("job_id", jobID),
		zap.Error(cause), eventID())
}

// Sync flushes both sinks. Best effort; file sinks on some platforms
// reject Sync.
func (n *Notifier) Sync() {
	_ = n.local.Sync()
	_ = n.global.Sync()
}
