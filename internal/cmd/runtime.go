package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/3leaps/slurmtrack/internal/config"
	"github.com/3leaps/slurmtrack/pkg/jobstore"
	"github.com/3leaps/slurmtrack/pkg/manager"
	"github.com/3leaps/slurmtrack/pkg/notify"
	"github.com/3leaps/slurmtrack/pkg/slurm"
)

// runtime holds the wired components for one command invocation.
type runtime struct {
	cfg    *config.Config
	store  *jobstore.Store
	events *notify.Notifier
	mgr    *manager.Manager
}

// newRuntime builds the manager for the current working directory.
func newRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	owner, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	store, err := jobstore.Open(ctx, jobstore.Config{Path: cfg.DatabasePath})
	if err != nil {
		return nil, err
	}

	events, err := notify.Open(owner, cfg.GlobalLogPath)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	client := slurm.NewClient(slurm.Config{
		SubmitCommand: cfg.SubmitCommand,
		SubmitScript:  cfg.SubmitScript,
		QueryCommand:  cfg.QueryCommand,
		CancelCommand: cfg.CancelCommand,
		Timeout:       cfg.SchedulerTimeout,
	})

	mgr, err := manager.New(owner, store, client, events)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &runtime{cfg: cfg, store: store, events: events, mgr: mgr}, nil
}

func (r *runtime) close() {
	r.events.Sync()
	_ = r.store.Close()
}
