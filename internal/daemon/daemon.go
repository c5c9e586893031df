// Package daemon schedules recurring library runs in the background.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"
	"github.com/robfig/cron/v3"

	"jellyprep/internal/config"
)

// Runner executes one library pass. The daemon calls it on schedule.
type Runner func(ctx context.Context) error

// Daemon runs the pipeline on a cron schedule, holding a file lock so only
// one instance touches the libraries at a time.
type Daemon struct {
	cfg  *config.Config
	run  Runner
	log  *slog.Logger
	cron *cron.Cron
	lock *flock.Flock

	running atomic.Bool
}

// New constructs a daemon. The lock file lives in the configured data dir.
func New(cfg *config.Config, run Runner, log *slog.Logger) (*Daemon, error) {
	if cfg == nil || run == nil {
		return nil, errors.New("daemon requires config and runner")
	}
	if log == nil {
		log = slog.Default()
	}
	if _, err := cron.ParseStandard(cfg.Daemon.Schedule); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", cfg.Daemon.Schedule, err)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.LockPath()), 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Daemon{
		cfg:  cfg,
		run:  run,
		log:  log,
		lock: flock.New(cfg.LockPath()),
	}, nil
}

// Start acquires the instance lock and begins the schedule. An immediate
// run happens first so a freshly started daemon is not idle until the next
// cron tick.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another jellyprep instance is already running")
	}

	d.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))
	_, err = d.cron.AddFunc(d.cfg.Daemon.Schedule, func() {
		d.runOnce(ctx)
	})
	if err != nil {
		_ = d.lock.Unlock()
		return fmt.Errorf("schedule run: %w", err)
	}

	d.running.Store(true)
	d.log.Info("daemon started",
		"schedule", d.cfg.Daemon.Schedule, "lock", d.cfg.LockPath())

	d.runOnce(ctx)
	d.cron.Start()
	return nil
}

// Stop halts the schedule and releases the lock. Blocks until any job in
// flight finishes.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	<-d.cron.Stop().Done()
	if err := d.lock.Unlock(); err != nil {
		d.log.Warn("failed to release lock", "error", err)
	}
	d.running.Store(false)
	d.log.Info("daemon stopped")
}

// Run starts the daemon and blocks until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	d.Stop()
	return nil
}

func (d *Daemon) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := d.run(ctx); err != nil {
		d.log.Error("scheduled run failed", "error", err)
	}
}
