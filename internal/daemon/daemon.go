package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"log/slog"

	"github.com/gofrs/flock"

	"conductor/internal/api"
	"conductor/internal/config"
	"conductor/internal/jobstore"
	"conductor/internal/ledger"
	"conductor/internal/logging"
	"conductor/internal/notifications"
)

// Daemon coordinates the submission gateway, the inbox monitor, and the
// HTTP front door, and enforces single-instance execution via a lock file.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *jobstore.Store
	ledger   *ledger.Store
	notifier notifications.Service

	lockPath string
	lock     *flock.Flock

	apiSrv *apiServer
	inbox  *inboxMonitor

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *jobstore.Store, ledgerStore *ledger.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || logger == nil {
		return nil, errors.New("daemon requires config, job store, and logger")
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "conductord.lock")
	d := &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		ledger:   ledgerStore,
		notifier: notifications.NewService(cfg),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}

	apiSrv, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.apiSrv = apiSrv
	d.inbox = newInboxMonitor(cfg, store, logger)
	return d, nil
}

// Start acquires the daemon lock and launches the HTTP server and inbox monitor.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another conductor daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if d.apiSrv != nil {
		if err := d.apiSrv.start(d.ctx); err != nil {
			_ = d.lock.Unlock()
			d.cancel()
			d.ctx = nil
			d.cancel = nil
			return fmt.Errorf("start api server: %w", err)
		}
	}
	if d.inbox != nil {
		d.inbox.start(d.ctx)
	}

	d.running.Store(true)
	d.logger.Info("conductor daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop stops background services and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.inbox != nil {
		d.inbox.stop()
	}
	if d.apiSrv != nil {
		d.apiSrv.stop()
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("conductor daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	var errs []error
	if d.store != nil {
		errs = append(errs, d.store.Close())
	}
	if d.ledger != nil {
		errs = append(errs, d.ledger.Close())
	}
	return errors.Join(errs...)
}

// Submit validates and enqueues a job.
func (d *Daemon) Submit(ctx context.Context, job *jobstore.Job) (*jobstore.SubmitResult, error) {
	return d.store.Submit(ctx, job)
}

// GetJob returns a job record by id.
func (d *Daemon) GetJob(ctx context.Context, id string) (*jobstore.Job, error) {
	return d.store.GetJob(ctx, id)
}

// ListRecent returns the most recently created job records.
func (d *Daemon) ListRecent(ctx context.Context, limit int) ([]*jobstore.Job, error) {
	return d.store.ListRecent(ctx, limit)
}

// ClearQueue discards queued entries from one band and reports the count.
func (d *Daemon) ClearQueue(ctx context.Context, band jobstore.Band) (int64, error) {
	return d.store.ClearQueue(ctx, band)
}

// Workers returns the live worker records.
func (d *Daemon) Workers(ctx context.Context) ([]*jobstore.WorkerRecord, error) {
	return d.store.ListWorkers(ctx)
}

// SendCommand delivers a command to a worker mailbox. An empty hostname
// targets one arbitrary live worker.
func (d *Daemon) SendCommand(ctx context.Context, hostname string, cmd jobstore.Command) (string, error) {
	return d.store.SendCommand(ctx, hostname, cmd)
}

// RecordHeartbeat stores a worker liveness report and returns the pending
// command for that worker.
func (d *Daemon) RecordHeartbeat(ctx context.Context, record *jobstore.WorkerRecord) (jobstore.Command, error) {
	interval := time.Duration(d.cfg.Worker.HeartbeatInterval) * time.Second
	return d.store.Heartbeat(ctx, record, interval)
}

// TestNotification triggers a test notification using the current configuration.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string, error) {
	if strings.TrimSpace(d.cfg.Notifications.NtfyTopic) == "" {
		return false, "ntfy topic not configured", nil
	}
	if err := d.notifier.TestNotification(ctx); err != nil {
		return false, "failed to send notification", err
	}
	return true, "test notification sent", nil
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) api.StatusResponse {
	status := api.StatusResponse{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		LockFilePath: d.lockPath,
	}
	if interactive, batch, err := d.store.QueueDepths(ctx); err == nil {
		status.InteractiveDepth = interactive
		status.BatchDepth = batch
	} else {
		d.logger.Warn("queue depth lookup failed", logging.Error(err))
	}
	if workers, err := d.store.ListWorkers(ctx); err == nil {
		status.Workers = api.FromWorkers(workers)
	} else {
		d.logger.Warn("worker list lookup failed", logging.Error(err))
	}
	if d.ledger != nil {
		if stats, err := d.ledger.Stats(ctx); err == nil {
			status.Ledger = api.FromLedgerStats(stats)
		} else {
			d.logger.Warn("ledger stats lookup failed", logging.Error(err))
		}
	}
	return status
}

// LockPath returns the daemon lock file location.
func (d *Daemon) LockPath() string {
	return d.lockPath
}
