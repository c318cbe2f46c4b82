package worker

import (
	"context"
	"log/slog"
	"time"

	"conductor/internal/config"
	"conductor/internal/jobstore"
	"conductor/internal/logging"
	"conductor/internal/pipeline"
	"conductor/internal/power"
	"conductor/internal/triage"
)

// Runner is the slice of the pipeline a worker drives.
type Runner interface {
	Process(ctx context.Context, job *jobstore.Job) (*pipeline.Result, error)
}

// Worker is the single-threaded scheduler loop of one worker node. It
// competes with other workers for jobs through the store's blocking pop;
// that pop is the only mutual exclusion the design needs.
type Worker struct {
	cfg       *config.Config
	store     *jobstore.Store
	runner    Runner
	signal    power.Signal
	inhibitor power.Inhibitor
	triage    *triage.Triage
	logger    *slog.Logger

	hostname          string
	heartbeatInterval time.Duration
	popTimeout        time.Duration
	pauseInterval     time.Duration
	errorRetry        time.Duration

	paused bool
	stop   bool
}

// Option customizes a worker, mostly for tests.
type Option func(*Worker)

// WithSignal overrides the contention signal.
func WithSignal(signal power.Signal) Option {
	return func(w *Worker) {
		if signal != nil {
			w.signal = signal
		}
	}
}

// WithInhibitor overrides the sleep inhibitor.
func WithInhibitor(inhibitor power.Inhibitor) Option {
	return func(w *Worker) {
		if inhibitor != nil {
			w.inhibitor = inhibitor
		}
	}
}

// WithIntervals overrides the loop timing wholesale.
func WithIntervals(pop, pause, errorRetry time.Duration) Option {
	return func(w *Worker) {
		if pop > 0 {
			w.popTimeout = pop
		}
		if pause > 0 {
			w.pauseInterval = pause
		}
		if errorRetry > 0 {
			w.errorRetry = errorRetry
		}
	}
}

// New assembles a worker from configuration.
func New(cfg *config.Config, store *jobstore.Store, runner Runner, tr *triage.Triage, logger *slog.Logger, opts ...Option) *Worker {
	if logger == nil {
		logger = logging.NewNop()
	}
	w := &Worker{
		cfg:               cfg,
		store:             store,
		runner:            runner,
		signal:            power.NewProcessSignal(cfg.Worker.ContentionProcesses),
		inhibitor:         power.NewInhibitor(cfg.Worker.PreventSleep, logger),
		triage:            tr,
		logger:            logger.With(logging.String(logging.FieldComponent, "worker")),
		hostname:          cfg.Worker.Hostname,
		heartbeatInterval: time.Duration(cfg.Worker.HeartbeatInterval) * time.Second,
		popTimeout:        time.Duration(cfg.Worker.PopTimeout) * time.Second,
		pauseInterval:     time.Duration(cfg.Worker.PauseInterval) * time.Second,
		errorRetry:        time.Duration(cfg.Worker.ErrorRetryInterval) * time.Second,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run executes the scheduler loop until the context is canceled or a
// stop command arrives. The sleep-prevention scope spans the whole loop
// and is released on every exit path.
func (w *Worker) Run(ctx context.Context) error {
	release, err := w.inhibitor.Acquire(ctx)
	if err != nil {
		w.logger.Warn("sleep prevention unavailable", logging.Error(err))
		release = func() {}
	}
	defer release()

	w.logger.Info("worker started", logging.String(logging.FieldWorker, w.hostname))
	defer w.logger.Info("worker stopped", logging.String(logging.FieldWorker, w.hostname))

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if w.stop {
			return nil
		}

		if active, reason := w.signal.Active(); active {
			w.applyCommand(w.heartbeat(ctx, pausedStatus("CONTENTION", reason), ""))
			if !sleepCtx(ctx, w.pauseInterval) {
				return nil
			}
			continue
		}
		if w.paused {
			w.applyCommand(w.heartbeat(ctx, pausedStatus("MANUAL", ""), ""))
			if !sleepCtx(ctx, w.pauseInterval) {
				return nil
			}
			continue
		}

		w.applyCommand(w.heartbeat(ctx, jobstore.WorkerIdle, ""))
		if w.stop || w.paused {
			continue
		}

		job, err := w.store.PopNext(ctx, w.popTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			w.logger.Error("job store unreachable, backing off", logging.Error(err))
			if !sleepCtx(ctx, w.errorRetry) {
				return nil
			}
			continue
		}
		if job == nil {
			continue
		}

		w.runJob(ctx, job)
	}
}

// runJob executes one job and never lets its failure escape the loop.
func (w *Worker) runJob(ctx context.Context, job *jobstore.Job) {
	logger := w.logger.With(logging.String(logging.FieldJobID, job.ID))
	logger.Info("job claimed", logging.String(logging.FieldJobType, job.Type))

	if err := w.store.SetJobStatus(ctx, job.ID, jobstore.StatusProcessing, ""); err != nil {
		logger.Warn("could not mark job processing", logging.Error(err))
	}
	w.applyCommand(w.heartbeat(ctx, jobstore.WorkerBusy, job.ID))

	result, err := w.runner.Process(ctx, job)
	if err != nil {
		logger.Error("job failed", logging.Error(err))
		if statusErr := w.store.SetJobStatus(ctx, job.ID, jobstore.StatusFailed, err.Error()); statusErr != nil {
			logger.Warn("could not mark job failed", logging.Error(statusErr))
		}
		if w.triage != nil {
			if _, triageErr := w.triage.RecordFailure(ctx, job, job.Payload["content_hash"]); triageErr != nil {
				logger.Warn("failure accounting failed", logging.Error(triageErr))
			}
		}
		return
	}

	status := jobstore.StatusDone
	if result.State == pipeline.StateQuarantined {
		status = jobstore.StatusQuarantined
	}
	if err := w.store.SetJobStatus(ctx, job.ID, status, ""); err != nil {
		logger.Warn("could not record job outcome", logging.Error(err))
	}
	logger.Info("job finished",
		logging.String("outcome", string(result.State)),
		logging.String("target", result.TargetPath))
}

// heartbeat publishes liveness plus host metrics and drains the command
// mailbox. Store trouble degrades to continue; the loop's own backoff
// handles persistent outages.
func (w *Worker) heartbeat(ctx context.Context, status, activeJob string) jobstore.Command {
	metrics := power.Sample()
	record := &jobstore.WorkerRecord{
		Hostname:      w.hostname,
		Status:        status,
		ActiveJob:     activeJob,
		CPUPercent:    metrics.CPUPercent,
		MemoryUsedMB:  int64(metrics.MemoryUsedMB),
		MemoryTotalMB: int64(metrics.MemoryTotalMB),
		Timestamp:     time.Now().Unix(),
	}
	cmd, err := w.store.Heartbeat(ctx, record, w.heartbeatInterval)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Warn("heartbeat failed", logging.Error(err))
		}
		return jobstore.CommandContinue
	}
	return cmd
}

func (w *Worker) applyCommand(cmd jobstore.Command) {
	switch cmd {
	case jobstore.CommandPause:
		if !w.paused {
			w.logger.Info("pause command received")
		}
		w.paused = true
	case jobstore.CommandResume, jobstore.CommandStart:
		if w.paused {
			w.logger.Info("resume command received")
		}
		w.paused = false
	case jobstore.CommandStop:
		w.logger.Info("stop command received, finishing current iteration")
		w.stop = true
	}
}

func pausedStatus(reason, detail string) string {
	status := jobstore.WorkerPausedPrefix + reason
	if detail != "" {
		status += " (" + detail + ")"
	}
	return status
}

// sleepCtx sleeps for d unless the context ends first; returns false on
// cancellation.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
