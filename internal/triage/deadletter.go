package triage

import (
	"context"
	"log/slog"

	"conductor/internal/jobstore"
	"conductor/internal/logging"
)

const defaultDeadLetterThreshold = 3

// Triage tracks repeated failures per content hash and routes chronic
// offenders to the dead-letter list instead of letting them cycle
// through the queues forever.
type Triage struct {
	store     *jobstore.Store
	threshold int
	logger    *slog.Logger
}

// New builds a triage helper. A threshold <= 0 selects the default.
func New(store *jobstore.Store, threshold int, logger *slog.Logger) *Triage {
	if threshold <= 0 {
		threshold = defaultDeadLetterThreshold
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Triage{store: store, threshold: threshold, logger: logger}
}

// RecordFailure bumps the failure counter for the job's content and, at
// the threshold, pushes the job onto the dead-letter list. Returns true
// when the job was dead-lettered, meaning the caller must not resubmit.
func (t *Triage) RecordFailure(ctx context.Context, job *jobstore.Job, contentHash string) (bool, error) {
	if contentHash == "" {
		contentHash = job.ID
	}
	count, err := t.store.IncrFailure(ctx, contentHash)
	if err != nil {
		return false, err
	}
	if count < int64(t.threshold) {
		t.logger.Info("failure recorded",
			logging.String(logging.FieldJobID, job.ID),
			logging.Int64("failures", count),
			logging.Int("threshold", t.threshold))
		return false, nil
	}

	if err := t.store.PushDeadLetter(ctx, job); err != nil {
		return false, err
	}
	t.logger.Warn("job dead-lettered",
		logging.String(logging.FieldJobID, job.ID),
		logging.Int64("failures", count))
	return true, nil
}
