package jobstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"conductor/internal/config"
	"conductor/internal/services"
)

// Store manages job records, queue lists, worker liveness, and command
// mailboxes in a shared Redis instance. The atomic blocking pop on the queue
// lists is the sole mutual-exclusion mechanism between competing workers.
type Store struct {
	client     *redis.Client
	jobTTL     time.Duration
	commandTTL time.Duration
}

// Open connects to Redis using application config and verifies the
// connection.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	store := NewWithClient(client, cfg)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, services.Wrap(services.ErrUnavailable, "jobstore", "ping", "redis unreachable", err)
	}
	return store, nil
}

// NewWithClient wraps an existing Redis client; used by tests.
func NewWithClient(client *redis.Client, cfg *config.Config) *Store {
	jobTTL := 24 * time.Hour
	commandTTL := 30 * time.Second
	if cfg != nil {
		if cfg.Redis.JobTTLHours > 0 {
			jobTTL = time.Duration(cfg.Redis.JobTTLHours) * time.Hour
		}
		if cfg.Redis.CommandTTLSeconds > 0 {
			commandTTL = time.Duration(cfg.Redis.CommandTTLSeconds) * time.Second
		}
	}
	return &Store{client: client, jobTTL: jobTTL, commandTTL: commandTTL}
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

// Ping verifies store connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// SubmitResult reports the outcome of a submission.
type SubmitResult struct {
	Job      *Job
	Position int
	Existing bool
}

// Submit validates and deduplicates a job request, assigns an id if absent,
// writes the record with the retention TTL, and appends it to the list named
// by its priority band. Re-submission with an existing id is a no-op that
// returns the current status.
func (s *Store) Submit(ctx context.Context, job *Job) (*SubmitResult, error) {
	if err := validateSubmission(job); err != nil {
		return nil, err
	}
	if strings.TrimSpace(job.ID) == "" {
		job.ID = DeterministicID(job.Type, job.Payload)
	}

	existing, err := s.GetJob(ctx, job.ID)
	if err != nil && !errors.Is(err, services.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return &SubmitResult{Job: existing, Existing: true}, nil
	}

	job.Status = StatusQueued
	job.CreatedAt = time.Now().UTC()
	if job.EstimatedMS == 0 {
		job.EstimatedMS = EstimateDuration(job.Type)
	}

	encoded, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("marshal job: %w", err)
	}
	if err := s.client.Set(ctx, jobKey(job.ID), encoded, s.jobTTL).Err(); err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "jobstore", "submit", "store job record", err)
	}
	position, err := s.client.RPush(ctx, queueKey(job.Band()), encoded).Result()
	if err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "jobstore", "submit", "enqueue job", err)
	}
	return &SubmitResult{Job: job, Position: int(position)}, nil
}

// GetJob fetches a job record by id.
func (s *Store) GetJob(ctx context.Context, id string) (*Job, error) {
	raw, err := s.client.Get(ctx, jobKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, services.Wrap(services.ErrNotFound, "jobstore", "get", fmt.Sprintf("job %s", id), nil)
	}
	if err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "jobstore", "get", "read job record", err)
	}
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", id, err)
	}
	return &job, nil
}

// UpdateJob persists a mutated job record, preserving the remaining
// retention TTL.
func (s *Store) UpdateJob(ctx context.Context, job *Job) error {
	if job == nil || strings.TrimSpace(job.ID) == "" {
		return errors.New("job is nil or missing id")
	}
	job.UpdatedAt = time.Now().UTC()
	encoded, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := s.client.Set(ctx, jobKey(job.ID), encoded, redis.KeepTTL).Err(); err != nil {
		return services.Wrap(services.ErrUnavailable, "jobstore", "update", "write job record", err)
	}
	return nil
}

// SetJobStatus is a convenience wrapper updating only status and error text.
func (s *Store) SetJobStatus(ctx context.Context, id string, status Status, errText string) error {
	job, err := s.GetJob(ctx, id)
	if err != nil {
		return err
	}
	job.Status = status
	job.Error = errText
	return s.UpdateJob(ctx, job)
}

// PopNext blocks up to timeout for the next job across the priority-ordered
// queue lists, interactive before batch. Returns nil when the timeout lapses
// with both lists empty.
func (s *Store) PopNext(ctx context.Context, timeout time.Duration) (*Job, error) {
	res, err := s.client.BLPop(ctx, timeout, popOrder...).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "jobstore", "pop", "blocking pop", err)
	}
	if len(res) < 2 {
		return nil, fmt.Errorf("unexpected blpop reply of length %d", len(res))
	}
	var job Job
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return nil, fmt.Errorf("decode queued job: %w", err)
	}
	return &job, nil
}

// ListRecent returns up to limit jobs sorted descending by creation time,
// ties broken by id for deterministic output.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]*Job, error) {
	if limit <= 0 {
		limit = 20
	}
	var jobs []*Job
	iter := s.client.Scan(ctx, 0, jobKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		raw, err := s.client.Get(ctx, iter.Val()).Result()
		if errors.Is(err, redis.Nil) {
			continue // expired between scan and get
		}
		if err != nil {
			return nil, services.Wrap(services.ErrUnavailable, "jobstore", "list", "read job record", err)
		}
		var job Job
		if err := json.Unmarshal([]byte(raw), &job); err != nil {
			continue
		}
		jobs = append(jobs, &job)
	}
	if err := iter.Err(); err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "jobstore", "list", "scan job keys", err)
	}
	sort.Slice(jobs, func(i, j int) bool {
		if !jobs[i].CreatedAt.Equal(jobs[j].CreatedAt) {
			return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
		}
		return jobs[i].ID < jobs[j].ID
	})
	if len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs, nil
}

// ClearQueue drains and discards a band's list, returning the number of
// queue entries removed. Job records are untouched; they remain the source
// of truth for status.
func (s *Store) ClearQueue(ctx context.Context, band Band) (int64, error) {
	key := queueKey(band)
	count, err := s.client.LLen(ctx, key).Result()
	if err != nil {
		return 0, services.Wrap(services.ErrUnavailable, "jobstore", "clear", "queue length", err)
	}
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return 0, services.Wrap(services.ErrUnavailable, "jobstore", "clear", "delete queue", err)
	}
	return count, nil
}

// QueueDepths reports the current length of the interactive and batch lists.
func (s *Store) QueueDepths(ctx context.Context) (interactive, batch int64, err error) {
	interactive, err = s.client.LLen(ctx, queueInteractiveKey).Result()
	if err != nil {
		return 0, 0, services.Wrap(services.ErrUnavailable, "jobstore", "depths", "interactive length", err)
	}
	batch, err = s.client.LLen(ctx, queueBatchKey).Result()
	if err != nil {
		return 0, 0, services.Wrap(services.ErrUnavailable, "jobstore", "depths", "batch length", err)
	}
	return interactive, batch, nil
}

// PushDeadLetter appends a job to the dead-letter list, out of the normal
// retry flow.
func (s *Store) PushDeadLetter(ctx context.Context, job *Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := s.client.RPush(ctx, queueDeadLetterKey, encoded).Err(); err != nil {
		return services.Wrap(services.ErrUnavailable, "jobstore", "dead-letter", "push", err)
	}
	return nil
}

// IncrFailure bumps the failure counter for a piece of content and returns
// the new count. Counters share the job retention window.
func (s *Store) IncrFailure(ctx context.Context, contentHash string) (int64, error) {
	key := failureKey(contentHash)
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, services.Wrap(services.ErrUnavailable, "jobstore", "failures", "increment", err)
	}
	// Refresh expiry so the window tracks the most recent failure.
	_ = s.client.Expire(ctx, key, s.jobTTL).Err()
	return count, nil
}

// FailureCount reads the failure counter for a piece of content.
func (s *Store) FailureCount(ctx context.Context, contentHash string) (int64, error) {
	count, err := s.client.Get(ctx, failureKey(contentHash)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, services.Wrap(services.ErrUnavailable, "jobstore", "failures", "read", err)
	}
	return count, nil
}

func validateSubmission(job *Job) error {
	if job == nil {
		return services.Wrap(services.ErrValidation, "jobstore", "submit", "job is nil", nil)
	}
	if strings.TrimSpace(job.Type) == "" {
		return services.Wrap(services.ErrValidation, "jobstore", "submit", "job type must be set", nil)
	}
	if job.Priority == 0 {
		job.Priority = 1
	}
	if job.Priority < 1 || job.Priority > 10 {
		return services.Wrap(services.ErrValidation, "jobstore", "submit", fmt.Sprintf("priority %d outside 1-10", job.Priority), nil)
	}
	if strings.TrimSpace(job.SourcePath()) == "" {
		return services.Wrap(services.ErrValidation, "jobstore", "submit", "payload requires a source path", nil)
	}
	return nil
}
