package worker_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"conductor/internal/jobstore"
	"conductor/internal/pipeline"
	"conductor/internal/testsupport"
	"conductor/internal/worker"
)

type stubRunner struct {
	mu        sync.Mutex
	processed []string
	result    *pipeline.Result
	err       error
}

func (s *stubRunner) Process(_ context.Context, job *jobstore.Job) (*pipeline.Result, error) {
	s.mu.Lock()
	s.processed = append(s.processed, job.ID)
	s.mu.Unlock()
	if s.err != nil {
		return &pipeline.Result{State: pipeline.StateFailed}, s.err
	}
	if s.result != nil {
		return s.result, nil
	}
	return &pipeline.Result{State: pipeline.StateIndexed}, nil
}

func (s *stubRunner) seen() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.processed))
	copy(out, s.processed)
	return out
}

type toggleSignal struct {
	active atomic.Bool
	reason string
}

func (t *toggleSignal) Active() (bool, string) {
	return t.active.Load(), t.reason
}

func submit(t *testing.T, store *jobstore.Store, id string, priority int) {
	t.Helper()
	_, err := store.Submit(context.Background(), &jobstore.Job{
		ID:       id,
		Type:     "ingest",
		Payload:  map[string]string{"path": "/inbox/" + id + ".pdf"},
		Priority: priority,
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func newWorker(t *testing.T, runner worker.Runner, opts ...worker.Option) (*worker.Worker, *jobstore.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store, _ := testsupport.NewJobStore(t, cfg)
	base := []worker.Option{worker.WithIntervals(50*time.Millisecond, 20*time.Millisecond, 20*time.Millisecond)}
	w := worker.New(cfg, store, runner, nil, nil, append(base, opts...)...)
	return w, store
}

func TestWorkerProcessesQueuedJobs(t *testing.T) {
	runner := &stubRunner{}
	w, store := newWorker(t, runner)

	submit(t, store, "batch-job", 3)
	submit(t, store, "urgent-job", 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()

	waitFor(t, 3*time.Second, func() bool { return len(runner.seen()) == 2 })
	cancel()
	<-done

	seen := runner.seen()
	// Interactive band drains before batch.
	if seen[0] != "urgent-job" || seen[1] != "batch-job" {
		t.Fatalf("unexpected processing order %v", seen)
	}

	job, err := store.GetJob(context.Background(), "urgent-job")
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if job.Status != jobstore.StatusDone {
		t.Fatalf("expected done, got %s", job.Status)
	}
}

func TestWorkerMarksFailedJobsAndContinues(t *testing.T) {
	runner := &stubRunner{err: errors.New("pipeline exploded")}
	w, store := newWorker(t, runner)

	submit(t, store, "doomed", 3)
	submit(t, store, "also-doomed", 3)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()

	waitFor(t, 3*time.Second, func() bool { return len(runner.seen()) == 2 })
	cancel()
	<-done

	job, err := store.GetJob(context.Background(), "doomed")
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if job.Status != jobstore.StatusFailed {
		t.Fatalf("expected failed, got %s", job.Status)
	}
	if job.Error == "" {
		t.Fatal("expected error text recorded on job")
	}
}

func TestWorkerPausesOnContentionAndResumes(t *testing.T) {
	runner := &stubRunner{}
	signal := &toggleSignal{reason: "steam"}
	signal.active.Store(true)
	w, store := newWorker(t, runner, worker.WithSignal(signal))

	submit(t, store, "waiting-job", 3)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()

	// While contended the worker heartbeats a paused status and never
	// dequeues.
	waitFor(t, 3*time.Second, func() bool {
		workers, err := store.ListWorkers(context.Background())
		if err != nil || len(workers) != 1 {
			return false
		}
		return strings.HasPrefix(workers[0].Status, jobstore.WorkerPausedPrefix)
	})
	if len(runner.seen()) != 0 {
		t.Fatal("paused worker must not dequeue")
	}

	// Clearing the signal resumes processing without a restart.
	signal.active.Store(false)
	waitFor(t, 3*time.Second, func() bool { return len(runner.seen()) == 1 })
	cancel()
	<-done
}

func TestWorkerHonorsStopCommandBetweenJobs(t *testing.T) {
	runner := &stubRunner{}
	w, store := newWorker(t, runner)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()

	// Wait for registration, then send stop through the mailbox.
	waitFor(t, 3*time.Second, func() bool {
		workers, err := store.ListWorkers(context.Background())
		return err == nil && len(workers) == 1
	})
	if _, err := store.SendCommand(context.Background(), "", jobstore.CommandStop); err != nil {
		t.Fatalf("SendCommand failed: %v", err)
	}

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("worker did not stop on command")
	}
}

func TestWorkerPauseAndResumeCommands(t *testing.T) {
	runner := &stubRunner{}
	w, store := newWorker(t, runner)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()

	waitFor(t, 3*time.Second, func() bool {
		workers, err := store.ListWorkers(context.Background())
		return err == nil && len(workers) == 1
	})
	if _, err := store.SendCommand(context.Background(), "", jobstore.CommandPause); err != nil {
		t.Fatalf("SendCommand failed: %v", err)
	}
	waitFor(t, 3*time.Second, func() bool {
		workers, err := store.ListWorkers(context.Background())
		if err != nil || len(workers) != 1 {
			return false
		}
		return strings.HasPrefix(workers[0].Status, jobstore.WorkerPausedPrefix)
	})

	// Jobs submitted while paused wait.
	submit(t, store, "held-job", 3)
	time.Sleep(100 * time.Millisecond)
	if len(runner.seen()) != 0 {
		t.Fatal("paused worker must not process")
	}

	if _, err := store.SendCommand(context.Background(), "", jobstore.CommandResume); err != nil {
		t.Fatalf("SendCommand failed: %v", err)
	}
	waitFor(t, 3*time.Second, func() bool { return len(runner.seen()) == 1 })
	cancel()
	<-done
}
