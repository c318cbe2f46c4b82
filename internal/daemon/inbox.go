package daemon

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"log/slog"

	"golang.org/x/sync/errgroup"

	"conductor/internal/config"
	"conductor/internal/jobstore"
	"conductor/internal/logging"
	"conductor/internal/triage"
)

// fileSnapshot records the last observed size and mtime of an inbox candidate.
type fileSnapshot struct {
	size    int64
	modTime time.Time
	seen    time.Time
}

// inboxMonitor polls the inbox directory and submits an ingest job for every
// file that has stopped changing. Submission uses the deterministic job id,
// so re-observing a file between scans never enqueues it twice.
type inboxMonitor struct {
	cfg    *config.Config
	store  *jobstore.Store
	logger *slog.Logger

	interval time.Duration
	settle   time.Duration

	candidates map[string]fileSnapshot
	submitted  map[string]struct{}

	group  *errgroup.Group
	cancel context.CancelFunc
}

func newInboxMonitor(cfg *config.Config, store *jobstore.Store, logger *slog.Logger) *inboxMonitor {
	if cfg == nil || !cfg.Inbox.Enabled || strings.TrimSpace(cfg.Paths.InboxDir) == "" {
		return nil
	}
	interval := time.Duration(cfg.Inbox.PollInterval) * time.Second
	if interval <= 0 {
		interval = 5 * time.Second
	}
	settle := time.Duration(cfg.Inbox.SettleSeconds) * time.Second
	return &inboxMonitor{
		cfg:        cfg,
		store:      store,
		logger:     logger,
		interval:   interval,
		settle:     settle,
		candidates: make(map[string]fileSnapshot),
		submitted:  make(map[string]struct{}),
	}
}

func (m *inboxMonitor) start(ctx context.Context) {
	if m == nil {
		return
	}
	monitorCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.group, monitorCtx = errgroup.WithContext(monitorCtx)
	m.group.Go(func() error {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return nil
			case <-ticker.C:
				m.scan(monitorCtx)
			}
		}
	})
	m.log().Info("inbox monitor started",
		logging.String("directory", m.cfg.Paths.InboxDir),
		logging.Duration("poll_interval", m.interval))
}

func (m *inboxMonitor) stop() {
	if m == nil || m.cancel == nil {
		return
	}
	m.cancel()
	_ = m.group.Wait()
	m.cancel = nil
}

// scan walks the inbox once, refreshing snapshots and submitting files whose
// size and mtime survived the settle window unchanged.
func (m *inboxMonitor) scan(ctx context.Context) {
	entries, err := os.ReadDir(m.cfg.Paths.InboxDir)
	if err != nil {
		m.log().Warn("inbox scan failed", logging.Error(err))
		return
	}

	now := time.Now()
	present := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		path := filepath.Join(m.cfg.Paths.InboxDir, entry.Name())
		present[path] = struct{}{}
		if _, done := m.submitted[path]; done {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}

		snap, known := m.candidates[path]
		if !known || snap.size != info.Size() || !snap.modTime.Equal(info.ModTime()) {
			m.candidates[path] = fileSnapshot{size: info.Size(), modTime: info.ModTime(), seen: now}
			continue
		}
		if now.Sub(snap.seen) < m.settle {
			continue
		}
		if m.submit(ctx, path, info) {
			m.submitted[path] = struct{}{}
			delete(m.candidates, path)
		}
	}

	// Forget files that left the inbox so a later re-drop is treated fresh.
	for path := range m.candidates {
		if _, ok := present[path]; !ok {
			delete(m.candidates, path)
		}
	}
	for path := range m.submitted {
		if _, ok := present[path]; !ok {
			delete(m.submitted, path)
		}
	}
}

func (m *inboxMonitor) submit(ctx context.Context, path string, info os.FileInfo) bool {
	priority := triage.ScorePriority(path, info.Size(), info.ModTime())
	result, err := m.store.Submit(ctx, &jobstore.Job{
		Type:     "ingest",
		Payload:  map[string]string{"path": path},
		Priority: priority,
	})
	if err != nil {
		m.log().Warn("inbox submission failed",
			logging.String(logging.FieldSource, path),
			logging.Error(err))
		return false
	}
	m.log().Info("inbox file queued",
		logging.String(logging.FieldJobID, result.Job.ID),
		logging.String(logging.FieldSource, path),
		logging.Int("priority", priority),
		logging.Bool("existing", result.Existing))
	return true
}

func (m *inboxMonitor) log() *slog.Logger {
	if m.logger == nil {
		return logging.NewNop()
	}
	return m.logger.With(logging.String(logging.FieldComponent, "inbox"))
}
