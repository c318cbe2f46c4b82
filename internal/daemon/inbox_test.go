package daemon

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"conductor/internal/logging"
	"conductor/internal/testsupport"
)

func TestInboxMonitorSubmitsSettledFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Inbox.Enabled = true
	cfg.Inbox.SettleSeconds = 0
	store, _ := testsupport.NewJobStore(t, cfg)

	monitor := newInboxMonitor(cfg, store, logging.NewNop())
	if monitor == nil {
		t.Fatal("expected monitor for enabled inbox")
	}

	path := testsupport.WriteDocument(t, filepath.Join(cfg.Paths.InboxDir, "2026-03-14_Finanzen_rechnung.pdf"), "invoice body")
	ctx := context.Background()

	// First scan records a snapshot, second scan sees it unchanged and submits.
	monitor.scan(ctx)
	monitor.scan(ctx)

	jobs, err := store.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("len(jobs) = %d, want 1", len(jobs))
	}
	if jobs[0].Type != "ingest" || jobs[0].Payload["path"] != path {
		t.Fatalf("unexpected job %+v", jobs[0])
	}
	if jobs[0].Priority < 1 || jobs[0].Priority > 10 {
		t.Fatalf("priority %d outside 1-10", jobs[0].Priority)
	}

	// Further scans must not enqueue the same file again.
	monitor.scan(ctx)
	jobs, err = store.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("after rescan len(jobs) = %d, want 1", len(jobs))
	}
}

func TestInboxMonitorIgnoresChangingFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Inbox.Enabled = true
	cfg.Inbox.SettleSeconds = 0
	store, _ := testsupport.NewJobStore(t, cfg)

	monitor := newInboxMonitor(cfg, store, logging.NewNop())
	path := testsupport.WriteDocument(t, filepath.Join(cfg.Paths.InboxDir, "upload.partial.pdf"), "chunk one")

	ctx := context.Background()
	monitor.scan(ctx)
	if err := os.WriteFile(path, []byte("chunk one and then some more"), 0o644); err != nil {
		t.Fatalf("grow file: %v", err)
	}
	monitor.scan(ctx)

	jobs, err := store.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(jobs) != 0 {
		t.Fatalf("len(jobs) = %d, want 0 while file is still growing", len(jobs))
	}
}

func TestInboxMonitorDisabled(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Inbox.Enabled = false
	store, _ := testsupport.NewJobStore(t, cfg)

	if monitor := newInboxMonitor(cfg, store, logging.NewNop()); monitor != nil {
		t.Fatal("expected nil monitor when inbox is disabled")
	}
}

func TestInboxMonitorSkipsHiddenEntries(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Inbox.Enabled = true
	cfg.Inbox.SettleSeconds = 0
	store, _ := testsupport.NewJobStore(t, cfg)

	monitor := newInboxMonitor(cfg, store, logging.NewNop())
	testsupport.WriteDocument(t, filepath.Join(cfg.Paths.InboxDir, ".DS_Store"), "junk")
	if err := os.MkdirAll(filepath.Join(cfg.Paths.InboxDir, "subdir"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	ctx := context.Background()
	monitor.scan(ctx)
	monitor.scan(ctx)

	jobs, err := store.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(jobs) != 0 {
		t.Fatalf("len(jobs) = %d, want 0", len(jobs))
	}
}
