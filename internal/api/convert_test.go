package api

import (
	"testing"
	"time"

	"conductor/internal/jobstore"
	"conductor/internal/ledger"
)

func TestFromJobFormatsTimestamps(t *testing.T) {
	created := time.Date(2026, time.March, 14, 9, 26, 53, 0, time.UTC)
	job := &jobstore.Job{
		ID:        "job-abc",
		Type:      "ingest",
		Payload:   map[string]string{"path": "/inbox/invoice.pdf"},
		Priority:  8,
		Status:    jobstore.StatusQueued,
		CreatedAt: created,
	}

	view := FromJob(job)
	if view.CreatedAt != "2026-03-14T09:26:53.000Z" {
		t.Fatalf("CreatedAt = %q", view.CreatedAt)
	}
	if view.UpdatedAt != "" {
		t.Fatalf("expected empty UpdatedAt for zero time, got %q", view.UpdatedAt)
	}
	if view.Band != string(jobstore.BandInteractive) {
		t.Fatalf("Band = %q", view.Band)
	}
}

func TestFromJobNil(t *testing.T) {
	if view := FromJob(nil); view.ID != "" {
		t.Fatalf("expected zero view for nil job, got %+v", view)
	}
	if views := FromJobs(nil); views != nil {
		t.Fatalf("expected nil slice, got %v", views)
	}
}

func TestFromWorker(t *testing.T) {
	record := &jobstore.WorkerRecord{
		Hostname:      "mini2",
		Status:        jobstore.WorkerBusy,
		ActiveJob:     "job-abc",
		CPUPercent:    42.5,
		MemoryUsedMB:  2048,
		MemoryTotalMB: 16384,
		Timestamp:     time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC).Unix(),
	}

	view := FromWorker(record)
	if view.LastSeen != "2026-03-14T09:30:00.000Z" {
		t.Fatalf("LastSeen = %q", view.LastSeen)
	}
	if view.MemoryUsedMB != 2048 {
		t.Fatalf("MemoryUsedMB = %d", view.MemoryUsedMB)
	}
}

func TestFromLedgerStats(t *testing.T) {
	stats := FromLedgerStats(ledger.Stats{Indexed: 5, Quarantined: 2, Failed: 1})
	if stats.Total != 8 {
		t.Fatalf("Total = %d", stats.Total)
	}
}
