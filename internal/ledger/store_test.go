package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"conductor/internal/ledger"
	"conductor/internal/services"
	"conductor/internal/testsupport"
)

func TestRecordAndFindByHash(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLedger(t, cfg)
	ctx := context.Background()

	entry := &ledger.Entry{
		ContentHash: "abc123",
		SourcePath:  "/inbox/invoice.pdf",
		TargetPath:  "/archive/Finanzen/2026-08-30_Finanzen_acme.pdf",
		Filename:    "2026-08-30_Finanzen_acme.pdf",
		Category:    "Finanzen",
		Status:      ledger.StatusIndexed,
		Confidence:  0.85,
		Summary:     "Invoice from ACME for August services",
	}
	if err := store.Record(ctx, entry); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if entry.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if entry.ProcessedAt.IsZero() {
		t.Fatal("expected processed_at to be defaulted")
	}

	found, err := store.FindByHash(ctx, "abc123")
	if err != nil {
		t.Fatalf("FindByHash failed: %v", err)
	}
	if found.Category != "Finanzen" || found.Status != ledger.StatusIndexed {
		t.Fatalf("unexpected entry: %#v", found)
	}
	if found.Confidence != 0.85 {
		t.Fatalf("expected confidence round trip, got %f", found.Confidence)
	}
}

func TestRecordRejectsDuplicateHash(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLedger(t, cfg)
	ctx := context.Background()

	first := &ledger.Entry{ContentHash: "dup", SourcePath: "/inbox/a.pdf", Status: ledger.StatusIndexed}
	if err := store.Record(ctx, first); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	second := &ledger.Entry{ContentHash: "dup", SourcePath: "/inbox/b.pdf", Status: ledger.StatusIndexed}
	err := store.Record(ctx, second)
	if !errors.Is(err, services.ErrDuplicate) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestFindByHashMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLedger(t, cfg)

	_, err := store.FindByHash(context.Background(), "nope")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListRecentOrdersByProcessedAt(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLedger(t, cfg)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i, hash := range []string{"h1", "h2", "h3"} {
		entry := &ledger.Entry{
			ContentHash: hash,
			SourcePath:  "/inbox/doc.pdf",
			Status:      ledger.StatusIndexed,
			ProcessedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.Record(ctx, entry); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	entries, err := store.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ContentHash != "h3" || entries[1].ContentHash != "h2" {
		t.Fatalf("expected newest first, got %s then %s", entries[0].ContentHash, entries[1].ContentHash)
	}
}

func TestStatsCountsPerStatus(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLedger(t, cfg)
	ctx := context.Background()

	dispositions := []ledger.Status{
		ledger.StatusIndexed,
		ledger.StatusIndexed,
		ledger.StatusQuarantined,
		ledger.StatusFailed,
	}
	for i, status := range dispositions {
		entry := &ledger.Entry{
			ContentHash: string(rune('a' + i)),
			SourcePath:  "/inbox/doc.pdf",
			Status:      status,
		}
		if err := store.Record(ctx, entry); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Indexed != 2 || stats.Quarantined != 1 || stats.Failed != 1 {
		t.Fatalf("unexpected stats: %#v", stats)
	}
	if stats.Total() != 4 {
		t.Fatalf("expected total 4, got %d", stats.Total())
	}
}
