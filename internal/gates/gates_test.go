package gates_test

import (
	"context"
	"path/filepath"
	"testing"

	"conductor/internal/gates"
	"conductor/internal/ledger"
	"conductor/internal/testsupport"
)

func passingInput(t *testing.T, archiveDir string) gates.Input {
	t.Helper()
	return gates.Input{
		ContentHash:      "hash-pass",
		OriginalFilename: "Rechnung_Bauhaus.pdf",
		NewFilename:      "2026-08-30_Finanzen_Bauhaus.pdf",
		TargetFolder:     filepath.Join(archiveDir, "Finanzen"),
		Category:         "Finanzen",
		Confidence:       0.85,
		MIMEType:         "application/pdf",
		ExtractedText:    "Bauhaus Rechnung über 127,50 EUR für Gartenmaterial im August",
		Description:      "Bauhaus invoice for garden supplies",
	}
}

func newEngine(t *testing.T) (*gates.Engine, *ledger.Store, string) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	store := testsupport.MustOpenLedger(t, cfg)
	engine := gates.NewEngine(cfg.Gates.ConfidenceFloor, cfg.Gates.ConfidenceTarget, store)
	return engine, store, cfg.Paths.ArchiveDir
}

func TestRunPassesCleanInput(t *testing.T) {
	engine, _, archiveDir := newEngine(t)

	report := engine.Run(context.Background(), passingInput(t, archiveDir))
	if !report.Passed {
		t.Fatalf("expected pass, got reason %q", report.QuarantineReason)
	}
	if len(report.Results) != 7 {
		t.Fatalf("expected 7 gate results, got %d", len(report.Results))
	}
	if len(report.Warnings()) != 0 {
		t.Fatalf("expected no warnings, got %#v", report.Warnings())
	}
}

func TestRunIsDeterministic(t *testing.T) {
	engine, _, archiveDir := newEngine(t)
	in := passingInput(t, archiveDir)
	in.Confidence = 0.3
	in.Category = "Unbekannt"

	first := engine.Run(context.Background(), in)
	second := engine.Run(context.Background(), in)
	if first.Passed || second.Passed {
		t.Fatal("expected failure")
	}
	if first.QuarantineReason != second.QuarantineReason || first.Bucket != second.Bucket {
		t.Fatalf("expected identical outcomes, got %q/%q and %q/%q",
			first.QuarantineReason, first.Bucket, second.QuarantineReason, second.Bucket)
	}
	// Category is evaluated before confidence, so it names the reason.
	if first.Bucket != gates.BucketReviewNeeded {
		t.Fatalf("expected review bucket from first failing gate, got %s", first.Bucket)
	}
}

func TestLowConfidenceRoutesToLowConfidenceBucket(t *testing.T) {
	engine, _, archiveDir := newEngine(t)
	in := passingInput(t, archiveDir)
	in.Confidence = 0.4

	report := engine.Run(context.Background(), in)
	if report.Passed {
		t.Fatal("expected failure below the hard floor")
	}
	if report.Bucket != gates.BucketLowConfidence {
		t.Fatalf("expected %s, got %s", gates.BucketLowConfidence, report.Bucket)
	}
}

func TestConfidenceBetweenFloorsOnlyWarns(t *testing.T) {
	engine, _, archiveDir := newEngine(t)
	in := passingInput(t, archiveDir)
	in.Confidence = 0.6

	report := engine.Run(context.Background(), in)
	if !report.Passed {
		t.Fatalf("expected pass with warning, got reason %q", report.QuarantineReason)
	}
	if len(report.Warnings()) != 1 {
		t.Fatalf("expected one warning, got %#v", report.Warnings())
	}
}

func TestDuplicateWinsRegardlessOfConfidence(t *testing.T) {
	engine, store, archiveDir := newEngine(t)
	ctx := context.Background()

	if err := store.Record(ctx, &ledger.Entry{
		ContentHash: "hash-dup",
		SourcePath:  "/inbox/first.pdf",
		TargetPath:  filepath.Join(archiveDir, "Finanzen", "2026-08-01_Finanzen_first.pdf"),
		Status:      ledger.StatusIndexed,
	}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	in := passingInput(t, archiveDir)
	in.ContentHash = "hash-dup"
	in.Confidence = 0.1 // would fail the confidence gate too

	report := engine.Run(ctx, in)
	if report.Passed {
		t.Fatal("expected duplicate failure")
	}
	if report.Bucket != gates.BucketDuplicates {
		t.Fatalf("expected %s, got %s", gates.BucketDuplicates, report.Bucket)
	}
}

func TestCollisionRoutesToReview(t *testing.T) {
	engine, _, archiveDir := newEngine(t)
	in := passingInput(t, archiveDir)
	testsupport.WriteDocument(t, filepath.Join(in.TargetFolder, in.NewFilename), "already there")

	report := engine.Run(context.Background(), in)
	if report.Passed {
		t.Fatal("expected collision failure")
	}
	if report.Bucket != gates.BucketReviewNeeded {
		t.Fatalf("expected %s, got %s", gates.BucketReviewNeeded, report.Bucket)
	}
}

func TestUnsafeFilenameCharactersFailHard(t *testing.T) {
	engine, _, archiveDir := newEngine(t)
	in := passingInput(t, archiveDir)
	in.NewFilename = `2026-08-30_Finanzen_bad|name.pdf`

	report := engine.Run(context.Background(), in)
	if report.Passed {
		t.Fatal("expected failure on unsafe characters")
	}
	if report.Bucket != gates.BucketReviewNeeded {
		t.Fatalf("expected review bucket, got %s", report.Bucket)
	}
}

func TestSchemeDeviationOnlyWarns(t *testing.T) {
	engine, _, archiveDir := newEngine(t)
	in := passingInput(t, archiveDir)
	in.NewFilename = "freeform-name.pdf"

	report := engine.Run(context.Background(), in)
	if !report.Passed {
		t.Fatalf("expected pass, got reason %q", report.QuarantineReason)
	}
	if len(report.Warnings()) != 1 {
		t.Fatalf("expected one warning, got %#v", report.Warnings())
	}
}

func TestMIMEMismatchOnlyWarns(t *testing.T) {
	engine, _, archiveDir := newEngine(t)
	in := passingInput(t, archiveDir)
	in.MIMEType = "application/zip"

	report := engine.Run(context.Background(), in)
	if !report.Passed {
		t.Fatalf("expected pass, got reason %q", report.QuarantineReason)
	}
	if len(report.Warnings()) != 1 {
		t.Fatalf("expected one warning, got %#v", report.Warnings())
	}
}

func TestEmptyContentFailsHard(t *testing.T) {
	engine, _, archiveDir := newEngine(t)
	in := passingInput(t, archiveDir)
	in.ExtractedText = ""
	in.Description = ""

	report := engine.Run(context.Background(), in)
	if report.Passed {
		t.Fatal("expected failure with no content")
	}
	if report.Bucket != gates.BucketReviewNeeded {
		t.Fatalf("expected review bucket, got %s", report.Bucket)
	}
}

func TestRelativeTargetFolderFails(t *testing.T) {
	engine, _, archiveDir := newEngine(t)
	in := passingInput(t, archiveDir)
	in.TargetFolder = "relative/Finanzen"

	report := engine.Run(context.Background(), in)
	if report.Passed {
		t.Fatal("expected failure on relative target")
	}
}
