package triage_test

import (
	"context"
	"testing"
	"time"

	"conductor/internal/jobstore"
	"conductor/internal/testsupport"
	"conductor/internal/triage"
)

func TestScoreRecencyBoost(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	size := int64(1024)

	fresh := triage.Score("/inbox/notes.txt", size, now.Add(-30*time.Minute), now)
	today := triage.Score("/inbox/notes.txt", size, now.Add(-5*time.Hour), now)
	thisWeek := triage.Score("/inbox/notes.txt", size, now.Add(-3*24*time.Hour), now)
	stale := triage.Score("/inbox/notes.txt", size, now.Add(-30*24*time.Hour), now)

	if !(fresh > today && today > thisWeek && thisWeek > stale) {
		t.Fatalf("expected monotonically decreasing recency scores: %d %d %d %d", fresh, today, thisWeek, stale)
	}
	if fresh-stale != 30 {
		t.Fatalf("expected 30-point recency spread, got %d", fresh-stale)
	}
}

func TestScoreKeywordBoostAppliedOnce(t *testing.T) {
	now := time.Now()
	old := now.Add(-60 * 24 * time.Hour)
	plain := triage.Score("/inbox/scan.txt", 100, old, now)
	one := triage.Score("/inbox/rechnung-scan.txt", 100, old, now)
	two := triage.Score("/inbox/rechnung-vertrag.txt", 100, old, now)

	if one-plain != 15 {
		t.Fatalf("expected single 15-point keyword boost, got %d", one-plain)
	}
	if two != one {
		t.Fatalf("expected keyword boost applied once, got %d vs %d", two, one)
	}
}

func TestScoreExtensionWeights(t *testing.T) {
	now := time.Now()
	old := now.Add(-60 * 24 * time.Hour)
	email := triage.Score("/inbox/mail.eml", 100, old, now)
	archive := triage.Score("/inbox/old.zip", 100, old, now)
	if email-archive != 22 {
		t.Fatalf("expected eml to outscore zip by 22, got %d", email-archive)
	}
}

func TestScoreSizePenalties(t *testing.T) {
	now := time.Now()
	old := now.Add(-60 * 24 * time.Hour)
	small := triage.Score("/inbox/video.mp4", 1<<20, old, now)
	large := triage.Score("/inbox/video.mp4", 100<<20, old, now)
	huge := triage.Score("/inbox/video.mp4", 600<<20, old, now)

	if large >= small {
		t.Fatalf("expected penalty for large file: %d vs %d", large, small)
	}
	if huge >= large {
		t.Fatalf("expected extra penalty past 500MB: %d vs %d", huge, large)
	}
}

func TestScoreStaysWithinBounds(t *testing.T) {
	now := time.Now()
	high := triage.Score("/inbox/urgent-invoice.eml", 100, now, now)
	if high > 100 {
		t.Fatalf("score above 100: %d", high)
	}
	low := triage.Score("/inbox/blob.bin", 700<<20, now.Add(-365*24*time.Hour), now)
	if low < 0 {
		t.Fatalf("score below 0: %d", low)
	}
}

func TestPriorityMapping(t *testing.T) {
	if got := triage.Priority(0); got != 1 {
		t.Fatalf("Priority(0) = %d", got)
	}
	if got := triage.Priority(50); got != 5 {
		t.Fatalf("Priority(50) = %d", got)
	}
	if got := triage.Priority(100); got != 10 {
		t.Fatalf("Priority(100) = %d", got)
	}
	if band := jobstore.BandForPriority(triage.Priority(80)); band != jobstore.BandInteractive {
		t.Fatalf("expected score 80 to reach interactive band, got %s", band)
	}
}

func TestRecordFailureDeadLettersAtThreshold(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, _ := testsupport.NewJobStore(t, cfg)
	tr := triage.New(store, 3, nil)
	ctx := context.Background()

	job := &jobstore.Job{ID: "job-dl", Type: "ingest", Payload: map[string]string{"path": "/inbox/cursed.pdf"}}

	for i := 1; i <= 2; i++ {
		dead, err := tr.RecordFailure(ctx, job, "cursed-hash")
		if err != nil {
			t.Fatalf("RecordFailure failed: %v", err)
		}
		if dead {
			t.Fatalf("dead-lettered too early at failure %d", i)
		}
	}

	dead, err := tr.RecordFailure(ctx, job, "cursed-hash")
	if err != nil {
		t.Fatalf("RecordFailure failed: %v", err)
	}
	if !dead {
		t.Fatal("expected dead-letter at threshold")
	}
}
