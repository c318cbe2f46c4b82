package notifications_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"conductor/internal/notifications"
	"conductor/internal/testsupport"
)

type captured struct {
	title    string
	priority string
	body     string
}

func newCaptureServer(t *testing.T) (*httptest.Server, func() []captured) {
	t.Helper()
	var mu sync.Mutex
	var seen []captured
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		seen = append(seen, captured{
			title:    r.Header.Get("Title"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		})
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server, func() []captured {
		mu.Lock()
		defer mu.Unlock()
		out := make([]captured, len(seen))
		copy(out, seen)
		return out
	}
}

func TestNotifyQuarantined(t *testing.T) {
	server, messages := newCaptureServer(t)
	cfg := testsupport.NewConfig(t)
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Quarantined = true

	svc := notifications.NewService(cfg)
	if err := svc.NotifyQuarantined(context.Background(), "scan.pdf", "confidence too low", "_low_confidence"); err != nil {
		t.Fatalf("NotifyQuarantined failed: %v", err)
	}

	got := messages()
	if len(got) != 1 {
		t.Fatalf("expected one notification, got %d", len(got))
	}
	if got[0].title != "Conductor - Quarantined" {
		t.Fatalf("unexpected title %q", got[0].title)
	}
}

func TestDisabledEventSendsNothing(t *testing.T) {
	server, messages := newCaptureServer(t)
	cfg := testsupport.NewConfig(t)
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Archived = false

	svc := notifications.NewService(cfg)
	if err := svc.NotifyArchived(context.Background(), "scan.pdf", "Finanzen", "/archive/Finanzen/x.pdf"); err != nil {
		t.Fatalf("NotifyArchived failed: %v", err)
	}
	if got := messages(); len(got) != 0 {
		t.Fatalf("expected no notifications, got %d", len(got))
	}
}

func TestNoTopicIsNoop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Notifications.NtfyTopic = ""

	svc := notifications.NewService(cfg)
	if err := svc.TestNotification(context.Background()); err != nil {
		t.Fatalf("expected noop success, got %v", err)
	}
}

func TestErrorNotificationPriority(t *testing.T) {
	server, messages := newCaptureServer(t)
	cfg := testsupport.NewConfig(t)
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Errors = true

	svc := notifications.NewService(cfg)
	if err := svc.NotifyError(context.Background(), io.ErrUnexpectedEOF, "extraction"); err != nil {
		t.Fatalf("NotifyError failed: %v", err)
	}
	got := messages()
	if len(got) != 1 || got[0].priority != "high" {
		t.Fatalf("expected one high priority notification, got %#v", got)
	}
}
