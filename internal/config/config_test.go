package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"conductor/internal/config"
)

func TestDefaultsValidateAfterNormalize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be reported as existing")
	}
	if resolved != path {
		t.Fatalf("expected resolved path %q, got %q", path, resolved)
	}
	if cfg.Redis.Addr == "" {
		t.Fatal("expected default redis addr")
	}
	if cfg.Worker.HeartbeatInterval != 5 {
		t.Fatalf("expected default heartbeat interval 5, got %d", cfg.Worker.HeartbeatInterval)
	}
	if cfg.Gates.ConfidenceFloor != 0.5 || cfg.Gates.ConfidenceTarget != 0.7 {
		t.Fatalf("unexpected gate thresholds: %v / %v", cfg.Gates.ConfidenceFloor, cfg.Gates.ConfidenceTarget)
	}
}

func TestLoadExpandsPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[paths]
inbox_dir = "~/drop/in"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if strings.HasPrefix(cfg.Paths.InboxDir, "~") {
		t.Fatalf("expected tilde expansion, got %q", cfg.Paths.InboxDir)
	}
	if !filepath.IsAbs(cfg.Paths.InboxDir) {
		t.Fatalf("expected absolute inbox path, got %q", cfg.Paths.InboxDir)
	}
}

func TestValidateRejectsBadThresholds(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"floor above one", func(c *config.Config) { c.Gates.ConfidenceFloor = 1.5 }},
		{"target below floor", func(c *config.Config) {
			c.Gates.ConfidenceFloor = 0.8
			c.Gates.ConfidenceTarget = 0.6
		}},
		{"zero heartbeat", func(c *config.Config) { c.Worker.HeartbeatInterval = 0 }},
		{"zero pop timeout", func(c *config.Config) { c.Worker.PopTimeout = 0 }},
		{"dead letter threshold", func(c *config.Config) { c.Triage.DeadLetterThreshold = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Worker.Hostname = "test-host"
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestEnsureDirectoriesCreatesQuarantineBuckets(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.InboxDir = filepath.Join(base, "inbox")
	cfg.Paths.ArchiveDir = filepath.Join(base, "archive")
	cfg.Paths.QuarantineDir = filepath.Join(base, "quarantine")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, bucket := range config.QuarantineBuckets() {
		info, err := os.Stat(filepath.Join(cfg.Paths.QuarantineDir, bucket))
		if err != nil || !info.IsDir() {
			t.Fatalf("expected quarantine bucket %s to exist: %v", bucket, err)
		}
	}
}

func TestCreateSampleWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[redis]") {
		t.Fatal("expected sample to mention the redis section")
	}
}
