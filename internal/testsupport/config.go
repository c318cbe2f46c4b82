package testsupport

import (
	"path/filepath"
	"testing"

	"conductor/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.InboxDir = filepath.Join(base, "inbox")
	cfgVal.Paths.ArchiveDir = filepath.Join(base, "archive")
	cfgVal.Paths.QuarantineDir = filepath.Join(base, "quarantine")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.LedgerPath = filepath.Join(base, "logs", "ledger.db")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.Worker.Hostname = "test-worker"
	cfgVal.Notifications.NtfyTopic = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithRedisAddr points the config at a test Redis instance.
func WithRedisAddr(addr string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Redis.Addr = addr
	}
}

// WithHostname overrides the worker hostname on the test config.
func WithHostname(hostname string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Worker.Hostname = hostname
	}
}

// WithExtractorURL points the primary extraction service at a test server.
func WithExtractorURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Extractor.PrimaryURL = url
	}
}

// WithClassifierURL points the classification service at a test server.
func WithClassifierURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Classifier.URL = url
	}
}
