package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	InboxDir      string `toml:"inbox_dir"`
	ArchiveDir    string `toml:"archive_dir"`
	QuarantineDir string `toml:"quarantine_dir"`
	LogDir        string `toml:"log_dir"`
	LedgerPath    string `toml:"ledger_path"`
	APIBind       string `toml:"api_bind"`
	APIToken      string `toml:"api_token"`
}

// Redis contains connection settings for the shared job store.
type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	// JobTTLHours bounds how long job records survive after creation.
	JobTTLHours int `toml:"job_ttl_hours"`
	// CommandTTLSeconds bounds how long a pending worker command stays deliverable.
	CommandTTLSeconds int `toml:"command_ttl_seconds"`
}

// Worker contains configuration for the per-node scheduler loop.
type Worker struct {
	Hostname string `toml:"hostname"`
	// HeartbeatInterval is the seconds between liveness reports. Worker
	// records expire after three missed intervals.
	HeartbeatInterval int `toml:"heartbeat_interval"`
	// PopTimeout is the blocking-pop timeout in seconds.
	PopTimeout int `toml:"pop_timeout"`
	// PauseInterval is the sleep applied while the contention signal is active.
	PauseInterval int `toml:"pause_interval"`
	// ErrorRetryInterval is the backoff after a store connectivity failure.
	ErrorRetryInterval int `toml:"error_retry_interval"`
	// ContentionProcesses lists process names whose presence pauses the loop.
	ContentionProcesses []string `toml:"contention_processes"`
	// PreventSleep keeps the host awake for the lifetime of the loop.
	PreventSleep bool `toml:"prevent_sleep"`
}

// Extractor contains settings for the primary and fallback text extraction services.
type Extractor struct {
	PrimaryURL     string `toml:"primary_url"`
	SecondaryURL   string `toml:"secondary_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Classifier contains settings for the classification service.
type Classifier struct {
	URL            string `toml:"url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Embedder contains settings for embedding generation and the vector store.
type Embedder struct {
	Enabled        bool   `toml:"enabled"`
	URL            string `toml:"url"`
	VectorStoreURL string `toml:"vector_store_url"`
	Collection     string `toml:"collection"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Gates contains tunables for the quality gate engine.
type Gates struct {
	// ConfidenceFloor is the hard minimum classification confidence.
	ConfidenceFloor float64 `toml:"confidence_floor"`
	// ConfidenceTarget is the soft minimum; results below it pass with a warning.
	ConfidenceTarget float64 `toml:"confidence_target"`
}

// Triage contains priority scoring and dead-letter settings.
type Triage struct {
	Enabled bool `toml:"enabled"`
	// DeadLetterThreshold is the failure count after which equivalent
	// content stops being resubmitted.
	DeadLetterThreshold int `toml:"dead_letter_threshold"`
}

// Inbox contains settings for the watched drop location.
type Inbox struct {
	Enabled bool `toml:"enabled"`
	// PollInterval is the seconds between directory scans.
	PollInterval int `toml:"poll_interval"`
	// SettleSeconds is how long a file must remain unchanged before submission.
	SettleSeconds int `toml:"settle_seconds"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Archived       bool   `toml:"archived"`
	Quarantined    bool   `toml:"quarantined"`
	Errors         bool   `toml:"errors"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for Conductor.
//
// Configuration sections by subsystem:
//   - Paths: inbox/archive/quarantine directories and API bind address
//   - Redis: shared job store connection and TTLs
//   - Worker: scheduler loop timing and contention detection
//   - Extractor/Classifier/Embedder: external collaborator endpoints
//   - Gates: quality gate thresholds
//   - Triage: priority scoring and dead-letter limits
//   - Inbox: watched drop location polling
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Redis         Redis         `toml:"redis"`
	Worker        Worker        `toml:"worker"`
	Extractor     Extractor     `toml:"extractor"`
	Classifier    Classifier    `toml:"classifier"`
	Embedder      Embedder      `toml:"embedder"`
	Gates         Gates         `toml:"gates"`
	Triage        Triage        `toml:"triage"`
	Inbox         Inbox         `toml:"inbox"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/conductor/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/conductor/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("conductor.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
// The archive directory is created on a best-effort basis so the daemon can
// run when external storage is temporarily unavailable.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.InboxDir, c.Paths.LogDir, c.Paths.QuarantineDir}
	for _, bucket := range QuarantineBuckets() {
		dirs = append(dirs, filepath.Join(c.Paths.QuarantineDir, bucket))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.ArchiveDir) != "" {
		// Best-effort to avoid failing config load when storage is offline.
		_ = os.MkdirAll(c.Paths.ArchiveDir, 0o755)
	}
	return nil
}

// QuarantineBuckets returns the reason-specific subfolder names created
// under the quarantine directory.
func QuarantineBuckets() []string {
	return []string{"_duplicates", "_low_confidence", "_review_needed", "_processing_error"}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	sample := sampleConfig

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
