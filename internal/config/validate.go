package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateRedis(); err != nil {
		return err
	}
	if err := c.validateWorker(); err != nil {
		return err
	}
	if err := c.validateGates(); err != nil {
		return err
	}
	if err := c.validateTriage(); err != nil {
		return err
	}
	if err := c.validateInbox(); err != nil {
		return err
	}
	if err := c.validateEmbedder(); err != nil {
		return err
	}
	return c.validateNotifications()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.InboxDir) == "" {
		return errors.New("paths.inbox_dir must be set")
	}
	if strings.TrimSpace(c.Paths.ArchiveDir) == "" {
		return errors.New("paths.archive_dir must be set")
	}
	if strings.TrimSpace(c.Paths.QuarantineDir) == "" {
		return errors.New("paths.quarantine_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LedgerPath) == "" {
		return errors.New("paths.ledger_path must be set")
	}
	return nil
}

func (c *Config) validateRedis() error {
	if strings.TrimSpace(c.Redis.Addr) == "" {
		return errors.New("redis.addr must be set")
	}
	if c.Redis.DB < 0 {
		return errors.New("redis.db must not be negative")
	}
	return nil
}

func (c *Config) validateWorker() error {
	if err := ensurePositiveMap(map[string]int{
		"worker.heartbeat_interval":   c.Worker.HeartbeatInterval,
		"worker.pop_timeout":          c.Worker.PopTimeout,
		"worker.pause_interval":       c.Worker.PauseInterval,
		"worker.error_retry_interval": c.Worker.ErrorRetryInterval,
	}); err != nil {
		return err
	}
	if strings.TrimSpace(c.Worker.Hostname) == "" {
		return errors.New("worker.hostname could not be determined; set it explicitly")
	}
	return nil
}

func (c *Config) validateGates() error {
	if c.Gates.ConfidenceFloor < 0 || c.Gates.ConfidenceFloor > 1 {
		return errors.New("gates.confidence_floor must be between 0 and 1")
	}
	if c.Gates.ConfidenceTarget < 0 || c.Gates.ConfidenceTarget > 1 {
		return errors.New("gates.confidence_target must be between 0 and 1")
	}
	if c.Gates.ConfidenceTarget < c.Gates.ConfidenceFloor {
		return errors.New("gates.confidence_target must not be below gates.confidence_floor")
	}
	return nil
}

func (c *Config) validateTriage() error {
	if !c.Triage.Enabled {
		return nil
	}
	if c.Triage.DeadLetterThreshold <= 0 {
		return errors.New("triage.dead_letter_threshold must be positive")
	}
	return nil
}

func (c *Config) validateInbox() error {
	if !c.Inbox.Enabled {
		return nil
	}
	return ensurePositiveMap(map[string]int{
		"inbox.poll_interval":  c.Inbox.PollInterval,
		"inbox.settle_seconds": c.Inbox.SettleSeconds,
	})
}

func (c *Config) validateEmbedder() error {
	if !c.Embedder.Enabled {
		return nil
	}
	if strings.TrimSpace(c.Embedder.URL) == "" {
		return errors.New("embedder.url must be set when embedder.enabled is true")
	}
	if strings.TrimSpace(c.Embedder.VectorStoreURL) == "" {
		return errors.New("embedder.vector_store_url must be set when embedder.enabled is true")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for name, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}
