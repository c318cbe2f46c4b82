package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeRedis()
	c.normalizeWorker()
	c.normalizeServices()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.InboxDir, err = expandPath(c.Paths.InboxDir); err != nil {
		return fmt.Errorf("paths.inbox_dir: %w", err)
	}
	if c.Paths.ArchiveDir, err = expandPath(c.Paths.ArchiveDir); err != nil {
		return fmt.Errorf("paths.archive_dir: %w", err)
	}
	if c.Paths.QuarantineDir, err = expandPath(c.Paths.QuarantineDir); err != nil {
		return fmt.Errorf("paths.quarantine_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.LedgerPath, err = expandPath(c.Paths.LedgerPath); err != nil {
		return fmt.Errorf("paths.ledger_path: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)
	return nil
}

func (c *Config) normalizeRedis() {
	c.Redis.Addr = strings.TrimSpace(c.Redis.Addr)
	if c.Redis.Addr == "" {
		if value, ok := os.LookupEnv("REDIS_ADDR"); ok {
			c.Redis.Addr = strings.TrimSpace(value)
		}
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = defaultRedisAddr
	}
	if c.Redis.Password == "" {
		if value, ok := os.LookupEnv("REDIS_PASSWORD"); ok {
			c.Redis.Password = value
		}
	}
	if c.Redis.JobTTLHours <= 0 {
		c.Redis.JobTTLHours = defaultJobTTLHours
	}
	if c.Redis.CommandTTLSeconds <= 0 {
		c.Redis.CommandTTLSeconds = defaultCommandTTLSeconds
	}
}

func (c *Config) normalizeWorker() {
	c.Worker.Hostname = strings.TrimSpace(c.Worker.Hostname)
	if c.Worker.Hostname == "" {
		if name, err := os.Hostname(); err == nil {
			c.Worker.Hostname = name
		}
	}
	trimmed := c.Worker.ContentionProcesses[:0]
	for _, name := range c.Worker.ContentionProcesses {
		if name = strings.TrimSpace(name); name != "" {
			trimmed = append(trimmed, name)
		}
	}
	c.Worker.ContentionProcesses = trimmed
}

func (c *Config) normalizeServices() {
	c.Extractor.PrimaryURL = strings.TrimSpace(c.Extractor.PrimaryURL)
	c.Extractor.SecondaryURL = strings.TrimSpace(c.Extractor.SecondaryURL)
	c.Classifier.URL = strings.TrimSpace(c.Classifier.URL)
	c.Classifier.Model = strings.TrimSpace(c.Classifier.Model)
	c.Embedder.URL = strings.TrimSpace(c.Embedder.URL)
	c.Embedder.VectorStoreURL = strings.TrimSpace(c.Embedder.VectorStoreURL)
	c.Embedder.Collection = strings.TrimSpace(c.Embedder.Collection)
	if c.Embedder.Collection == "" {
		c.Embedder.Collection = defaultVectorCollection
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
