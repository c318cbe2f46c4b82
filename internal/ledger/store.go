package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"conductor/internal/config"
	"conductor/internal/services"
)

// Store manages the processing ledger backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the ledger database and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.Paths.LedgerPath
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Record inserts a ledger entry. Inserting a second entry with the same
// content hash fails with a duplicate error; callers are expected to check
// FindByHash first and treat a race here as a duplicate as well.
func (s *Store) Record(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return services.Wrap(services.ErrValidation, "ledger", "record", "nil entry", nil)
	}
	if strings.TrimSpace(entry.ContentHash) == "" {
		return services.Wrap(services.ErrValidation, "ledger", "record", "content hash is required", nil)
	}
	if entry.ProcessedAt.IsZero() {
		entry.ProcessedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO ledger_entries (
            content_hash, source_path, target_path, filename, category,
            status, quarantine_reason, confidence, summary, processed_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ContentHash,
		entry.SourcePath,
		entry.TargetPath,
		entry.Filename,
		entry.Category,
		string(entry.Status),
		entry.QuarantineReason,
		entry.Confidence,
		entry.Summary,
		entry.ProcessedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return services.Wrap(services.ErrDuplicate, "ledger", "record", fmt.Sprintf("content hash %s already recorded", entry.ContentHash), err)
		}
		return fmt.Errorf("insert ledger entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read inserted id: %w", err)
	}
	entry.ID = id
	return nil
}

// FindByHash looks up the entry for a content hash.
func (s *Store) FindByHash(ctx context.Context, contentHash string) (*Entry, error) {
	row := s.db.QueryRowContext(
		ctx,
		selectColumns+" FROM ledger_entries WHERE content_hash = ?",
		contentHash,
	)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "ledger", "find", fmt.Sprintf("content hash %s", contentHash), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("query ledger entry: %w", err)
	}
	return entry, nil
}

// ListRecent returns up to limit entries ordered by processing time, most
// recent first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		selectColumns+" FROM ledger_entries ORDER BY processed_at DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger entries: %w", err)
	}
	return entries, nil
}

// Stats counts entries per disposition.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT status, COUNT(1) FROM ledger_entries GROUP BY status")
	if err != nil {
		return Stats{}, fmt.Errorf("query ledger stats: %w", err)
	}
	defer rows.Close()

	var stats Stats
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return Stats{}, fmt.Errorf("scan ledger stats: %w", err)
		}
		switch Status(status) {
		case StatusIndexed:
			stats.Indexed = count
		case StatusQuarantined:
			stats.Quarantined = count
		case StatusFailed:
			stats.Failed = count
		}
	}
	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("iterate ledger stats: %w", err)
	}
	return stats, nil
}

const selectColumns = `SELECT id, content_hash, source_path, target_path, filename,
    category, status, quarantine_reason, confidence, summary, processed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var entry Entry
	var status string
	var processedAt string
	if err := row.Scan(
		&entry.ID,
		&entry.ContentHash,
		&entry.SourcePath,
		&entry.TargetPath,
		&entry.Filename,
		&entry.Category,
		&status,
		&entry.QuarantineReason,
		&entry.Confidence,
		&entry.Summary,
		&processedAt,
	); err != nil {
		return nil, err
	}
	entry.Status = Status(status)
	if ts, err := time.Parse(time.RFC3339Nano, processedAt); err == nil {
		entry.ProcessedAt = ts
	}
	return &entry, nil
}
