package jobstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"subgen/internal/services"
)

// Store persists finished transcripts keyed by waveform fingerprint so a
// repeat run over the same audio with the same backend is served from cache.
type Store struct {
	db   *sql.DB
	lock *flock.Flock
	path string
}

// Record is one cached transcript.
type Record struct {
	ID              string
	Fingerprint     string
	Backend         string
	Language        string
	SegmentCount    int
	DurationSeconds float64
	SRT             string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Open initializes or connects to the cache database under dir and applies
// migrations. A file lock serializes access across processes; Open fails
// fast when another process holds it.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "jobstore", "open", "ensure cache directory", err)
	}

	lock := flock.New(filepath.Join(dir, "jobs.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "jobstore", "open", "acquire cache lock", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrConfiguration, "jobstore", "open", "cache is in use by another process", nil)
	}

	dbPath := filepath.Join(dir, "jobs.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
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
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, lock: lock, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}
	return store, nil
}

// Close closes the database and releases the cache lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.lock != nil {
		if err := s.lock.Unlock(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) applyMigrations(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS transcripts (
    id TEXT PRIMARY KEY,
    fingerprint TEXT NOT NULL,
    backend TEXT NOT NULL,
    language TEXT NOT NULL DEFAULT '',
    segment_count INTEGER NOT NULL DEFAULT 0,
    duration_seconds REAL NOT NULL DEFAULT 0,
    srt TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    UNIQUE (fingerprint, backend)
);
CREATE INDEX IF NOT EXISTS idx_transcripts_fingerprint ON transcripts (fingerprint);
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Save inserts or replaces the cached transcript for the record's
// fingerprint and backend. The record's ID and timestamps are assigned here.
func (s *Store) Save(ctx context.Context, rec Record) (*Record, error) {
	if rec.Fingerprint == "" {
		return nil, services.Wrap(services.ErrValidation, "jobstore", "save", "fingerprint required", nil)
	}
	if rec.Backend == "" {
		return nil, services.Wrap(services.ErrValidation, "jobstore", "save", "backend required", nil)
	}

	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)
	rec.ID = uuid.NewString()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO transcripts (
            id, fingerprint, backend, language, segment_count,
            duration_seconds, srt, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (fingerprint, backend) DO UPDATE SET
            language = excluded.language,
            segment_count = excluded.segment_count,
            duration_seconds = excluded.duration_seconds,
            srt = excluded.srt,
            updated_at = excluded.updated_at`,
		rec.ID,
		rec.Fingerprint,
		rec.Backend,
		rec.Language,
		rec.SegmentCount,
		rec.DurationSeconds,
		rec.SRT,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("save transcript: %w", err)
	}
	return s.Lookup(ctx, rec.Fingerprint, rec.Backend)
}

// Lookup returns the cached transcript for a fingerprint and backend, or a
// not-found error when no entry exists.
func (s *Store) Lookup(ctx context.Context, fingerprint, backend string) (*Record, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, fingerprint, backend, language, segment_count,
            duration_seconds, srt, created_at, updated_at
        FROM transcripts WHERE fingerprint = ? AND backend = ?`,
		fingerprint,
		backend,
	)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "jobstore", "lookup", "no cached transcript", nil)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup transcript: %w", err)
	}
	return rec, nil
}

// List returns all cached transcripts, newest first.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, fingerprint, backend, language, segment_count,
            duration_seconds, srt, created_at, updated_at
        FROM transcripts ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list transcripts: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transcript: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transcripts: %w", err)
	}
	return records, nil
}

// Delete removes one cached transcript by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transcripts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transcript: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transcript: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "jobstore", "delete", "no cached transcript with that id", nil)
	}
	return nil
}

// Clear removes every cached transcript and reports how many were dropped.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transcripts`)
	if err != nil {
		return 0, fmt.Errorf("clear transcripts: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear transcripts: %w", err)
	}
	return affected, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var rec Record
	var createdAt, updatedAt string
	if err := row.Scan(
		&rec.ID,
		&rec.Fingerprint,
		&rec.Backend,
		&rec.Language,
		&rec.SegmentCount,
		&rec.DurationSeconds,
		&rec.SRT,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	rec.CreatedAt = parseTimestamp(createdAt)
	rec.UpdatedAt = parseTimestamp(updatedAt)
	return &rec, nil
}

func parseTimestamp(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
