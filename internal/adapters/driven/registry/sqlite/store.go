// Package sqlite provides the SQLite-backed registry of processed documents.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/chunkforge/chunkforge/internal/adapters/driven/registry/sqlite/migrations"
	"github.com/chunkforge/chunkforge/internal/core/domain"
	"github.com/chunkforge/chunkforge/internal/core/ports/driven"
	"github.com/chunkforge/chunkforge/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.ProcessedStore = (*Store)(nil)

// Store persists processed-document records in a SQLite file.
// A corrupt database is discarded and rebuilt rather than reported as
// fatal: losing registry state only causes reprocessing, never skipping.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a registry store at the specified data directory.
// If dataDir is empty, defaults to ~/.chunkforge/data/registry.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".chunkforge", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "registry.db")

	s, err := open(dbPath)
	if err == nil {
		return s, nil
	}

	// A registry that cannot be opened or migrated is treated as lost
	// state: remove it and start from scratch so the next run simply
	// reprocesses everything.
	logger.Warn("Registry unusable (%v), rebuilding %s", err, dbPath)
	if rmErr := os.Remove(dbPath); rmErr != nil && !os.IsNotExist(rmErr) {
		return nil, fmt.Errorf("removing corrupt registry: %w", rmErr)
	}
	return open(dbPath)
}

func open(dbPath string) (*Store, error) {
	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Get retrieves the record for a document name.
// A row that cannot be scanned is reported as unseen, not as an error.
func (s *Store) Get(ctx context.Context, name string) (*domain.ProcessRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT name, path, sha256, size_bytes, mtime, pages, chunks, processed_at
		FROM processed_documents WHERE name = ?
	`, name)

	record, err := scanRecord(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		logger.Warn("Corrupt registry record for %s (%v), treating as unseen", name, err)
		return nil, domain.ErrNotFound
	}
	return record, nil
}

// Save stores or replaces a record.
func (s *Store) Save(ctx context.Context, record domain.ProcessRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO processed_documents (name, path, sha256, size_bytes, mtime, pages, chunks, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			path = excluded.path,
			sha256 = excluded.sha256,
			size_bytes = excluded.size_bytes,
			mtime = excluded.mtime,
			pages = excluded.pages,
			chunks = excluded.chunks,
			processed_at = excluded.processed_at
	`, record.Name, record.Path, record.Fingerprint.SHA256, record.Fingerprint.Size,
		record.Fingerprint.ModTime.UTC(), record.Pages, record.Chunks, record.ProcessedAt.UTC())

	if err != nil {
		return fmt.Errorf("saving record: %w", err)
	}
	return nil
}

// List returns all records, ordered by name.
func (s *Store) List(ctx context.Context) ([]domain.ProcessRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, path, sha256, size_bytes, mtime, pages, chunks, processed_at
		FROM processed_documents ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []domain.ProcessRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		record, err := scanRecord(rows.Scan)
		if err != nil {
			logger.Warn("Skipping corrupt registry record: %v", err)
			continue
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return records, nil
}

// Delete removes a record.
func (s *Store) Delete(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM processed_documents WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}
	return nil
}

func scanRecord(scan func(dest ...any) error) (*domain.ProcessRecord, error) {
	var record domain.ProcessRecord
	var mtime, processedAt sql.NullTime
	if err := scan(&record.Name, &record.Path, &record.Fingerprint.SHA256,
		&record.Fingerprint.Size, &mtime, &record.Pages, &record.Chunks, &processedAt); err != nil {
		return nil, err
	}
	if mtime.Valid {
		record.Fingerprint.ModTime = mtime.Time
	}
	if processedAt.Valid {
		record.ProcessedAt = processedAt.Time
	}
	return &record, nil
}
