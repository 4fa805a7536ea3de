package cache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/sitediff/internal/model"
)

// DBFileName is the name of the SQLite cache file inside the cache directory.
const DBFileName = "sitediff.db"

// Store is the persistent page cache backing a run.
// Entries are keyed by (side, path); writing overwrites any prior entry for
// the same key. The store survives process restarts and is shared across
// runs until explicitly cleared.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the cache directory and database file
	// when they do not exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging. Recommended: concurrent
	// path workers read while the single writer connection persists
	// fetched pages.
	EnableWAL bool
}

// DefaultOptions returns the default store options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the cache database under dir.
// With CreateIfNotExists disabled, a missing database is an error.
func Open(dir string, opts Options) (*Store, error) {
	dbPath := filepath.Join(dir, DBFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("cache database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check cache path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	// modernc.org/sqlite connection strings: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// SQLite supports a single writer; one connection also serializes
	// concurrent distinct-key writes from path workers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the location of the cache database file.
func (s *Store) Path() string {
	return s.dbPath
}

// createTables creates the cache schema if it does not exist.
func (s *Store) createTables() error {
	schema := `
	-- Pages store one fetched document per (side, path) key.
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		side TEXT NOT NULL,
		path TEXT NOT NULL,
		content TEXT NOT NULL,
		source_url TEXT NOT NULL,
		status_code INTEGER,
		fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(side, path)
	);

	CREATE INDEX IF NOT EXISTS idx_pages_side ON pages(side);
	CREATE INDEX IF NOT EXISTS idx_pages_fetched_at ON pages(fetched_at);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// Entry is one cached page.
type Entry struct {
	// Side and Path form the cache key.
	Side model.Side
	Path string

	// Content is the UTF-8 page content as fetched.
	Content string

	// SourceURL is the absolute URL the content was fetched from.
	SourceURL string

	// StatusCode is the HTTP status of the original fetch.
	StatusCode int

	// FetchedAt is when the entry was stored.
	FetchedAt time.Time
}

// Put inserts or overwrites the entry for (entry.Side, entry.Path).
// There is no TTL and no versioning; the newest write wins.
func (s *Store) Put(ctx context.Context, entry Entry) error {
	query := `
	INSERT INTO pages (side, path, content, source_url, status_code)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(side, path) DO UPDATE SET
		content = excluded.content,
		source_url = excluded.source_url,
		status_code = excluded.status_code,
		fetched_at = CURRENT_TIMESTAMP
	`

	_, err := s.db.ExecContext(ctx, query,
		string(entry.Side),
		entry.Path,
		entry.Content,
		entry.SourceURL,
		entry.StatusCode,
	)
	if err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	return nil
}

// Get retrieves the entry for (side, path).
// A miss returns (nil, nil).
func (s *Store) Get(ctx context.Context, side model.Side, path string) (*Entry, error) {
	query := `
	SELECT side, path, content, source_url, status_code, fetched_at
	FROM pages
	WHERE side = ? AND path = ?
	`

	var entry Entry
	var sideStr, fetchedAt string

	err := s.db.QueryRowContext(ctx, query, string(side), path).Scan(
		&sideStr,
		&entry.Path,
		&entry.Content,
		&entry.SourceURL,
		&entry.StatusCode,
		&fetchedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}

	entry.Side = model.Side(sideStr)
	entry.FetchedAt = parseTimestamp(fetchedAt)
	return &entry, nil
}

// EntryInfo is the metadata of a cached page, without its content.
// Used by the cache maintenance command to list entries cheaply.
type EntryInfo struct {
	Side       model.Side
	Path       string
	SourceURL  string
	StatusCode int
	Size       int64
	FetchedAt  time.Time
}

// List returns metadata for all cached entries, optionally filtered by tags.
// Entries are ordered by side then path for stable output.
func (s *Store) List(ctx context.Context, tags Tags) ([]EntryInfo, error) {
	query := `
	SELECT side, path, source_url, status_code, LENGTH(content), fetched_at
	FROM pages
	ORDER BY side, path
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list cache entries: %w", err)
	}
	defer rows.Close()

	var results []EntryInfo
	for rows.Next() {
		var info EntryInfo
		var sideStr, fetchedAt string

		if err := rows.Scan(&sideStr, &info.Path, &info.SourceURL, &info.StatusCode, &info.Size, &fetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cache entry: %w", err)
		}

		info.Side = model.Side(sideStr)
		info.FetchedAt = parseTimestamp(fetchedAt)

		if !tags.Includes(info.Side) {
			continue
		}
		results = append(results, info)
	}

	return results, rows.Err()
}

// Clear deletes the entries selected by tags and returns how many were
// removed.
func (s *Store) Clear(ctx context.Context, tags Tags) (int64, error) {
	var query string
	var args []any

	switch {
	case tags.Before && tags.After:
		query = `DELETE FROM pages`
	case tags.Before:
		query = `DELETE FROM pages WHERE side = ?`
		args = append(args, string(model.SideBefore))
	case tags.After:
		query = `DELETE FROM pages WHERE side = ?`
		args = append(args, string(model.SideAfter))
	default:
		return 0, nil
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cache: %w", err)
	}
	return result.RowsAffected()
}

// timestampFormats contains the timestamp formats SQLite may return,
// most specific first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999",
}

// parseTimestamp parses a SQLite timestamp string, trying each known
// format. Returns the zero time when nothing matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
