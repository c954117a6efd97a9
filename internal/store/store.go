package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const (
	busyTimeoutMS   = 5000
	maxOpenConns    = 1
	maxIdleConns    = 1
	connMaxLifetime = 5 * time.Minute
)

// Store wraps the SQLite catalog database.
//
// The zero value (or New) is an unopened store; every operation on it fails
// with ErrNotInitialized until Open succeeds.
type Store struct {
	db   *sql.DB
	path string
}

// New returns an unopened store.
func New() *Store {
	return &Store{}
}

// Open opens the SQLite database at path and bootstraps the schema.
func Open(path string) (*Store, error) {
	s := New()
	if err := s.Open(path); err != nil {
		return nil, err
	}
	return s, nil
}

// Open establishes the handle. It may succeed only once per Store.
func (s *Store) Open(path string) error {
	if s.db != nil {
		return ErrAlreadyOpen
	}
	dsn, err := sqliteDSN(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create %s: %w", ErrStoreUnavailable, dir, err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	configureDB(db)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("%w: open %s: %w", ErrStoreUnavailable, path, err)
	}
	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	s.db = db
	s.path = path
	return nil
}

// IsOpen reports whether Open has succeeded.
func (s *Store) IsOpen() bool {
	return s != nil && s.db != nil
}

// Path returns the database location, empty while unopened.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// SchemaVersion returns the highest applied schema version.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}
	var version int
	err = db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	return version, err
}

func (s *Store) conn() (*sql.DB, error) {
	if s == nil || s.db == nil {
		return nil, ErrNotInitialized
	}
	return s.db, nil
}

func configureDB(db *sql.DB) {
	// Tune connection pool for local usage.
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)
}

// sqliteDSN carries the pragmas in the DSN so every pooled connection gets
// foreign keys enforced, not only the first one.
func sqliteDSN(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("db path is required")
	}
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeoutMS))
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "synchronous(NORMAL)")
	u := url.URL{Scheme: "file", Path: path, RawQuery: q.Encode()}
	return u.String(), nil
}
