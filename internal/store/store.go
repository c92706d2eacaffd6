package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/shiftgrid/internal/grid"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Added UNIQUE index on records(dataset, id_kind, record_id)
const currentSchemaVersion = 1

// Store provides durable storage for record snapshots.
// Uses SQLite with WAL mode for concurrent read access.
type Store struct {
	db     *sql.DB
	ids    IDGenerator
	clock  grid.Clock
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces the UUIDv7 snapshot id generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Store) { s.ids = g }
}

// WithClock replaces the clock used for replaced_at timestamps.
func WithClock(c grid.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithLogger sets the logger for snapshot and migration debug messages.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// pragmas are applied to every connection the store opens.
var pragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA foreign_keys = ON",
}

// Open creates or opens the snapshot database at path, applying pragmas and
// schema migrations. Opening an existing database is safe.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{
		ids:    UUIDv7Generator{},
		clock:  grid.SystemClock{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database %s: %w", path, err)
	}

	// One connection: snapshot replacement is a single writer and pragmas
	// are per connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s.db = db
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	s.logger.Debug("store opened", "path", path)
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) init() error {
	for _, pragma := range pragmas {
		if _, err := s.db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to apply pragmas: %q: %w", pragma, err)
		}
	}
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return s.migrate()
}

// migrate brings databases created by older versions up to
// currentSchemaVersion, tracked in PRAGMA user_version.
func (s *Store) migrate() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	s.logger.Debug("checking schema version", "user_version", version, "current", currentSchemaVersion)

	if version < 1 {
		// Databases from before v1 lack the record identity index.
		if _, err := s.db.Exec(`
			CREATE UNIQUE INDEX IF NOT EXISTS idx_records_identity
			ON records(dataset, id_kind, record_id)
		`); err != nil {
			return fmt.Errorf("migrate to v1: %w", err)
		}
	}

	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
