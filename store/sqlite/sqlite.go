/*
Package sqlite provides a SQLite-backed building.Persister.

PURPOSE:
  Persists the console state as one JSON document per key so the Store
  survives restarts. The whole state is small (one building) and is always
  read and written as a unit, so a single keyed snapshot row is enough.

KEY TABLES:
  snapshots: key -> payload_json, saved_at

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Readers don't block the writer
  - Better crash recovery

USAGE:
  db, err := sqlite.New("./data/console.db")
  if err != nil {
      log.Fatal(err)
  }
  defer db.Close()

  store, err := building.Open(ctx, b, floors, building.WithPersister(db))

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - building/store.go: Persister interface and Store
  - building/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/building-console/building"
)

// Store implements building.Persister using SQLite.
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

var (
	_ building.Persister = (*Store)(nil)
	_ building.Resetter  = (*Store)(nil)
)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Each :memory: connection is its own database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		key TEXT PRIMARY KEY,
		version INTEGER NOT NULL,
		payload_json TEXT NOT NULL,
		saved_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SNAPSHOTS
// =============================================================================

// SaveSnapshot upserts the snapshot stored under key.
func (s *Store) SaveSnapshot(ctx context.Context, key string, snap building.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO snapshots (key, version, payload_json, saved_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			version = excluded.version,
			payload_json = excluded.payload_json,
			saved_at = excluded.saved_at
	`
	_, err = s.db.ExecContext(ctx, query,
		key, snap.Version, string(payload),
		s.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot %q: %w", key, err)
	}
	return nil
}

// LoadSnapshot returns the snapshot stored under key, or nil if none was saved.
func (s *Store) LoadSnapshot(ctx context.Context, key string) (*building.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload_json FROM snapshots WHERE key = ?`, key,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %q: %w", key, err)
	}

	var snap building.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %q: %w", key, err)
	}
	return &snap, nil
}

// SavedAt reports when key was last written.
func (s *Store) SavedAt(ctx context.Context, key string) (time.Time, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var savedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT saved_at FROM snapshots WHERE key = ?`, key,
	).Scan(&savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	t, err := time.Parse(time.RFC3339, savedAt)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

// Reset deletes every stored snapshot.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM snapshots`)
	return err
}
