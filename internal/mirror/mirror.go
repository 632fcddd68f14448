// Package mirror is the per-device durable fallback copy of every remote
// collection. Each collection occupies one slot holding a JSON array; a
// separate slot keeps the logged-in user id for session restoration. The
// mirror is local to the device and never converges with other devices
// except through the remote store.
package mirror

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// Collection slot names. One JSON array per collection.
const (
	CollectionUsers    = "users"
	CollectionCourses  = "courses"
	CollectionTasks    = "tasks"
	CollectionResults  = "results"
	CollectionRequests = "requests"
	CollectionMessages = "messages"
)

const sessionKey = "current_user_id"

// Store is a key-prefixed durable slot store backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open creates or opens the mirror database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open mirror: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mirror: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate mirror: %w", err)
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS slots (
		name TEXT PRIMARY KEY,
		payload TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS session (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load reads a collection slot into dest, which must be a pointer to a slice.
// A missing or malformed slot yields the empty collection rather than an
// error; the mirror is a fallback and must never block a read.
func (s *Store) Load(ctx context.Context, collection string, dest interface{}) error {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM slots WHERE name = ?`, collection).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return json.Unmarshal([]byte("[]"), dest)
	}
	if err != nil {
		return fmt.Errorf("load slot %s: %w", collection, err)
	}
	if jsonErr := json.Unmarshal([]byte(payload), dest); jsonErr != nil {
		// Corrupt slot: fall back to the empty collection.
		return json.Unmarshal([]byte("[]"), dest)
	}
	return nil
}

// Save replaces a collection slot with the JSON encoding of value.
func (s *Store) Save(ctx context.Context, collection string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode slot %s: %w", collection, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO slots (name, payload) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET payload = excluded.payload`,
		collection, string(payload))
	if err != nil {
		return fmt.Errorf("save slot %s: %w", collection, err)
	}
	return nil
}

// SetSession stores the logged-in user id for session restoration.
func (s *Store) SetSession(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		sessionKey, userID)
	if err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

// Session returns the stored user id, or empty when no session exists.
func (s *Store) Session(ctx context.Context) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM session WHERE key = ?`, sessionKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read session: %w", err)
	}
	return value, nil
}

// ClearSession removes the stored session.
func (s *Store) ClearSession(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE key = ?`, sessionKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
