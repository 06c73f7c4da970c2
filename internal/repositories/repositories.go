// package repositories provides persistence for playlists and listening history.
package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/desertthunder/spindle/internal/shared"
)

// Record keys of the durable schema.
const (
	KeyPlaylists      = "playlists"
	KeyRecentlyPlayed = "recentlyPlayed"
)

// Storage is a durable key/value store holding whole JSON documents.
type Storage interface {
	// Get returns the stored value, or an error wrapping [shared.ErrRecordNotFound] when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put replaces the value stored under key.
	Put(ctx context.Context, key string, value []byte) error
}

// RecordStore implements [Storage] on the SQLite records table.
type RecordStore struct {
	db *sql.DB
}

// NewRecordStore creates a RecordStore with the given (migrated) database connection
func NewRecordStore(db *sql.DB) *RecordStore {
	return &RecordStore{db: db}
}

// Get retrieves the value stored under key
func (s *RecordStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM records WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrRecordNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", shared.ErrStorageUnavailable, key, err)
	}

	return []byte(value), nil
}

// Put upserts the value stored under key, bumping its revision
func (s *RecordStore) Put(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO records (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			revision = records.revision + 1,
			updated_at = CURRENT_TIMESTAMP
	`

	if _, err := s.db.ExecContext(ctx, query, key, string(value)); err != nil {
		return fmt.Errorf("%w: failed to write %s: %v", shared.ErrStorageUnavailable, key, err)
	}

	return nil
}

// Revision returns how many times key has been written, or 0 if it was never written.
func (s *RecordStore) Revision(ctx context.Context, key string) (int, error) {
	var revision int
	err := s.db.QueryRowContext(ctx, "SELECT revision FROM records WHERE key = ?", key).Scan(&revision)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: failed to read revision of %s: %v", shared.ErrStorageUnavailable, key, err)
	}

	return revision, nil
}

// loadJSON reads key and decodes it into v. Decode failures wrap [shared.ErrCorruptRecord].
func loadJSON(ctx context.Context, store Storage, key string, v any) error {
	data, err := store.Get(ctx, key)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", shared.ErrCorruptRecord, key, err)
	}

	return nil
}

// saveJSON encodes v and rewrites key with it.
func saveJSON(ctx context.Context, store Storage, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	if err := store.Put(ctx, key, data); err != nil {
		if errors.Is(err, shared.ErrStorageUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %v", shared.ErrStorageUnavailable, err)
	}

	return nil
}
