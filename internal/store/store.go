package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"

	"roomboard/internal/models"
)

// ErrNoSnapshot is returned when no snapshot has ever been persisted.
var ErrNoSnapshot = errors.New("no persisted snapshot")

// Store persists roster snapshots so the service can serve a grid right
// after restart without waiting for a full refetch.
type Store struct {
	*sql.DB
	logger *zerolog.Logger
}

// New opens the snapshot database at path and creates tables if needed.
func New(path string, logger *zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		week INTEGER NOT NULL,
		fetched_at DATETIME NOT NULL,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &Store{DB: db, logger: logger}, nil
}

// SaveSnapshot persists a snapshot. The full roster is stored as one JSON
// payload; snapshots are small (tens of teachers) and read back whole.
func (s *Store) SaveSnapshot(ctx context.Context, snap *models.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	_, err = s.ExecContext(ctx,
		`INSERT OR REPLACE INTO snapshots (id, week, fetched_at, payload) VALUES (?, ?, ?, ?)`,
		snap.ID, snap.Week, snap.FetchedAt.UTC(), payload,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	s.logger.Info().Str("snapshot_id", snap.ID).Msg("snapshot persisted")
	return nil
}

// LoadLatest returns the most recently fetched snapshot.
func (s *Store) LoadLatest(ctx context.Context) (*models.Snapshot, error) {
	var payload []byte
	err := s.QueryRowContext(ctx,
		`SELECT payload FROM snapshots ORDER BY fetched_at DESC LIMIT 1`,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// Prune deletes all but the newest keep snapshots.
func (s *Store) Prune(ctx context.Context, keep int) error {
	if keep <= 0 {
		return nil
	}
	_, err := s.ExecContext(ctx, `DELETE FROM snapshots WHERE id NOT IN (
		SELECT id FROM snapshots ORDER BY fetched_at DESC LIMIT ?
	)`, keep)
	if err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}
