package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/brk3/habitcal/internal/storage"
	"github.com/brk3/habitcal/pkg/habit"
)

const schema = `
CREATE TABLE IF NOT EXISTS habits (
	user_id TEXT NOT NULL,
	id      TEXT NOT NULL,
	doc     BLOB NOT NULL,
	PRIMARY KEY (user_id, id)
);
CREATE TABLE IF NOT EXISTS api_keys (
	key_hash TEXT PRIMARY KEY,
	user_id  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_api_keys_user ON api_keys(user_id);
`

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer at a time; sqlite serializes writes anyway
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) PutHabit(userID string, h habit.Habit) error {
	if h.ID == "" {
		return fmt.Errorf("%w: habit id is required", storage.ErrWriteFailed)
	}
	doc, err := habit.Encode(h)
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrWriteFailed, err)
	}
	_, err = s.db.Exec(`
		INSERT INTO habits (user_id, id, doc) VALUES (?, ?, ?)
		ON CONFLICT (user_id, id) DO UPDATE SET doc = excluded.doc`,
		storage.UserOrDefault(userID), h.ID, doc)
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrWriteFailed, err)
	}
	return nil
}

func (s *Store) GetHabit(userID, id string) (habit.Habit, error) {
	var doc []byte
	err := s.db.QueryRow(`SELECT doc FROM habits WHERE user_id = ? AND id = ?`,
		storage.UserOrDefault(userID), id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return habit.Habit{}, fmt.Errorf("habit %q: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return habit.Habit{}, err
	}
	return storage.DecodeHabit(userID, doc)
}

func (s *Store) ListHabits(userID string) ([]habit.Habit, error) {
	rows, err := s.db.Query(`SELECT doc FROM habits WHERE user_id = ?`, storage.UserOrDefault(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []habit.Habit{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		h, err := storage.DecodeHabit(userID, doc)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(out, func(a, b habit.Habit) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}

func (s *Store) DeleteHabit(userID, id string) error {
	res, err := s.db.Exec(`DELETE FROM habits WHERE user_id = ? AND id = ?`, storage.UserOrDefault(userID), id)
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrWriteFailed, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrWriteFailed, err)
	}
	if n == 0 {
		return fmt.Errorf("habit %q: %w", id, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) PutAPIKey(keyHash, userID string) error {
	_, err := s.db.Exec(`
		INSERT INTO api_keys (key_hash, user_id) VALUES (?, ?)
		ON CONFLICT (key_hash) DO UPDATE SET user_id = excluded.user_id`, keyHash, userID)
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrWriteFailed, err)
	}
	return nil
}

func (s *Store) GetAPIKey(keyHash string) (string, bool, error) {
	var userID string
	err := s.db.QueryRow(`SELECT user_id FROM api_keys WHERE key_hash = ?`, keyHash).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return userID, true, nil
}

func (s *Store) DeleteAPIKey(keyHash string) error {
	if _, err := s.db.Exec(`DELETE FROM api_keys WHERE key_hash = ?`, keyHash); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrWriteFailed, err)
	}
	return nil
}

func (s *Store) ListAPIKeyHashes(userID string) ([]string, error) {
	rows, err := s.db.Query(`SELECT key_hash FROM api_keys WHERE user_id = ? ORDER BY key_hash`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

var _ storage.Store = (*Store)(nil)
