package bolt

import (
	"fmt"
	"slices"
	"strings"

	"github.com/brk3/habitcal/internal/storage"
	"github.com/brk3/habitcal/pkg/habit"
	"go.etcd.io/bbolt"
)

const (
	rootBucket   = "users"
	habitsBucket = "habits"
	apiKeyBucket = "apikeys"
)

type Store struct {
	db *bbolt.DB
}

func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{rootBucket, apiKeyBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// habits returns the user's habit bucket, creating it in writable
// transactions. In read-only transactions it returns nil for users that
// have never saved anything.
func (s *Store) habits(tx *bbolt.Tx, userID string) (*bbolt.Bucket, error) {
	users := tx.Bucket([]byte(rootBucket))
	userID = storage.UserOrDefault(userID)
	if !tx.Writable() {
		user := users.Bucket([]byte(userID))
		if user == nil {
			return nil, nil
		}
		return user.Bucket([]byte(habitsBucket)), nil
	}
	user, err := users.CreateBucketIfNotExists([]byte(userID))
	if err != nil {
		return nil, err
	}
	return user.CreateBucketIfNotExists([]byte(habitsBucket))
}

func (s *Store) PutHabit(userID string, h habit.Habit) error {
	if h.ID == "" {
		return fmt.Errorf("%w: habit id is required", storage.ErrWriteFailed)
	}
	val, err := habit.Encode(h)
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrWriteFailed, err)
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := s.habits(tx, userID)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(h.ID), val)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrWriteFailed, err)
	}
	return nil
}

func (s *Store) GetHabit(userID, id string) (habit.Habit, error) {
	var data []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket, err := s.habits(tx, userID)
		if err != nil {
			return err
		}
		if bucket == nil {
			return nil
		}
		if v := bucket.Get([]byte(id)); v != nil {
			data = slices.Clone(v)
		}
		return nil
	})
	if err != nil {
		return habit.Habit{}, err
	}
	if data == nil {
		return habit.Habit{}, fmt.Errorf("habit %q: %w", id, storage.ErrNotFound)
	}
	return storage.DecodeHabit(userID, data)
}

func (s *Store) ListHabits(userID string) ([]habit.Habit, error) {
	var docs [][]byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket, err := s.habits(tx, userID)
		if err != nil || bucket == nil {
			return err
		}
		return bucket.ForEach(func(_, v []byte) error {
			docs = append(docs, slices.Clone(v))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	out := make([]habit.Habit, 0, len(docs))
	for _, d := range docs {
		h, err := storage.DecodeHabit(userID, d)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
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
	found := false
	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := s.habits(tx, userID)
		if err != nil {
			return err
		}
		if bucket.Get([]byte(id)) == nil {
			return nil
		}
		found = true
		return bucket.Delete([]byte(id))
	})
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrWriteFailed, err)
	}
	if !found {
		return fmt.Errorf("habit %q: %w", id, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) PutAPIKey(keyHash, userID string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(apiKeyBucket)).Put([]byte(keyHash), []byte(userID))
	})
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrWriteFailed, err)
	}
	return nil
}

func (s *Store) GetAPIKey(keyHash string) (string, bool, error) {
	var userID string
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket([]byte(apiKeyBucket)).Get([]byte(keyHash)); v != nil {
			userID, found = string(v), true
		}
		return nil
	})
	return userID, found, err
}

func (s *Store) DeleteAPIKey(keyHash string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(apiKeyBucket)).Delete([]byte(keyHash))
	})
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrWriteFailed, err)
	}
	return nil
}

func (s *Store) ListAPIKeyHashes(userID string) ([]string, error) {
	var out []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(apiKeyBucket)).ForEach(func(k, v []byte) error {
			if string(v) == userID {
				out = append(out, string(k))
			}
			return nil
		})
	})
	return out, err
}

var _ storage.Store = (*Store)(nil)
