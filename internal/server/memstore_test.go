package server

import (
	"fmt"
	"slices"
	"sync"

	"github.com/brk3/habitcal/internal/storage"
	"github.com/brk3/habitcal/pkg/habit"
)

type memStore struct {
	mu      sync.RWMutex
	data    map[string]map[string]habit.Habit
	apiKeys map[string]string
	failPut bool
}

func newMemStore() *memStore {
	return &memStore{
		data:    map[string]map[string]habit.Habit{},
		apiKeys: map[string]string{},
	}
}

func (m *memStore) PutHabit(userID string, h habit.Habit) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failPut {
		return fmt.Errorf("%w: disk full", storage.ErrWriteFailed)
	}
	if m.data[userID] == nil {
		m.data[userID] = map[string]habit.Habit{}
	}
	h.History = habit.Normalize(h.History)
	m.data[userID][h.ID] = h
	return nil
}

func (m *memStore) GetHabit(userID, id string) (habit.Habit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	h, ok := m.data[userID][id]
	if !ok {
		return habit.Habit{}, fmt.Errorf("habit %q: %w", id, storage.ErrNotFound)
	}
	return h, nil
}

func (m *memStore) ListHabits(userID string) ([]habit.Habit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []habit.Habit{}
	for _, h := range m.data[userID] {
		out = append(out, h)
	}
	slices.SortFunc(out, func(a, b habit.Habit) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

func (m *memStore) DeleteHabit(userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.data[userID][id]; !ok {
		return fmt.Errorf("habit %q: %w", id, storage.ErrNotFound)
	}
	delete(m.data[userID], id)
	return nil
}

func (m *memStore) PutAPIKey(keyHash, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apiKeys[keyHash] = userID
	return nil
}

func (m *memStore) GetAPIKey(keyHash string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	userID, ok := m.apiKeys[keyHash]
	return userID, ok, nil
}

func (m *memStore) DeleteAPIKey(keyHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.apiKeys, keyHash)
	return nil
}

func (m *memStore) ListAPIKeyHashes(userID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []string
	for k, v := range m.apiKeys {
		if v == userID {
			out = append(out, k)
		}
	}
	return out, nil
}

func (m *memStore) Close() error {
	return nil
}

var _ storage.Store = (*memStore)(nil)
