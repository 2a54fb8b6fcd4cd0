package player

import (
	"sync"

	"github.com/google/uuid"

	"musix/models"
)

// Manager owns one Queue per user.
type Manager struct {
	mu     sync.Mutex
	queues map[uuid.UUID]*Queue
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{queues: make(map[uuid.UUID]*Queue)}
}

func (m *Manager) queue(userID uuid.UUID) *Queue {
	q, ok := m.queues[userID]
	if !ok {
		q = NewQueue()
		m.queues[userID] = q
	}
	return q
}

// Do runs fn against the user's queue while holding the manager lock and
// returns the resulting snapshot. The snapshot reflects the queue even when
// fn fails.
func (m *Manager) Do(userID uuid.UUID, fn func(q *Queue) error) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	q := m.queue(userID)
	err := fn(q)
	return q.Snapshot(), err
}

// Snapshot returns the user's queue state.
func (m *Manager) Snapshot(userID uuid.UUID) Snapshot {
	snap, _ := m.Do(userID, func(*Queue) error { return nil })
	return snap
}

// Forget removes a deleted song from every queue.
func (m *Manager) Forget(songID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, q := range m.queues {
		q.Remove(songID)
	}
}

// Refresh pushes an updated song into every queue holding it.
func (m *Manager) Refresh(song models.Song) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, q := range m.queues {
		q.Update(song)
	}
}

// Drop discards the user's queue.
func (m *Manager) Drop(userID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.queues, userID)
}
