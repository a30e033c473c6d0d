package syncqueue

import (
	"context"
	"sort"
	"sync"

	"github.com/inkwell-dev/sync-core/models"
)

// memoryStore is a test-only [Store] backed by a guarded map; the real
// SQLite-backed implementation lives in internal/store.
type memoryStore struct {
	mu     sync.Mutex
	rows   map[int64]models.QueueEntry
	nextID int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{rows: make(map[int64]models.QueueEntry)}
}

func (s *memoryStore) Insert(ctx context.Context, entry models.QueueEntry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	entry.ID = s.nextID
	s.rows[entry.ID] = entry
	return entry.ID, nil
}

func (s *memoryStore) FindPendingUpdateByUUID(ctx context.Context, uuid string) (models.QueueEntry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.EntryUUID == uuid && r.Operation == models.QueueOpUpdate &&
			(r.Status == models.QueueStatusPending || r.Status == models.QueueStatusProcessing) {
			return r, true, nil
		}
	}
	return models.QueueEntry{}, false, nil
}

func (s *memoryStore) Update(ctx context.Context, entry models.QueueEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[entry.ID] = entry
	return nil
}

func (s *memoryStore) NextBatch(ctx context.Context, limit int) ([]models.QueueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := nowFunc()
	var eligible []models.QueueEntry
	for _, r := range s.rows {
		if r.Status != models.QueueStatusPending {
			continue
		}
		if r.NextRetryAt != nil && *r.NextRetryAt > now {
			continue
		}
		eligible = append(eligible, r)
	}

	sort.Slice(eligible, func(i, j int) bool {
		if eligible[i].Priority != eligible[j].Priority {
			return eligible[i].Priority > eligible[j].Priority
		}
		return eligible[i].CreatedAt < eligible[j].CreatedAt
	})

	if len(eligible) > limit {
		eligible = eligible[:limit]
	}
	return eligible, nil
}

func (s *memoryStore) RetryFailed(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.rows {
		if r.Status == models.QueueStatusFailed {
			r.Status = models.QueueStatusPending
			r.RetryCount = 0
			r.Error = nil
			r.NextRetryAt = nil
			s.rows[id] = r
		}
	}
	return nil
}

func (s *memoryStore) ClearCompleted(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.rows {
		if r.Status == models.QueueStatusCompleted {
			delete(s.rows, id)
		}
	}
	return nil
}

func (s *memoryStore) Stats(ctx context.Context) (models.QueueStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var stats models.QueueStats
	for _, r := range s.rows {
		switch r.Status {
		case models.QueueStatusPending:
			stats.Pending++
		case models.QueueStatusProcessing:
			stats.Processing++
		case models.QueueStatusCompleted:
			stats.Completed++
		case models.QueueStatusFailed:
			stats.Failed++
		}
	}
	return stats, nil
}

type memoryLookup struct {
	mu        sync.Mutex
	updatedAt map[string]int64
}

func newMemoryLookup() *memoryLookup {
	return &memoryLookup{updatedAt: make(map[string]int64)}
}

func (l *memoryLookup) set(uuid string, updatedAt int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.updatedAt[uuid] = updatedAt
}

func (l *memoryLookup) GetUpdatedAt(ctx context.Context, uuid string) (int64, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.updatedAt[uuid]
	return v, ok, nil
}
