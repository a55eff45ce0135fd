package store

import (
	"context"
	"sort"
	"sync"

	"github.com/cjdbcurvajxjencj/dIArio-backend/internal/job"
)

type memoryStore struct {
	mu   sync.RWMutex
	jobs map[string]map[string]job.Record
}

// NewMemory returns a process-local Store.
func NewMemory() Store {
	return &memoryStore{jobs: make(map[string]map[string]job.Record)}
}

func (m *memoryStore) Create(ctx context.Context, owner, id string, rec job.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.jobs[owner][id]; ok {
		return ErrExists
	}
	m.put(owner, id, rec)
	return nil
}

func (m *memoryStore) Put(ctx context.Context, owner, id string, rec job.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.put(owner, id, rec)
	return nil
}

func (m *memoryStore) put(owner, id string, rec job.Record) {
	byID, ok := m.jobs[owner]
	if !ok {
		byID = make(map[string]job.Record)
		m.jobs[owner] = byID
	}
	byID[id] = Clone(rec)
}

func (m *memoryStore) Get(ctx context.Context, owner, id string) (job.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.jobs[owner][id]
	if !ok {
		return job.Record{}, ErrNotFound
	}
	return Clone(rec), nil
}

func (m *memoryStore) Exists(ctx context.Context, owner, id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.jobs[owner][id]
	return ok, nil
}

func (m *memoryStore) List(ctx context.Context, owner string) ([]job.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]job.Entry, 0, len(m.jobs[owner]))
	for id, rec := range m.jobs[owner] {
		entries = append(entries, job.Entry{ID: id, Record: Clone(rec)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

func (m *memoryStore) Close() error { return nil }
