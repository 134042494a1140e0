package cache

import (
	"context"
	"sync"
	"time"

	"evac-backend/internal/models"
)

// SearchTTL bounds how long the name-search read model may be served without
// a refetch. Every mutating registration operation invalidates the cache, so
// the TTL only matters for writes made outside this process.
const SearchTTL = 5 * time.Minute

// Store is the injectable search read-model cache: a single global dataset,
// not a per-key cache. Get reports a miss when empty or expired; Invalidate
// forces the next search to refetch the full join.
type Store interface {
	Get(ctx context.Context) ([]models.EvacueeSearchRow, bool)
	Set(ctx context.Context, rows []models.EvacueeSearchRow)
	Invalidate(ctx context.Context)
}

// MemoryStore is the in-process Store used when Redis is unavailable.
type MemoryStore struct {
	mu        sync.RWMutex
	rows      []models.EvacueeSearchRow
	populated bool
	expiresAt time.Time
	ttl       time.Duration
	now       func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now}
}

func (m *MemoryStore) Get(_ context.Context) ([]models.EvacueeSearchRow, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.populated || m.now().After(m.expiresAt) {
		return nil, false
	}
	return m.rows, true
}

func (m *MemoryStore) Set(_ context.Context, rows []models.EvacueeSearchRow) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = rows
	m.populated = true
	m.expiresAt = m.now().Add(m.ttl)
}

func (m *MemoryStore) Invalidate(_ context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = nil
	m.populated = false
}
