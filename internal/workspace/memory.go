package workspace

import (
	"context"
	"sync"
	"time"

	"omnia-service/internal/domain/business"
)

// MemoryStore is the single-process Store used when Redis is not configured.
type MemoryStore struct {
	mu        sync.Mutex
	snapshots map[string]*Snapshot
	tokens    map[string]uint64
	now       func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snapshots: make(map[string]*Snapshot),
		tokens:    make(map[string]uint64),
		now:       time.Now,
	}
}

func tokenKey(businessID string, kind Kind) string {
	return businessID + "/" + string(kind)
}

func (m *MemoryStore) NextToken(_ context.Context, businessID string, kind Kind) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := tokenKey(businessID, kind)
	m.tokens[k]++
	return m.tokens[k], nil
}

func (m *MemoryStore) Apply(_ context.Context, businessID string, res Result) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tokens[tokenKey(businessID, res.Kind)] != res.Token {
		return false, nil
	}
	m.snapshotLocked(businessID).apply(res, m.now())
	return true, nil
}

func (m *MemoryStore) SaveProfile(_ context.Context, businessID string, p business.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.snapshotLocked(businessID)
	s.Profile = &p
	s.UpdatedAt = m.now()
	return nil
}

func (m *MemoryStore) Get(_ context.Context, businessID string) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.snapshots[businessID]
	if !ok {
		return &Snapshot{BusinessID: businessID}, nil
	}
	cp := *s
	return &cp, nil
}

func (m *MemoryStore) Delete(_ context.Context, businessID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, businessID)
	return nil
}

func (m *MemoryStore) snapshotLocked(businessID string) *Snapshot {
	s, ok := m.snapshots[businessID]
	if !ok {
		s = &Snapshot{BusinessID: businessID}
		m.snapshots[businessID] = s
	}
	return s
}
