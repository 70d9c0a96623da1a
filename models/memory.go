package models

import (
	"context"
	"sync"
	"time"
)

// In-memory store implementations, used by tests and local development
// without a database.

type MemoryVersionStore struct {
	mu      sync.Mutex
	records []InventoryVersion
	nextID  int
}

func NewMemoryVersionStore() *MemoryVersionStore {
	return &MemoryVersionStore{nextID: 1}
}

func (s *MemoryVersionStore) NextVersion(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxVersionLocked() + 1, nil
}

func (s *MemoryVersionStore) Persist(ctx context.Context, record *InventoryVersion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record.Version = s.maxVersionLocked() + 1
	record.ID = s.nextID
	s.nextID++
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	s.records = append(s.records, *record)
	return nil
}

func (s *MemoryVersionStore) Latest(ctx context.Context) (*InventoryVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.records) == 0 {
		return nil, ErrNoInventory
	}
	latest := s.records[len(s.records)-1]
	return &latest, nil
}

func (s *MemoryVersionStore) History(ctx context.Context, limit int) ([]InventoryVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := make([]InventoryVersion, 0, limit)
	for i := len(s.records) - 1; i >= 0 && len(history) < limit; i-- {
		history = append(history, s.records[i])
	}
	return history, nil
}

func (s *MemoryVersionStore) maxVersionLocked() int {
	if len(s.records) == 0 {
		return 0
	}
	return s.records[len(s.records)-1].Version
}

type MemoryScanCacheStore struct {
	mu      sync.RWMutex
	entries map[string]ScanCacheEntry
}

func NewMemoryScanCacheStore() *MemoryScanCacheStore {
	return &MemoryScanCacheStore{entries: make(map[string]ScanCacheEntry)}
}

func (s *MemoryScanCacheStore) Get(ctx context.Context, inputHash string) (*ScanCacheEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[inputHash]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (s *MemoryScanCacheStore) Put(ctx context.Context, entry *ScanCacheEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *entry
	if existing, ok := s.entries[entry.InputHash]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	stored.UpdatedAt = time.Now()
	s.entries[entry.InputHash] = stored
	return nil
}

type MemoryAuditStore struct {
	mu     sync.Mutex
	events []AuditEvent
	nextID int
}

func NewMemoryAuditStore() *MemoryAuditStore {
	return &MemoryAuditStore{nextID: 1}
}

func (s *MemoryAuditStore) Append(ctx context.Context, event *AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	event.ID = s.nextID
	s.nextID++
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	s.events = append(s.events, *event)
	return nil
}

func (s *MemoryAuditStore) Recent(ctx context.Context, limit int) ([]AuditEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := make([]AuditEvent, 0, limit)
	for i := len(s.events) - 1; i >= 0 && len(events) < limit; i-- {
		events = append(events, s.events[i])
	}
	return events, nil
}
