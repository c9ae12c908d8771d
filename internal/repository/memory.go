package repository

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/dkmdesk/zakat_bot/internal/model"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore is an in-process DraftStore used for local polling and tests.
// Values are stored serialized so callers never share a *Draft.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(time.Now)
}

// NewMemoryStoreWithClock lets tests move time forward past the TTL.
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     now,
	}
}

func (s *MemoryStore) Get(ctx context.Context, userID int64) (*model.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := DraftKey(userID)
	entry, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, key)
		return nil, nil
	}
	return decodeDraft(entry.value)
}

func (s *MemoryStore) Put(ctx context.Context, userID int64, draft *model.Draft, ttl time.Duration) error {
	value, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[DraftKey(userID)] = memoryEntry{value: value, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, DraftKey(userID))
	return nil
}

// Len counts entries including ones that expired but were not yet read.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func decodeDraft(raw []byte) (*model.Draft, error) {
	var d model.Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	return &d, nil
}
