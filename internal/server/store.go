package server

import (
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is a stored content entry.
type Entry struct {
	ID        string         `json:"id"`
	Data      map[string]any `json:"data"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// entryStore keeps entries in memory, per content type, in creation order.
type entryStore struct {
	mu      sync.RWMutex
	entries map[string]map[string]Entry
	order   map[string][]string
	now     func() time.Time
}

func newEntryStore() *entryStore {
	return &entryStore{
		entries: make(map[string]map[string]Entry),
		order:   make(map[string][]string),
		now:     time.Now,
	}
}

func (s *entryStore) create(uid string, data map[string]any) Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	entry := Entry{ID: uuid.NewString(), Data: maps.Clone(data), CreatedAt: now, UpdatedAt: now}
	if s.entries[uid] == nil {
		s.entries[uid] = make(map[string]Entry)
	}
	s.entries[uid][entry.ID] = entry
	s.order[uid] = append(s.order[uid], entry.ID)
	return entry
}

func (s *entryStore) update(uid, id string, data map[string]any) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[uid][id]
	if !ok {
		return Entry{}, false
	}
	entry.Data = maps.Clone(data)
	entry.UpdatedAt = s.now().UTC()
	s.entries[uid][id] = entry
	return entry, true
}

func (s *entryStore) get(uid, id string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[uid][id]
	if ok {
		entry.Data = maps.Clone(entry.Data)
	}
	return entry, ok
}

func (s *entryStore) list(uid string) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, 0, len(s.order[uid]))
	for _, id := range s.order[uid] {
		entry := s.entries[uid][id]
		entry.Data = maps.Clone(entry.Data)
		out = append(out, entry)
	}
	return out
}
