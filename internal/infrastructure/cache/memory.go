package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

var _ Store = (*MemoryStore)(nil)

type memEntry struct {
	data      []byte
	expiresAt time.Time // cero = sin expiración
}

// MemoryStore implementación en proceso de Store (development y tests).
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]memEntry
	now   func() time.Time
}

// NewMemoryStore construye un store vacío.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]memEntry), now: time.Now}
}

// WithClock reemplaza el reloj (tests de expiración).
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

// lookup asume s.mu tomado; borra la entrada si expiró.
func (s *MemoryStore) lookup(key string) (memEntry, bool) {
	e, ok := s.items[key]
	if !ok {
		return memEntry{}, false
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		delete(s.items, key)
		return memEntry{}, false
	}
	return e, true
}

func (s *MemoryStore) entry(value any, ttl time.Duration) (memEntry, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return memEntry{}, fmt.Errorf("marshal value: %w", err)
	}
	e := memEntry{data: data}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	return e, nil
}

func (s *MemoryStore) Get(_ context.Context, key string, dest any) (bool, error) {
	s.mu.Lock()
	e, ok := s.lookup(key)
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(e.data, dest)
}

func (s *MemoryStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	e, err := s.entry(value, ttl)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.items[key] = e
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) SetNX(_ context.Context, key string, value any, ttl time.Duration) (bool, error) {
	e, err := s.entry(value, ttl)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.lookup(key); exists {
		return false, nil
	}
	s.items[key] = e
	return true, nil
}

func (s *MemoryStore) GetDel(_ context.Context, key string, dest any) (bool, error) {
	s.mu.Lock()
	e, ok := s.lookup(key)
	delete(s.items, key)
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(e.data, dest)
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	for _, k := range keys {
		delete(s.items, k)
	}
	s.mu.Unlock()
	return nil
}
