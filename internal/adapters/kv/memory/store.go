package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"pet-tag/internal/ports/kv"
)

var _ kv.Store = (*Store)(nil)

type entry struct {
	raw       []byte
	expiresAt time.Time
}

// Store es el kv.Store in-memory para dev/tests. Serializa a JSON igual que
// la versión Redis para que los tipos se comporten igual.
type Store struct {
	mu   sync.Mutex
	data map[string]entry
	now  func() time.Time
}

func NewStore() *Store {
	return &Store{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

func (s *Store) Get(_ context.Context, key string, dest any) (bool, error) {
	s.mu.Lock()
	e, ok := s.data[key]
	if ok && !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		delete(s.data, key)
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(e.raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e := entry{raw: b}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.data[key] = e
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
