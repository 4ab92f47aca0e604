package memory

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"

	"pet-tag/internal/ports/objects"
)

var _ objects.Store = (*Store)(nil)

type Object struct {
	ContentType string
	Data        []byte
}

// Store guarda objetos en memoria (modo dev / tests).
type Store struct {
	mu   sync.RWMutex
	objs map[string]Object
}

func NewStore() *Store {
	return &Store{objs: make(map[string]Object)}
}

func (s *Store) Put(_ context.Context, key, contentType string, body io.Reader) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objs[key] = Object{ContentType: contentType, Data: buf.Bytes()}
	return URL(key), nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objs, key)
	return nil
}

func (s *Store) KeyForURL(u string) (string, bool) {
	key, ok := strings.CutPrefix(u, "memory://")
	return key, ok && key != ""
}

// Get es solo para tests.
func (s *Store) Get(key string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.objs[key]
	return o, ok
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objs)
}

func URL(key string) string {
	return "memory://" + key
}
