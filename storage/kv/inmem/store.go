package inmemkv

import (
	"sync"

	"github.com/meshwar/roster/core"
)

// Store is a process-local core.KeyValueStore. Used in tests and as the
// session-scoped store (session state does not outlive the process).
type Store struct {
	mu    sync.RWMutex
	table map[string]string
}

var _ core.KeyValueStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{table: make(map[string]string)}
}

func (s *Store) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.table[key]
	if !ok {
		return "", core.ErrKeyNotFound
	}
	return value, nil
}

func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table[key] = value
	return nil
}

func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.table, key)
	return nil
}
