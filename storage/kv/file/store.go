package filekv

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/pkg/errors"

	"github.com/meshwar/roster/core"
)

// Store is a file-backed core.KeyValueStore: one JSON object per file,
// loaded at open and written through on every mutation. It is the service
// analogue of the browser's localStorage.
type Store struct {
	mu    sync.Mutex
	path  string
	table map[string]string
}

var _ core.KeyValueStore = (*Store)(nil)

func NewStore(path string) (*Store, error) {
	s := &Store{path: path, table: make(map[string]string)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading store file")
	}
	if err := json.Unmarshal(data, &s.table); err != nil {
		return nil, errors.Wrapf(err, "decoding store file %s", path)
	}
	return s, nil
}

func (s *Store) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

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
	return s.flush()
}

func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.table, key)
	return s.flush()
}

// flush rewrites the whole file. Callers must hold the lock.
func (s *Store) flush() error {
	data, err := json.MarshalIndent(s.table, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding store file")
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing store file %s", s.path)
	}
	return nil
}
