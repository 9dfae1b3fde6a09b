package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"storefront/domain"
	"storefront/logx"
)

// FileStore is a JSON file-backed implementation of domain.KVStore.
// The whole key space lives in one JSON object, rewritten on every change.
type FileStore struct {
	mu     sync.RWMutex
	values map[string]string
	path   string
}

// compile-time assertion
var _ domain.KVStore = (*FileStore)(nil)

// NewFileStore constructs a FileStore at the given path. If the file exists it
// will be loaded; unparsable contents are logged and the store starts empty.
// Only a file that cannot be read at all is an error.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		values: make(map[string]string),
		path:   path,
	}
	if err := s.loadFromFile(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) loadFromFile() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			// no file yet; that's fine
			return nil
		}
		return err
	}
	if len(b) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, &s.values); err != nil {
		logx.Warn().Err(err).Str("path", s.path).Msg("ignoring unreadable store file, starting empty")
		s.values = make(map[string]string)
		return nil
	}
	if s.values == nil {
		s.values = make(map[string]string)
	}
	return nil
}

// saveToFile must be called with mu held.
func (s *FileStore) saveToFile() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	// json.Marshal sorts map keys, so the file is deterministic
	b, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *FileStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.values[key]
	s.values[key] = value
	if err := s.saveToFile(); err != nil {
		// keep memory consistent with disk
		if had {
			s.values[key] = prev
		} else {
			delete(s.values, key)
		}
		return err
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.saveToFile()
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}
