// Package store provides the persisted key-value collaborator behind the
// widget's caches: get/set/remove by string key, opaque byte values.
// The store never expires values on its own; TTL enforcement belongs to
// the cache layer on top of it.
package store

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
)

// Store is the key-value contract the cache layer consumes.
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
	Remove(key string) error
}

// FileStore persists each key as a file under a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir.
// If dir is empty, it defaults to ~/.cache/salah-widget/.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".cache", "salah-widget")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create store directory %s: %w", dir, err)
	}

	return &FileStore{dir: dir}, nil
}

// path maps a key to a file name. Keys are hashed so that arbitrary
// characters (coordinates, pipes, dates) stay filesystem-safe.
func (s *FileStore) path(key string) string {
	h := sha256.Sum256([]byte(key))
	return filepath.Join(s.dir, fmt.Sprintf("%x.json", h[:8]))
}

// Get returns the stored value for key, or false if absent or unreadable.
func (s *FileStore) Get(key string) ([]byte, bool) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set writes the value for key.
func (s *FileStore) Set(key string, value []byte) error {
	if err := os.WriteFile(s.path(key), value, 0o644); err != nil {
		return fmt.Errorf("failed to write store file for %q: %w", key, err)
	}
	return nil
}

// Remove deletes the value for key. Removing an absent key is not an error.
func (s *FileStore) Remove(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove store file for %q: %w", key, err)
	}
	return nil
}

// MemoryStore is an in-process Store for tests and the status binary.
type MemoryStore struct {
	m map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[string][]byte)}
}

func (s *MemoryStore) Get(key string) ([]byte, bool) {
	v, ok := s.m[key]
	return v, ok
}

func (s *MemoryStore) Set(key string, value []byte) error {
	s.m[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryStore) Remove(key string) error {
	delete(s.m, key)
	return nil
}
