package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileStore keeps each key in its own JSON file under a directory.
type FileStore struct {
	mu       sync.RWMutex
	dir      string
	maxBytes int
}

// FileOption configures a [FileStore].
type FileOption func(*FileStore)

// WithMaxBytes limits the size of a single value. Larger writes fail with
// [ErrQuotaExceeded]. Zero means unlimited.
func WithMaxBytes(n int) FileOption { return func(s *FileStore) { s.maxBytes = n } }

// NewFileStore creates a file-based store in the given directory.
// The directory will be created if it doesn't exist.
func NewFileStore(dir string, opts ...FileOption) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	s := &FileStore{dir: dir}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// fileEntry wraps stored data with metadata.
type fileEntry struct {
	Key       string    `json:"key"`
	Data      []byte    `json:"data"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Get retrieves a value from the store.
func (s *FileStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read store file: %w", err)
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false, fmt.Errorf("parse store file: %w", err)
	}
	return entry.Data, true, nil
}

// Set stores a value. The file is written to a temporary name first and
// renamed into place.
func (s *FileStore) Set(ctx context.Context, key string, data []byte) error {
	if s.maxBytes > 0 && len(data) > s.maxBytes {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrQuotaExceeded, len(data), s.maxBytes)
	}

	entryData, err := json.MarshalIndent(fileEntry{
		Key:       key,
		Data:      data,
		UpdatedAt: time.Now().UTC(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, entryData, 0600); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}

// Delete removes a value from the store.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove store file: %w", err)
	}
	return nil
}

// Clear removes every entry and returns how many were deleted.
func (s *FileStore) Clear() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read store dir: %w", err)
	}

	count := 0
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err == nil {
			count++
		}
	}
	return count, nil
}

// Close does nothing for file store.
func (s *FileStore) Close() error {
	return nil
}

// Dir returns the base directory.
func (s *FileStore) Dir() string { return s.dir }

// Path returns the file a key is stored in.
func (s *FileStore) Path(key string) string { return s.path(key) }

// path converts a key to a file path. Keys are hashed so arbitrary text is
// safe to use as a key.
func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, Hash([]byte(key))+".json")
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
