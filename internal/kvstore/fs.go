package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FSStore is a filesystem-based Store keeping one JSON file per key.
type FSStore struct {
	baseDir string
	mu      sync.RWMutex
}

// NewFSStore creates a filesystem store rooted at baseDir.
func NewFSStore(baseDir string) (*FSStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &FSStore{baseDir: baseDir}, nil
}

func (s *FSStore) filePath(key string) string {
	// Keys are fixed application constants, but keep path traversal out
	// of the data directory regardless.
	safe := strings.ReplaceAll(key, string(os.PathSeparator), "_")
	return filepath.Join(s.baseDir, safe+".json")
}

// Get reads and unmarshals the JSON file for the key.
func (s *FSStore) Get(ctx context.Context, key string, dest any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.filePath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrKeyNotFound, key)
		}
		return fmt.Errorf("failed to read key %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal key %s: %w", key, err)
	}

	return nil
}

// Set marshals the value and writes it to the key's JSON file.
func (s *FSStore) Set(ctx context.Context, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal key %s: %w", key, err)
	}

	if err := os.WriteFile(s.filePath(key), data, 0644); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}

	return nil
}

// Delete removes the key's JSON file if present.
func (s *FSStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.filePath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// Close is a no-op for the filesystem store.
func (s *FSStore) Close() error {
	return nil
}
