package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// FileStore is a file-based remote store for CLI use.
// Remotes are stored as JSON files in a config directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a new file-based remote store.
// If baseDir is empty, defaults to ~/.config/gridpack/remotes/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "gridpack", "remotes")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create remote dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) remotePath(name string) string {
	return filepath.Join(s.baseDir, name+".json")
}

func (s *FileStore) Get(ctx context.Context, name string) (*Remote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.remotePath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read remote file: %w", err)
	}

	var r Remote
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse remote: %w", err)
	}
	return &r, nil
}

func (s *FileStore) Set(ctx context.Context, r *Remote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal remote: %w", err)
	}

	if err := os.WriteFile(s.remotePath(r.Name), data, 0600); err != nil {
		return fmt.Errorf("write remote file: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.remotePath(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove remote file: %w", err)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]*Remote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read remote dir: %w", err)
	}

	var remotes []*Remote
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		var r Remote
		if err := json.Unmarshal(data, &r); err != nil {
			continue
		}
		if r.Name == "" {
			r.Name = strings.TrimSuffix(entry.Name(), ".json")
		}
		remotes = append(remotes, &r)
	}
	sort.Slice(remotes, func(i, j int) bool { return remotes[i].Name < remotes[j].Name })
	return remotes, nil
}

// Path returns the base directory for remote files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
