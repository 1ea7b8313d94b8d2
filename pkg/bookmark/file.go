package bookmark

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// FileStore keeps one JSON file per bookmark, named <id>.json, in a single
// directory. It is the default backend for the CLI.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore opens a store in dir, creating the directory with owner-only
// permissions if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("bookmark dir is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create bookmark dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// file maps id to its path. Only UUIDs have a file, so an id can never name
// a path outside dir.
func (s *FileStore) file(id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", ErrNotFound
	}
	return filepath.Join(s.dir, id+".json"), nil
}

func (s *FileStore) Get(_ context.Context, id string) (*Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path, err := s.file(id)
	if err != nil {
		return nil, err
	}
	return loadBookmark(path)
}

// Put writes b through a temporary file, replacing any bookmark with the
// same ID.
func (s *FileStore) Put(_ context.Context, b *Bookmark) error {
	path, err := s.file(b.ID)
	if err != nil {
		return fmt.Errorf("invalid bookmark id %q", b.ID)
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal bookmark: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write bookmark: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write bookmark: %w", err)
	}
	return nil
}

// List returns every readable bookmark, oldest first. Files that fail to
// parse are skipped.
func (s *FileStore) List(_ context.Context) ([]*Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, err
	}
	out := make([]*Bookmark, 0, len(matches))
	for _, path := range matches {
		if _, err := uuid.Parse(strings.TrimSuffix(filepath.Base(path), ".json")); err != nil {
			continue
		}
		if b, err := loadBookmark(path); err == nil {
			out = append(out, b)
		}
	}
	slices.SortFunc(out, func(a, b *Bookmark) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	path, err := s.file(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch err := os.Remove(path); {
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case err != nil:
		return fmt.Errorf("remove bookmark: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

func loadBookmark(path string) (*Bookmark, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read bookmark: %w", err)
	}
	b := new(Bookmark)
	if err := json.Unmarshal(data, b); err != nil {
		return nil, fmt.Errorf("parse bookmark %s: %w", filepath.Base(path), err)
	}
	return b, nil
}

var _ Store = (*FileStore)(nil)
