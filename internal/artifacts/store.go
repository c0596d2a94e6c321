package artifacts

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"ticketflow/internal/shared/apperrors"
)

// Store keeps artifact blobs and hands out references to them.
type Store interface {
	Put(ctx context.Context, key string, data []byte) (ref string, err error)
	Get(ctx context.Context, ref string) ([]byte, error)
	// Delete removes ref. Deleting a missing ref is not an error.
	Delete(ctx context.Context, ref string) error
}

// DiskStore writes blobs below a root directory; refs are slash separated
// paths relative to it.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact directory: %w", err)
	}
	return &DiskStore{root: root}, nil
}

func (s *DiskStore) Put(_ context.Context, key string, data []byte) (string, error) {
	p, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", fmt.Errorf("create artifact directory: %w", err)
	}

	// write then rename so readers never see a partial file
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("store artifact: %w", err)
	}
	return key, nil
}

func (s *DiskStore) Get(_ context.Context, ref string) ([]byte, error) {
	p, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("artifact %s: %w", ref, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	return data, nil
}

func (s *DiskStore) Delete(_ context.Context, ref string) error {
	p, err := s.resolve(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete artifact: %w", err)
	}
	// drop the per-subject directory once it is empty
	_ = os.Remove(filepath.Dir(p))
	return nil
}

func (s *DiskStore) resolve(ref string) (string, error) {
	clean := path.Clean("/" + ref)
	if ref == "" || clean == "/" || strings.Contains(ref, "..") {
		return "", fmt.Errorf("invalid artifact ref %q: %w", ref, apperrors.ErrInvalidInput)
	}
	return filepath.Join(s.root, filepath.FromSlash(clean[1:])), nil
}

// MemoryStore keeps blobs in a map. FailPut and FailDelete, when set, are
// consulted before each write or delete.
type MemoryStore struct {
	mu         sync.Mutex
	blobs      map[string][]byte
	FailPut    func(key string) error
	FailDelete func(ref string) error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (s *MemoryStore) Put(_ context.Context, key string, data []byte) (string, error) {
	if s.FailPut != nil {
		if err := s.FailPut(key); err != nil {
			return "", err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = append([]byte(nil), data...)
	return key, nil
}

func (s *MemoryStore) Get(_ context.Context, ref string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[ref]
	if !ok {
		return nil, fmt.Errorf("artifact %s: %w", ref, apperrors.ErrNotFound)
	}
	return data, nil
}

func (s *MemoryStore) Delete(_ context.Context, ref string) error {
	if s.FailDelete != nil {
		if err := s.FailDelete(ref); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, ref)
	return nil
}

// Len reports the number of stored blobs.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}
