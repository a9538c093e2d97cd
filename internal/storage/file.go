package storage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
)

// File is a Backend that keeps each key in its own file under a base
// directory. It is the closest server-side analog of browser local
// storage: durable, local and zero-dependency.
type File struct {
	dir string
	mu  sync.Mutex
}

// NewFile creates a file backend rooted at dir, creating it if needed.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &File{dir: dir}, nil
}

// pathFor maps a key to a file path. Keys are escaped so separators and
// other unsafe characters cannot leave the base directory.
func (f *File) pathFor(key string) string {
	return filepath.Join(f.dir, url.PathEscape(key)+".json")
}

// Get retrieves the value stored at key.
func (f *File) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.pathFor(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Put stores value at key. The write goes through a temp file and a
// rename so a crash mid-write never leaves a truncated blob behind.
func (f *File) Put(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(f.dir, ".put-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, f.pathFor(key)); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// Ping checks that the base directory is still accessible.
func (f *File) Ping(_ context.Context) error {
	_, err := os.Stat(f.dir)
	return err
}

// Close is a no-op for the file backend.
func (f *File) Close() error {
	return nil
}
