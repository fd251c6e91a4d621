// Package file stores slots in a single JSON document on disk.
package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pdxmph/tasks-tui/internal/storage"
)

// Backend keeps every slot in memory and rewrites the whole file on each
// change
type Backend struct {
	mu    sync.Mutex
	path  string
	slots map[string]string
}

// NewBackend loads the slot file at opts.FilePath. A missing file is an empty
// set of slots; it is created on the first save.
func NewBackend(opts storage.Options) (storage.Backend, error) {
	if opts.FilePath == "" {
		return nil, fmt.Errorf("%w: file storage needs a path", storage.ErrUnavailable)
	}
	if err := os.MkdirAll(filepath.Dir(opts.FilePath), 0o755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}

	b := &Backend{
		path:  opts.FilePath,
		slots: map[string]string{},
	}
	if err := b.load(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Backend) load() error {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading slot file: %w", err)
	}

	var loaded map[string]string
	if err := json.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("parsing slot file %s: %w", b.path, err)
	}
	if loaded != nil {
		b.slots = loaded
	}
	return nil
}

// saveLocked writes through a temp file so a crash never leaves half a file
func (b *Backend) saveLocked() error {
	data, err := json.MarshalIndent(b.slots, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding slot file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(b.path), ".slots-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing slot file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing slot file: %w", err)
	}
	if err := os.Rename(tmp.Name(), b.path); err != nil {
		return fmt.Errorf("replacing slot file: %w", err)
	}
	return nil
}

// Name returns the backend identifier
func (b *Backend) Name() string {
	return "file"
}

// Load returns the value stored under key
func (b *Backend) Load(key string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.slots[key]
	return v, ok, nil
}

// Save replaces the value stored under key and rewrites the file
func (b *Backend) Save(key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	prev, existed := b.slots[key]
	b.slots[key] = value
	if err := b.saveLocked(); err != nil {
		if existed {
			b.slots[key] = prev
		} else {
			delete(b.slots, key)
		}
		return err
	}
	return nil
}

// Delete removes key and rewrites the file
func (b *Backend) Delete(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	prev, existed := b.slots[key]
	if !existed {
		return nil
	}
	delete(b.slots, key)
	if err := b.saveLocked(); err != nil {
		b.slots[key] = prev
		return err
	}
	return nil
}

// Close is a no-op; every change is already on disk
func (b *Backend) Close() error {
	return nil
}

// Register the file backend
func init() {
	storage.Register("file", NewBackend)
}
