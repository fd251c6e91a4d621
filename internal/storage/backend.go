// Package storage provides the key/value slot backends the task list is
// persisted to.
package storage

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// ErrUnavailable is returned by a factory when its backend cannot run here
var ErrUnavailable = errors.New("storage backend unavailable")

// Backend defines the interface that all slot storage backends must implement
type Backend interface {
	// Name returns the backend identifier (e.g., "sqlite", "file")
	Name() string

	// Load returns the value stored under key and whether the key exists
	Load(key string) (string, bool, error)

	// Save replaces the value stored under key
	Save(key, value string) error

	// Delete removes key; deleting a missing key is not an error
	Delete(key string) error

	// Close releases any resources held by the backend
	Close() error
}

// SlotInfo describes one stored slot without its value
type SlotInfo struct {
	Key       string
	Size      int
	UpdatedAt time.Time
}

// Lister is implemented by backends that can enumerate their slots
type Lister interface {
	List() ([]SlotInfo, error)
}

// Options carries what a backend needs to open
type Options struct {
	// Path is the SQLite database location
	Path string
	// FilePath is the JSON slot file location
	FilePath string
	Logger   zerolog.Logger
}

// BackendFactory is a function that opens a new instance of a Backend
type BackendFactory func(opts Options) (Backend, error)
