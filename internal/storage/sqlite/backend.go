// Package sqlite stores slots in a SQLite database.
package sqlite

import (
	"fmt"
	"os"

	"github.com/pdxmph/tasks-tui/internal/db"
	"github.com/pdxmph/tasks-tui/internal/storage"
)

// Backend implements the storage.Backend interface over the slots table
type Backend struct {
	db *db.DB
}

// NewBackend opens the database at opts.Path, creating it on first use
func NewBackend(opts storage.Options) (storage.Backend, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("%w: sqlite needs a database path", storage.ErrUnavailable)
	}

	if _, err := os.Stat(opts.Path); os.IsNotExist(err) {
		opts.Logger.Info().Str("path", opts.Path).Msg("creating task database")
		if err := db.Initialize(opts.Path, opts.Logger); err != nil {
			return nil, err
		}
	}

	database, err := db.Open(opts.Path, opts.Logger)
	if err != nil {
		return nil, err
	}

	version, err := database.SchemaVersion()
	if err != nil {
		database.Close()
		return nil, err
	}
	opts.Logger.Info().Str("path", opts.Path).Int64("schema_version", version).Msg("task database opened")

	return &Backend{db: database}, nil
}

// Name returns the backend identifier
func (b *Backend) Name() string {
	return "sqlite"
}

// Load returns the value stored under key
func (b *Backend) Load(key string) (string, bool, error) {
	return b.db.GetSlot(key)
}

// Save replaces the value stored under key
func (b *Backend) Save(key, value string) error {
	return b.db.SetSlot(key, value)
}

// Delete removes key
func (b *Backend) Delete(key string) error {
	return b.db.DeleteSlot(key)
}

// List returns every slot, most recently written first
func (b *Backend) List() ([]storage.SlotInfo, error) {
	slots, err := b.db.ListSlots()
	if err != nil {
		return nil, err
	}
	infos := make([]storage.SlotInfo, len(slots))
	for i, s := range slots {
		infos[i] = storage.SlotInfo{
			Key:       s.Key,
			Size:      s.Size(),
			UpdatedAt: s.UpdatedAt,
		}
	}
	return infos, nil
}

// Close closes the database
func (b *Backend) Close() error {
	return b.db.Close()
}

// Register the sqlite backend
func init() {
	storage.Register("sqlite", NewBackend)
}
