package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// DB wraps the database connection
type DB struct {
	conn *sql.DB
	log  zerolog.Logger
}

// Open creates a new database connection
func Open(dbPath string, logger zerolog.Logger) (*DB, error) {
	// Check if DB exists
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("database not found at %s\nRun 'tasks-tui -init' to create it", dbPath)
	}

	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn, log: logger}

	// Run any pending migrations
	if err := db.RunMigrations(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// GetSlot returns the value stored under key and whether it exists
func (db *DB) GetSlot(key string) (string, bool, error) {
	var value string
	err := db.conn.QueryRow(`SELECT value FROM slots WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading slot %s: %w", key, err)
	}
	return value, true, nil
}

// SetSlot creates or replaces the value stored under key
func (db *DB) SetSlot(key, value string) error {
	query := `
		INSERT INTO slots (key, value, created_at, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`
	if _, err := db.conn.Exec(query, key, value); err != nil {
		return fmt.Errorf("writing slot %s: %w", key, err)
	}
	return nil
}

// DeleteSlot removes the slot. Deleting a missing slot is not an error.
func (db *DB) DeleteSlot(key string) error {
	if _, err := db.conn.Exec(`DELETE FROM slots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting slot %s: %w", key, err)
	}
	return nil
}

// ListSlots returns every slot, most recently written first
func (db *DB) ListSlots() ([]Slot, error) {
	query := `
		SELECT key, value, created_at, updated_at
		FROM slots
		ORDER BY updated_at DESC, key
	`

	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying slots: %w", err)
	}
	defer rows.Close()

	var slots []Slot
	for rows.Next() {
		var s Slot
		if err := rows.Scan(&s.Key, &s.Value, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning slot: %w", err)
		}
		slots = append(slots, s)
	}

	return slots, rows.Err()
}
