package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// Initialize creates a new database with the complete schema
func Initialize(dbPath string, logger zerolog.Logger) error {
	// Check if database already exists
	if _, err := os.Stat(dbPath); err == nil {
		return fmt.Errorf("database already exists at %s", dbPath)
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}

	// Create database file
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("creating database: %w", err)
	}
	defer conn.Close()

	// sql.Open is lazy; make sure the file is actually created
	if err := conn.Ping(); err != nil {
		return fmt.Errorf("creating database: %w", err)
	}

	// Create schema
	if err := migrate(conn, logger); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	logger.Info().Str("path", dbPath).Msg("database initialized")
	return nil
}
