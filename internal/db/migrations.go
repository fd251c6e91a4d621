package db

import (
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed schema/*.sql
var embedMigrations embed.FS

// goose keeps its configuration in package globals
var gooseMu sync.Mutex

// RunMigrations applies any pending database migrations
func (db *DB) RunMigrations() error {
	return migrate(db.conn, db.log)
}

// SchemaVersion returns the latest applied migration version
func (db *DB) SchemaVersion() (int64, error) {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := goose.SetDialect("sqlite3"); err != nil {
		return 0, fmt.Errorf("setting goose dialect: %w", err)
	}
	version, err := goose.GetDBVersion(db.conn)
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

func migrate(conn *sql.DB, logger zerolog.Logger) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(gooseLogger{log: logger})

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	if err := goose.Up(conn, "schema"); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	return nil
}

// gooseLogger sends goose output to zerolog instead of stdout, which
// belongs to the terminal UI
type gooseLogger struct {
	log zerolog.Logger
}

func (g gooseLogger) Printf(format string, v ...interface{}) {
	g.log.Debug().Str("component", "goose").Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf logs at error level; the failure comes back through migrate's
// error return instead of exiting under the UI
func (g gooseLogger) Fatalf(format string, v ...interface{}) {
	g.log.Error().Str("component", "goose").Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
