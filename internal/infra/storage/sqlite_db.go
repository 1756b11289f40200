package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/algotycoon/server/internal/platform/config"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// InitSQLite initializes the local SQLite database and creates the schemas
// for the audit ledger and the run summaries.
func InitSQLite(dbPath string, tuning config.Tuning) (*sql.DB, error) {
	if dbPath != MemoryPath {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// Every connection to :memory: is a separate database.
	if dbPath == MemoryPath {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(tuning.DBMaxOpenConns)
		db.SetMaxIdleConns(tuning.DBMaxIdleConns)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if err := createSchemas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schemas: %w", err)
	}

	return db, nil
}

func createSchemas(db *sql.DB) error {
	schemas := []string{
		`PRAGMA journal_mode=WAL;`,
		`PRAGMA busy_timeout=5000;`,
		`CREATE TABLE IF NOT EXISTS ledger (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			game_id TEXT NOT NULL,
			ts INTEGER NOT NULL,
			event_type TEXT NOT NULL,
			actor_id TEXT NOT NULL,
			target_id TEXT NOT NULL DEFAULT '',
			payload TEXT NOT NULL,
			turn INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS runs (
			game_id TEXT PRIMARY KEY,
			archetype TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			seed INTEGER NOT NULL,
			status TEXT NOT NULL,
			reason TEXT NOT NULL DEFAULT '',
			turn INTEGER NOT NULL,
			exams_passed INTEGER NOT NULL DEFAULT 0,
			budget INTEGER NOT NULL,
			reputation INTEGER NOT NULL,
			team_size INTEGER NOT NULL DEFAULT 0,
			started_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_game_id ON ledger(game_id);`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_game_turn ON ledger(game_id, turn);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_updated_at ON runs(updated_at);`,
	}

	for _, query := range schemas {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}
