package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteDriverName = "sqlite"

// OpenSQLite opens/creates a SQLite DB file and ensures the cooks collection exists.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// Conservative pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is not great with many writers
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Fail fast if the DB cannot be reached
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

// The doc column holds the JSON document; created_at and start_date are
// copied out of it so filters and ordering run in SQL.
const schemaCooks = `
CREATE TABLE IF NOT EXISTS cooks (
    id TEXT PRIMARY KEY,
    created_at TIMESTAMP NOT NULL,
    start_date TEXT NOT NULL,
    doc TEXT NOT NULL
);
`

const schemaCooksCreatedIdx = `CREATE INDEX IF NOT EXISTS idx_cooks_created_at ON cooks (created_at);`

const schemaCooksStartIdx = `CREATE INDEX IF NOT EXISTS idx_cooks_start_date ON cooks (start_date);`

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		// no-op after a successful commit
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaCooks,
		schemaCooksCreatedIdx,
		schemaCooksStartIdx,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
