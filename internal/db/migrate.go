package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are re-run on every open,
// so each one must be idempotent.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillChecklistAccess(db); err != nil {
		return fmt.Errorf("backfilling checklist access: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS clients (
		id              TEXT PRIMARY KEY,
		name            TEXT NOT NULL,
		email           TEXT NOT NULL DEFAULT '',
		phone           TEXT NOT NULL DEFAULT '',
		role            TEXT NOT NULL DEFAULT 'regular'
		                CHECK(role IN ('admin','secretary','regular')),
		status          TEXT NOT NULL DEFAULT 'pre_registration',
		billing         TEXT NOT NULL DEFAULT '{}',
		checklist_data  TEXT NOT NULL DEFAULT '{}',
		completed_steps TEXT NOT NULL DEFAULT '[]',
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_clients_status ON clients(status)`,

	// Phase gating was added after the first release; old rows start as NULL.
	`ALTER TABLE clients ADD COLUMN checklist_access TEXT`,
}

// migrateBackfillChecklistAccess gives rows created before the phase flag
// existed the locked default. Idempotent.
func migrateBackfillChecklistAccess(db *sql.DB) error {
	ctx := context.Background()
	if _, err := db.ExecContext(ctx,
		`UPDATE clients SET checklist_access = 'locked' WHERE checklist_access IS NULL OR checklist_access = ''`); err != nil {
		return fmt.Errorf("updating clients: %w", err)
	}
	return nil
}
