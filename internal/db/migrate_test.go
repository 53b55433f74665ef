package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDB_InMemoryCreatesClientsTable(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	var name string
	err = database.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'clients'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "clients", name)
}

func TestMigrate_Idempotent(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, Migrate(database))
	require.NoError(t, Migrate(database))
}

func TestMigrate_BackfillsChecklistAccess(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	_, err = database.Exec(`INSERT INTO clients (id, name, created_at, updated_at, checklist_access)
		VALUES ('c1', 'Ana', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z', NULL)`)
	require.NoError(t, err)

	require.NoError(t, Migrate(database))

	var access string
	require.NoError(t, database.QueryRow(`SELECT checklist_access FROM clients WHERE id = 'c1'`).Scan(&access))
	assert.Equal(t, "locked", access)
}
