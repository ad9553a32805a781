package migrations

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&count)
	require.NoError(t, err)
	return count == 1
}

func TestRunMigrations_CreatesTaskTable(t *testing.T) {
	db := openDB(t)

	require.NoError(t, RunMigrations(db))
	assert.True(t, tableExists(t, db, "task"))

	version, err := CurrentVersion(db)
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db := openDB(t)

	require.NoError(t, RunMigrations(db))
	require.NoError(t, RunMigrations(db))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestTaskTable_NameIsUnique(t *testing.T) {
	db := openDB(t)
	require.NoError(t, RunMigrations(db))

	insert := `INSERT INTO task (id, name, due_date, created_at, updated_at) VALUES (?, ?, '', '', '')`
	_, err := db.Exec(insert, "1", "X")
	require.NoError(t, err)
	_, err = db.Exec(insert, "2", "X")
	assert.Error(t, err)
}

func TestExtractVersion(t *testing.T) {
	assert.Equal(t, 1, extractVersion("000001_create_task.up.sql"))
	assert.Equal(t, 42, extractVersion("000042_x.up.sql"))
	assert.Equal(t, 0, extractVersion("readme.sql"))
}
