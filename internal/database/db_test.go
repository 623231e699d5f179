package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "homebase.db"))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, db.Close()) })

	require.NoError(t, Migrate(db, "sqlite"))
	// second run finds nothing to do
	require.NoError(t, Migrate(db, "sqlite"))

	var name string
	err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='kv_entries'").Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "kv_entries", name)

	_, err = db.Exec("INSERT INTO kv_entries (k, v, expires_at) VALUES ('a', x'00', NULL)")
	assert.NoError(t, err)
}

func TestMigrateRejectsUnknownDialect(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "x.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.Error(t, Migrate(db, "postgres"))
}
