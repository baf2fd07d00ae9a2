package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSQLiteDB_CreatesDirectoryAndMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "insights.db")

	database, err := NewSQLiteDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, RunMigrations(database))
	// Second run is a no-op.
	require.NoError(t, RunMigrations(database))

	var columns []string
	require.NoError(t, database.Select(&columns, `SELECT name FROM pragma_table_info('insights') ORDER BY cid`))
	assert.Equal(t, []string{"id", "filename", "upload_time", "insights", "filename_search", "insights_search"}, columns)
}
