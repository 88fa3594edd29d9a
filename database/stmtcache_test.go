package database

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStmtCache(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	sc := NewStmtCache(db)

	s1, err := sc.Prepare(ctx, "SELECT 1;")
	require.NoError(t, err)
	s2, err := sc.Prepare(ctx, "SELECT 1;")
	require.NoError(t, err)
	assert.Same(t, s1, s2)
	assert.Equal(t, 1, sc.Len())

	_, err = sc.Prepare(ctx, "SELECT * FROM missing_table;")
	assert.Error(t, err)
	assert.Equal(t, 1, sc.Len())

	assert.NoError(t, sc.Clear())
	assert.Equal(t, 0, sc.Len())
}
