package database

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAndMigrateMemory(t *testing.T) {
	ctx := context.Background()
	db, err := OpenAndMigrate(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM guard_decisions`).Scan(&n))
	assert.Equal(t, 0, n)

	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestOpenAndMigrateFileIsIdempotent(t *testing.T) {
	ctx := context.Background()
	p := filepath.Join(t.TempDir(), "nested", "audit.db")

	db, err := OpenAndMigrate(ctx, p)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = OpenAndMigrate(ctx, p)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestOpenAndMigrateRequiresPath(t *testing.T) {
	_, err := OpenAndMigrate(context.Background(), "")
	require.Error(t, err)
}

func TestMigrateOrdersFiles(t *testing.T) {
	ctx := context.Background()
	db, err := OpenAndMigrate(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	fsys := fstest.MapFS{
		"m/0002_b.sql": {Data: []byte(`INSERT INTO t(v) VALUES ('second');`)},
		"m/0001_a.sql": {Data: []byte("-- first\nCREATE TABLE t (v TEXT);")},
	}
	require.NoError(t, migrate(ctx, db, fsys, "m"))

	var v string
	require.NoError(t, db.QueryRowContext(ctx, `SELECT v FROM t`).Scan(&v))
	assert.Equal(t, "second", v)
}

func TestSplitStatements(t *testing.T) {
	script := "-- header\nCREATE TABLE a (x TEXT DEFAULT '--not a comment');\n\nINSERT INTO a VALUES ('it''s'); -- trailing\n"
	assert.Equal(t, []string{
		"CREATE TABLE a (x TEXT DEFAULT '--not a comment')",
		"INSERT INTO a VALUES ('it''s')",
	}, splitStatements(script))
}
