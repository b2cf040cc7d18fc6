package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cli struct {
	t      *testing.T
	dbPath string
	migDir string
}

func newCLI(t *testing.T) *cli {
	dir := t.TempDir()
	return &cli{
		t:      t,
		dbPath: filepath.Join(dir, "cli.db"),
		migDir: filepath.Join(dir, "migrations"),
	}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{
		"--driver", "sqlite",
		"--sqlite-path", c.dbPath,
		"--migrations-dir", c.migDir,
		"--log-level", "error",
	}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, out)
	return out
}

func (c *cli) count() int {
	c.t.Helper()
	out := c.mustRun("query", "-o", "json", "SELECT COUNT(*) AS n FROM items")
	var rows []map[string]int
	require.NoError(c.t, json.Unmarshal([]byte(out), &rows))
	require.Len(c.t, rows, 1)
	return rows[0]["n"]
}

func TestTxCommit(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("tx",
		"CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT NOT NULL)",
		"INSERT INTO items (name) VALUES ('bolt'), ('nut')",
		"SELECT name FROM items ORDER BY id",
	)
	assert.Contains(t, out, "2 rows affected")
	assert.Contains(t, out, "bolt")
	assert.Contains(t, out, "committed")

	out = c.mustRun("query", "SELECT id, name FROM items WHERE name = ?", "nut")
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "nut")
	assert.Contains(t, out, "(1 rows)")
}

func TestTxRollbackFlag(t *testing.T) {
	c := newCLI(t)
	c.mustRun("tx", "CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT NOT NULL)")

	out := c.mustRun("tx", "--rollback", "INSERT INTO items (name) VALUES ('bolt')")
	assert.Contains(t, out, "rolled back")
	assert.Equal(t, 0, c.count())
}

func TestTxRollsBackOnError(t *testing.T) {
	c := newCLI(t)
	c.mustRun("tx", "CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT NOT NULL)")

	_, err := c.run("tx",
		"INSERT INTO items (name) VALUES ('bolt')",
		"INSERT INTO items (name) VALUES (NULL)",
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOT NULL")
	assert.Equal(t, 0, c.count())
}

func TestTxUnknownIsolation(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("tx", "--isolation", "chaotic", "SELECT 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown isolation level")
}

func TestQueryJSON(t *testing.T) {
	c := newCLI(t)
	out := c.mustRun("query", "-o", "json", "SELECT 1 AS one, 'x' AS letter, NULL AS nothing")

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.EqualValues(t, 1, rows[0]["one"])
	assert.Equal(t, "x", rows[0]["letter"])
	assert.Nil(t, rows[0]["nothing"])
}

func TestQueryError(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("query", "SELECT * FROM missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such table")
}

func TestUnknownOutput(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("query", "-o", "xml", "SELECT 1")
	require.Error(t, err)
}

func TestMigrateCommands(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("migrate", "create", "create_items")
	assert.Contains(t, out, "created")

	require.NoError(t, os.WriteFile(filepath.Join(c.migDir, "001_schema_items.up.sql"),
		[]byte("CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT NOT NULL)"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(c.migDir, "001_schema_items.down.sql"),
		[]byte("DROP TABLE items"), 0o600))

	// Drop the generated template pair so only the files above are loaded.
	generated, err := filepath.Glob(filepath.Join(c.migDir, "*_schema_create_items.*.sql"))
	require.NoError(t, err)
	require.Len(t, generated, 2)
	for _, f := range generated {
		require.NoError(t, os.Remove(f))
	}

	out = c.mustRun("migrate", "up")
	assert.Contains(t, out, "applied 1 migrations")
	assert.Equal(t, 0, c.count())

	out = c.mustRun("migrate", "status")
	assert.Contains(t, out, "001")
	assert.Contains(t, out, "true")

	out = c.mustRun("migrate", "down")
	assert.Contains(t, out, "reverted 1 migration")

	out = c.mustRun("migrate", "down")
	assert.Contains(t, out, "nothing to revert")
}

func TestParseIsolation(t *testing.T) {
	level, err := parseIsolation("Serializable")
	require.NoError(t, err)
	assert.Equal(t, sql.LevelSerializable, level)

	level, err = parseIsolation("default")
	require.NoError(t, err)
	assert.Equal(t, sql.LevelDefault, level)
}

func TestReturnsRows(t *testing.T) {
	assert.True(t, returnsRows("  select 1"))
	assert.True(t, returnsRows("WITH x AS (SELECT 1) SELECT * FROM x"))
	assert.True(t, returnsRows("INSERT INTO items (name) VALUES ('a') RETURNING id"))
	assert.False(t, returnsRows("UPDATE items SET name = 'b'"))
	assert.False(t, returnsRows(""))
}
