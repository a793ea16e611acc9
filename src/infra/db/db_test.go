package db

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recordkeeper/src/infra/config"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	cfg := config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		Path:         filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns: 4,
		MaxIdleConns: 1,
	}
	s, err := OpenSQLite(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.EnsureSchema(context.Background(), UsersSchema(config.DriverSQLite)...))
	return s
}

func TestSQLiteProviderRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)
	require.NoError(t, s.Health(ctx))

	conn, err := s.Acquire(ctx)
	require.NoError(t, err)
	defer func() { assert.NoError(t, conn.Release()) }()

	ins, err := conn.Prepare(ctx, "INSERT INTO users (id, name, age) VALUES (?, ?, ?)")
	require.NoError(t, err)
	n, err := ins.Exec(ctx, "u1", "Ann", int64(41))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	require.NoError(t, ins.Close())

	sel, err := conn.Prepare(ctx, "SELECT * FROM users WHERE id = ?")
	require.NoError(t, err)
	defer sel.Close()

	rows, err := sel.Query(ctx, "u1")
	require.NoError(t, err)
	defer rows.Close()

	assert.Equal(t, []string{"id", "name", "email", "age"}, rows.Columns())
	require.True(t, rows.Next())
	values, err := rows.Values()
	require.NoError(t, err)
	assert.Equal(t, []any{"u1", "Ann", nil, int64(41)}, values)
	assert.False(t, rows.Next())
	assert.NoError(t, rows.Err())
}

func TestSQLiteRejectsBadSQL(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	conn, err := s.Acquire(ctx)
	require.NoError(t, err)
	defer conn.Release()

	stmt, err := conn.Prepare(ctx, "SELECT * FROM no_such_table")
	if err != nil {
		return
	}
	defer stmt.Close()

	rows, err := stmt.Query(ctx)
	if err == nil {
		rows.Close()
	}
	assert.Error(t, err)
}

func TestSQLiteIsUniqueViolation(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	_, err := s.DB.ExecContext(ctx, "INSERT INTO users (id, email) VALUES ('a', 'x@y.z')")
	require.NoError(t, err)

	_, err = s.DB.ExecContext(ctx, "INSERT INTO users (id, email) VALUES ('b', 'x@y.z')")
	require.Error(t, err)
	assert.True(t, s.IsUniqueViolation(err))
	assert.True(t, s.IsUniqueViolation(fmt.Errorf("wrapped: %w", err)))

	assert.False(t, s.IsUniqueViolation(fmt.Errorf("other")))
}

func TestPostgresIsUniqueViolation(t *testing.T) {
	var p Postgres
	assert.True(t, p.IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, p.IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, p.IsUniqueViolation(fmt.Errorf("boom")))
}

func TestUsersSchemaPerDriver(t *testing.T) {
	assert.Contains(t, UsersSchema(config.DriverPostgres)[0], "BIGINT")
	assert.Contains(t, UsersSchema(config.DriverSQLite)[0], "INTEGER")
}
