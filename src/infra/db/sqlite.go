package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"recordkeeper/src/core/ports"
	"recordkeeper/src/infra/config"
)

// SQLite serves a database/sql handle on the pure-Go sqlite driver as a
// ports.Provider.
type SQLite struct {
	DB  *sql.DB
	log *slog.Logger
}

var _ ports.Provider = (*SQLite)(nil)

// OpenSQLite opens (creating if needed) the database file at cfg.Path.
func OpenSQLite(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (*SQLite, error) {
	handle, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	handle.SetMaxOpenConns(cfg.MaxOpenConns)
	handle.SetMaxIdleConns(cfg.MaxIdleConns)
	handle.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := handle.PingContext(ctx); err != nil {
		handle.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if log != nil {
		log.Info("database connection established",
			"driver", config.DriverSQLite,
			"path", cfg.Path,
		)
	}

	return &SQLite{DB: handle, log: log}, nil
}

// Close closes the database handle.
func (s *SQLite) Close() error {
	if s.DB == nil {
		return nil
	}
	err := s.DB.Close()
	if s.log != nil {
		s.log.Info("database connection closed")
	}
	return err
}

// Health checks if the database is reachable.
func (s *SQLite) Health(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// EnsureSchema runs idempotent DDL statements.
func (s *SQLite) EnsureSchema(ctx context.Context, statements ...string) error {
	for _, stmt := range statements {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// Acquire reserves one connection from the database/sql pool.
func (s *SQLite) Acquire(ctx context.Context) (ports.Conn, error) {
	c, err := s.DB.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return &sqlConn{c: c}, nil
}

// IsUniqueViolation reports whether err is a UNIQUE or PRIMARY KEY
// constraint failure.
func (s *SQLite) IsUniqueViolation(err error) bool {
	var sqErr *sqlite.Error
	if !errors.As(err, &sqErr) {
		return false
	}
	switch sqErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		// Extended result codes may be disabled on the connection.
		return strings.Contains(sqErr.Error(), "UNIQUE constraint failed")
	}
	return false
}

type sqlConn struct {
	c *sql.Conn
}

func (c *sqlConn) Prepare(ctx context.Context, query string) (ports.Stmt, error) {
	st, err := c.c.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return &sqlStmt{st: st}, nil
}

func (c *sqlConn) Release() error {
	return c.c.Close()
}

type sqlStmt struct {
	st *sql.Stmt
}

func (s *sqlStmt) Exec(ctx context.Context, args ...any) (int64, error) {
	res, err := s.st.ExecContext(ctx, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *sqlStmt) Query(ctx context.Context, args ...any) (ports.Rows, error) {
	rows, err := s.st.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.Join(err, rows.Close())
	}
	return &sqlRows{rows: rows, cols: cols}, nil
}

func (s *sqlStmt) Close() error {
	return s.st.Close()
}

type sqlRows struct {
	rows *sql.Rows
	cols []string
}

func (r *sqlRows) Columns() []string { return r.cols }
func (r *sqlRows) Next() bool        { return r.rows.Next() }
func (r *sqlRows) Err() error        { return r.rows.Err() }
func (r *sqlRows) Close() error      { return r.rows.Close() }

func (r *sqlRows) Values() ([]any, error) {
	values := make([]any, len(r.cols))
	dest := make([]any, len(r.cols))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := r.rows.Scan(dest...); err != nil {
		return nil, err
	}
	return values, nil
}
