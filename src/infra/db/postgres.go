package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"recordkeeper/src/core/ports"
	"recordkeeper/src/infra/config"
)

// Postgres wraps a pgx connection pool and serves it as a ports.Provider.
type Postgres struct {
	Pool *pgxpool.Pool
	log  *slog.Logger
}

var _ ports.Provider = (*Postgres)(nil)

// New creates a new PostgreSQL connection pool.
// It validates the connection by pinging the database.
func New(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (*Postgres, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.MaxIdleConns)
	poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("database connection established",
		"driver", config.DriverPostgres,
		"host", cfg.Host,
		"port", cfg.Port,
		"database", cfg.Name,
	)

	return &Postgres{
		Pool: pool,
		log:  log,
	}, nil
}

// Close closes the connection pool.
// Call this during graceful shutdown.
func (p *Postgres) Close() {
	if p.Pool != nil {
		p.Pool.Close()
		p.log.Info("database connection closed")
	}
}

// Health checks if the database is reachable.
func (p *Postgres) Health(ctx context.Context) error {
	return p.Pool.Ping(ctx)
}

// EnsureSchema runs idempotent DDL statements.
func (p *Postgres) EnsureSchema(ctx context.Context, statements ...string) error {
	for _, s := range statements {
		if _, err := p.Pool.Exec(ctx, s); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// Acquire checks one connection out of the pool.
func (p *Postgres) Acquire(ctx context.Context) (ports.Conn, error) {
	c, err := p.Pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return &pgConn{c: c}, nil
}

// IsUniqueViolation reports whether err carries SQLSTATE 23505.
func (p *Postgres) IsUniqueViolation(err error) bool {
	return isPgUniqueViolation(err)
}

func isPgUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

type pgConn struct {
	c *pgxpool.Conn
}

// Prepare names the statement after its SQL text so that Exec and Query,
// which look prepared statements up by that text, reuse it.
func (c *pgConn) Prepare(ctx context.Context, query string) (ports.Stmt, error) {
	conn := c.c.Conn()
	if _, err := conn.Prepare(ctx, query, query); err != nil {
		return nil, err
	}
	return &pgStmt{conn: conn, name: query}, nil
}

func (c *pgConn) Release() error {
	c.c.Release()
	return nil
}

type pgStmt struct {
	conn *pgx.Conn
	name string
}

func (s *pgStmt) Exec(ctx context.Context, args ...any) (int64, error) {
	tag, err := s.conn.Exec(ctx, s.name, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *pgStmt) Query(ctx context.Context, args ...any) (ports.Rows, error) {
	rows, err := s.conn.Query(ctx, s.name, args...)
	if err != nil {
		return nil, err
	}
	return &pgRows{rows: rows}, nil
}

func (s *pgStmt) Close() error {
	return s.conn.Deallocate(context.Background(), s.name)
}

type pgRows struct {
	rows pgx.Rows
}

func (r *pgRows) Columns() []string {
	fds := r.rows.FieldDescriptions()
	cols := make([]string, len(fds))
	for i, fd := range fds {
		cols[i] = fd.Name
	}
	return cols
}

func (r *pgRows) Next() bool             { return r.rows.Next() }
func (r *pgRows) Values() ([]any, error) { return r.rows.Values() }
func (r *pgRows) Err() error             { return r.rows.Err() }

// pgx reports iteration failures through Err, which the caller checks.
func (r *pgRows) Close() error {
	r.rows.Close()
	return nil
}
