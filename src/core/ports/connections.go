package ports

import "context"

// Provider hands out one open connection per call.
// Pooling, credentials and DSNs are the provider's concern.
type Provider interface {
	Acquire(ctx context.Context) (Conn, error)

	// Health checks if the database is reachable.
	Health(ctx context.Context) error
}

// Conn is a connection scoped to a single repository call.
// Release must be called exactly once on every exit path.
type Conn interface {
	Prepare(ctx context.Context, query string) (Stmt, error)
	Release() error
}

// Stmt is a prepared statement bound to the connection that created it.
type Stmt interface {
	// Exec runs the statement and reports the number of affected rows.
	Exec(ctx context.Context, args ...any) (int64, error)
	Query(ctx context.Context, args ...any) (Rows, error)
	Close() error
}

// Rows iterates a result set.
type Rows interface {
	Columns() []string
	Next() bool
	// Values returns the current row, one driver value per column.
	Values() ([]any, error)
	Err() error
	Close() error
}

// ErrorClassifier recognizes driver-specific failures.
type ErrorClassifier interface {
	IsUniqueViolation(err error) bool
}
