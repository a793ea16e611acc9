// Package ports defines interfaces (ports) that connect core domain to infrastructure.
// These interfaces follow the ports and adapters (hexagonal) architecture pattern.
//
// Ports are defined here in the core layer, while implementations (adapters)
// live in src/infra. This ensures the core has no dependency on infrastructure.
package ports

import (
	"context"

	"recordkeeper/src/core/record"
)

// Repository is the base interface for all repositories.
// Concrete repositories should embed this and add entity-specific methods.
type Repository interface {
	// Health checks if the underlying storage is reachable.
	Health(ctx context.Context) error
}

// RecordRepository is the generic CRUD contract over a record descriptor.
// Every call is independent; no state is retained between calls.
type RecordRepository[T any] interface {
	Repository

	// Insert writes the non-NULL fields of r.
	Insert(ctx context.Context, r *T) error

	// Update rewrites every non-identifier field of r, keyed by its identifier.
	Update(ctx context.Context, r *T) error

	// Delete removes the row keyed by r's identifier.
	Delete(ctx context.Context, r *T) error

	// SelectByID returns the first row whose identifier equals id.
	// found is false, with a nil error, when no row matches.
	SelectByID(ctx context.Context, id record.Value) (r T, found bool, err error)

	// SelectAll returns every row of the table.
	SelectAll(ctx context.Context) ([]T, error)

	// SelectByCondition returns the rows matching filter. An empty filter
	// selects every row. No match yields an empty slice, not an error.
	SelectByCondition(ctx context.Context, filter record.Filter) ([]T, error)
}
