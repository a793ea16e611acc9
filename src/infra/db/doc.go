// Package db provides database connection providers.
//
// This package is responsible for:
//   - PostgreSQL connection pool initialization (pgx)
//   - SQLite database initialization (database/sql + modernc.org/sqlite)
//   - Adapting both to ports.Provider, one connection per repository call
//   - Connection health checks
//   - Recognizing unique-constraint violations per driver
//
// Example usage:
//
//	pg, err := db.New(ctx, cfg.Database, log)
//	if err != nil {
//	    return err
//	}
//	defer pg.Close()
//
//	users := repo.NewRepository(domain.UserRecord, pg, log, repo.WithDialect(repo.Dollar))
package db
