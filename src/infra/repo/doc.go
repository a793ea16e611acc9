// Package repo contains the generic SQL repository built on record descriptors.
//
// A Repository[T] turns a record.Descriptor[T] into parameterized
// INSERT/UPDATE/DELETE/SELECT statements, binds field values positionally,
// and rebuilds records from result rows by exact column name.
//
// Connections are never opened here. Each call acquires one connection from
// an injected ports.Provider and releases it, together with the prepared
// statement and any result set, on every exit path.
//
// Example:
//
//	users := repo.NewRepository(domain.UserRecord, provider, log, repo.WithDialect(repo.Dollar))
//
//	if err := users.Insert(ctx, &domain.User{ID: id, Name: "Ann"}); err != nil {
//	    return err
//	}
//	u, found, err := users.SelectByID(ctx, record.Text(id))
package repo
