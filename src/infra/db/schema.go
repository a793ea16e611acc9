package db

import "recordkeeper/src/infra/config"

// UsersSchema returns the DDL for the users table on the given driver.
// It only creates the table when missing; it does not migrate.
func UsersSchema(driver string) []string {
	if driver == config.DriverPostgres {
		return []string{`CREATE TABLE IF NOT EXISTS users (
			id    TEXT PRIMARY KEY,
			name  TEXT,
			email TEXT UNIQUE,
			age   BIGINT
		)`}
	}
	return []string{`CREATE TABLE IF NOT EXISTS users (
		id    TEXT PRIMARY KEY,
		name  TEXT,
		email TEXT UNIQUE,
		age   INTEGER
	)`}
}
