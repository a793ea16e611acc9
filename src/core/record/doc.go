// Package record describes how a Go type maps onto a relational table.
//
// This package defines:
//   - Descriptor: table name, ordered field list and a blank-instance factory
//   - Field: a named accessor/mutator pair, one of which is the identifier
//   - Value: the closed set of values that may be bound to or read from SQL
//   - Filter: a trusted SQL condition fragment plus its bound parameters
//   - The error taxonomy returned by repositories built on descriptors
//
// Descriptors are declared statically by trusted code. Table and field names
// are interpolated into SQL text as-is, so they must never come from user input.
//
// Example:
//
//	var users = record.MustDescriptor("users", func() *User { return &User{} },
//	    record.Key(record.Int64("id", func(u *User) *int64 { return &u.ID })),
//	    record.String("name", func(u *User) *string { return &u.Name }),
//	    record.String("email", func(u *User) *string { return &u.Email }),
//	)
//
// Rules for this package:
//   - No external dependencies except the standard library
//   - No knowledge of connections or drivers
package record
