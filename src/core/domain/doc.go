// Package domain contains the core domain model for the application.
//
// This package defines:
//   - Entities: User, the record served by the directory API
//   - Record descriptors: the static table mapping for each entity
//   - Domain Errors: Business rule violation errors
//
// Rules for this package:
//   - No infrastructure concerns (database, HTTP, etc.)
//   - Entities should validate their own invariants
package domain
