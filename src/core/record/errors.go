package record

import (
	"errors"
	"fmt"
)

var (
	// ErrConnectionUnavailable is returned when no connection could be acquired.
	ErrConnectionUnavailable = errors.New("connection unavailable")

	// ErrStatementPreparation is returned when the database rejects the SQL text.
	ErrStatementPreparation = errors.New("statement preparation failed")

	// ErrExecution is returned when a prepared statement fails to run.
	ErrExecution = errors.New("execution failed")

	// ErrRowMapping is returned when a result row does not fit the descriptor.
	ErrRowMapping = errors.New("row mapping failed")

	// ErrMissingIdentifier is returned by update and delete when the record's
	// identifier is unset.
	ErrMissingIdentifier = errors.New("missing identifier")

	// ErrNoInsertableFields is returned by insert when every field is NULL.
	ErrNoInsertableFields = errors.New("no insertable fields")

	// ErrNilRecord is returned when a nil record pointer is passed in.
	ErrNilRecord = errors.New("nil record")

	// ErrInvalidDescriptor is returned when a descriptor is malformed.
	ErrInvalidDescriptor = errors.New("invalid record descriptor")
)

// Error describes a failed repository operation.
// errors.Is matches both Kind and the underlying cause.
type Error struct {
	// Op is the repository operation, e.g. "insert" or "select".
	Op string

	// Table is the descriptor's table name.
	Table string

	// Kind is one of the sentinel errors above.
	Kind error

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.Table, e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Table, e.Op, e.Kind)
}

// Unwrap returns Kind and Err for errors.Is/As support.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewError builds an *Error.
func NewError(op, table string, kind, err error) *Error {
	return &Error{Op: op, Table: table, Kind: kind, Err: err}
}

// IsMissingIdentifier checks if an error is a missing identifier error.
func IsMissingIdentifier(err error) bool {
	return errors.Is(err, ErrMissingIdentifier)
}

// IsNoInsertableFields checks if an error is a no insertable fields error.
func IsNoInsertableFields(err error) bool {
	return errors.Is(err, ErrNoInsertableFields)
}

// IsRowMapping checks if an error is a row mapping error.
func IsRowMapping(err error) bool {
	return errors.Is(err, ErrRowMapping)
}
