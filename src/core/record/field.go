package record

import (
	"fmt"
	"time"
)

// Field maps one column to one attribute of T.
//
// Get reads the attribute as a Value; NULL means "unset" and keeps the column
// out of INSERT statements. Set writes a column value back into the attribute.
type Field[T any] struct {
	Name       string
	Identifier bool
	Get        func(*T) Value
	Set        func(*T, Value) error
}

// Key marks f as the identifier field.
func Key[T any](f Field[T]) Field[T] {
	f.Identifier = true
	return f
}

// Custom builds a field from explicit accessor and mutator functions.
func Custom[T any](name string, get func(*T) Value, set func(*T, Value) error) Field[T] {
	return Field[T]{Name: name, Get: get, Set: set}
}

// The typed helpers below map the Go zero value to NULL and NULL back to the
// zero value.

// Int64 maps an int64 attribute.
func Int64[T any](name string, ptr func(*T) *int64) Field[T] {
	return Field[T]{
		Name: name,
		Get: func(r *T) Value {
			if v := *ptr(r); v != 0 {
				return Int(v)
			}
			return Null()
		},
		Set: func(r *T, v Value) error {
			if v.IsNull() {
				*ptr(r) = 0
				return nil
			}
			n, err := v.AsInt64()
			if err != nil {
				return fieldErr(name, err)
			}
			*ptr(r) = n
			return nil
		},
	}
}

// Float64 maps a float64 attribute.
func Float64[T any](name string, ptr func(*T) *float64) Field[T] {
	return Field[T]{
		Name: name,
		Get: func(r *T) Value {
			if v := *ptr(r); v != 0 {
				return Float(v)
			}
			return Null()
		},
		Set: func(r *T, v Value) error {
			if v.IsNull() {
				*ptr(r) = 0
				return nil
			}
			f, err := v.AsFloat64()
			if err != nil {
				return fieldErr(name, err)
			}
			*ptr(r) = f
			return nil
		},
	}
}

// String maps a string attribute.
func String[T any](name string, ptr func(*T) *string) Field[T] {
	return Field[T]{
		Name: name,
		Get: func(r *T) Value {
			if v := *ptr(r); v != "" {
				return Text(v)
			}
			return Null()
		},
		Set: func(r *T, v Value) error {
			if v.IsNull() {
				*ptr(r) = ""
				return nil
			}
			s, err := v.AsText()
			if err != nil {
				return fieldErr(name, err)
			}
			*ptr(r) = s
			return nil
		},
	}
}

// Boolean maps a bool attribute. false is stored as NULL.
func Boolean[T any](name string, ptr func(*T) *bool) Field[T] {
	return Field[T]{
		Name: name,
		Get: func(r *T) Value {
			if *ptr(r) {
				return Bool(true)
			}
			return Null()
		},
		Set: func(r *T, v Value) error {
			if v.IsNull() {
				*ptr(r) = false
				return nil
			}
			b, err := v.AsBool()
			if err != nil {
				return fieldErr(name, err)
			}
			*ptr(r) = b
			return nil
		},
	}
}

// Blob maps a []byte attribute.
func Blob[T any](name string, ptr func(*T) *[]byte) Field[T] {
	return Field[T]{
		Name: name,
		Get: func(r *T) Value {
			if v := *ptr(r); len(v) > 0 {
				return Bytes(v)
			}
			return Null()
		},
		Set: func(r *T, v Value) error {
			if v.IsNull() {
				*ptr(r) = nil
				return nil
			}
			b, err := v.AsBytes()
			if err != nil {
				return fieldErr(name, err)
			}
			*ptr(r) = b
			return nil
		},
	}
}

// Timestamp maps a time.Time attribute.
func Timestamp[T any](name string, ptr func(*T) *time.Time) Field[T] {
	return Field[T]{
		Name: name,
		Get: func(r *T) Value {
			if v := *ptr(r); !v.IsZero() {
				return Time(v)
			}
			return Null()
		},
		Set: func(r *T, v Value) error {
			if v.IsNull() {
				*ptr(r) = time.Time{}
				return nil
			}
			t, err := v.AsTime()
			if err != nil {
				return fieldErr(name, err)
			}
			*ptr(r) = t
			return nil
		},
	}
}

func fieldErr(name string, err error) error {
	return fmt.Errorf("field %s: %w", name, err)
}
