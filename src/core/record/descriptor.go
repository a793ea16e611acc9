package record

import (
	"fmt"
	"strings"
)

// Descriptor is the static table mapping for a record type.
// It is immutable once constructed and safe for concurrent use.
type Descriptor[T any] struct {
	table  string
	fields []Field[T]
	key    int
	index  map[string]int
	blank  func() *T
}

// NewDescriptor validates and builds a descriptor.
//
// The field list must contain exactly one identifier, at least one other
// field, and no duplicate or empty names. A nil factory defaults to new(T).
func NewDescriptor[T any](table string, blank func() *T, fields ...Field[T]) (*Descriptor[T], error) {
	if strings.TrimSpace(table) == "" {
		return nil, descriptorErr(table, "table name is empty")
	}
	if blank == nil {
		blank = func() *T { return new(T) }
	}

	d := &Descriptor[T]{
		table:  table,
		fields: make([]Field[T], len(fields)),
		key:    -1,
		index:  make(map[string]int, len(fields)),
		blank:  blank,
	}
	copy(d.fields, fields)

	for i, f := range d.fields {
		if strings.TrimSpace(f.Name) == "" {
			return nil, descriptorErr(table, fmt.Sprintf("field %d has no name", i))
		}
		if f.Get == nil || f.Set == nil {
			return nil, descriptorErr(table, fmt.Sprintf("field %s needs both accessor and mutator", f.Name))
		}
		if _, dup := d.index[f.Name]; dup {
			return nil, descriptorErr(table, fmt.Sprintf("field %s declared twice", f.Name))
		}
		d.index[f.Name] = i
		if f.Identifier {
			if d.key >= 0 {
				return nil, descriptorErr(table, fmt.Sprintf("fields %s and %s are both identifiers", d.fields[d.key].Name, f.Name))
			}
			d.key = i
		}
	}

	if d.key < 0 {
		return nil, descriptorErr(table, "no identifier field")
	}
	if len(d.fields) < 2 {
		return nil, descriptorErr(table, "no fields besides the identifier")
	}
	return d, nil
}

// MustDescriptor is like NewDescriptor but panics on error.
// Use it for package-level descriptor variables.
func MustDescriptor[T any](table string, blank func() *T, fields ...Field[T]) *Descriptor[T] {
	d, err := NewDescriptor(table, blank, fields...)
	if err != nil {
		panic(err)
	}
	return d
}

// Table returns the table name.
func (d *Descriptor[T]) Table() string { return d.table }

// Fields returns the fields in declaration order.
func (d *Descriptor[T]) Fields() []Field[T] {
	out := make([]Field[T], len(d.fields))
	copy(out, d.fields)
	return out
}

// Identifier returns the identifier field.
func (d *Descriptor[T]) Identifier() Field[T] { return d.fields[d.key] }

// Lookup finds a field by exact column name.
func (d *Descriptor[T]) Lookup(name string) (Field[T], bool) {
	i, ok := d.index[name]
	if !ok {
		return Field[T]{}, false
	}
	return d.fields[i], true
}

// Position returns the declaration index of the named field.
func (d *Descriptor[T]) Position(name string) (int, bool) {
	i, ok := d.index[name]
	return i, ok
}

// New returns a blank instance.
func (d *Descriptor[T]) New() *T { return d.blank() }

// IdentifierValue reads the identifier of r. A NULL identifier is an error.
func (d *Descriptor[T]) IdentifierValue(r *T) (Value, error) {
	id := d.fields[d.key].Get(r)
	if id.IsNull() {
		return Value{}, ErrMissingIdentifier
	}
	return id, nil
}

func descriptorErr(table, msg string) error {
	return fmt.Errorf("%w: table %q: %s", ErrInvalidDescriptor, table, msg)
}
