package record

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"time"
)

// Kind identifies which member of the Value union is populated.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindText
	KindBool
	KindBytes
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	case KindBytes:
		return "bytes"
	case KindTime:
		return "time"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a single SQL value. The zero Value is NULL.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	b    bool
	raw  []byte
	t    time.Time
}

// Null returns the SQL NULL value.
func Null() Value { return Value{} }

// Int returns an integer value.
func Int(v int64) Value { return Value{kind: KindInt, i: v} }

// Float returns a floating point value.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// Text returns a string value.
func Text(v string) Value { return Value{kind: KindText, s: v} }

// Bool returns a boolean value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Bytes returns a binary value. A nil slice yields NULL.
func Bytes(v []byte) Value {
	if v == nil {
		return Null()
	}
	return Value{kind: KindBytes, raw: v}
}

// Time returns a timestamp value.
func Time(v time.Time) Value { return Value{kind: KindTime, t: v} }

// Kind reports the populated member.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is SQL NULL.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Any returns v as a driver argument.
func (v Value) Any() any {
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindText:
		return v.s
	case KindBool:
		return v.b
	case KindBytes:
		return v.raw
	case KindTime:
		return v.t
	default:
		return nil
	}
}

// AsInt64 returns the integer held by v. Integral floats and booleans convert.
func (v Value) AsInt64() (int64, error) {
	switch v.kind {
	case KindInt:
		return v.i, nil
	case KindFloat:
		// NaN fails the first test; ±Inf and out-of-range values the second.
		if v.f != math.Trunc(v.f) || v.f < -(1<<63) || v.f >= 1<<63 {
			return 0, v.mismatch(KindInt)
		}
		return int64(v.f), nil
	case KindBool:
		if v.b {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, v.mismatch(KindInt)
	}
}

// AsFloat64 returns the number held by v.
func (v Value) AsFloat64() (float64, error) {
	switch v.kind {
	case KindFloat:
		return v.f, nil
	case KindInt:
		return float64(v.i), nil
	default:
		return 0, v.mismatch(KindFloat)
	}
}

// AsText returns the text held by v. Binary values are read as UTF-8.
func (v Value) AsText() (string, error) {
	switch v.kind {
	case KindText:
		return v.s, nil
	case KindBytes:
		return string(v.raw), nil
	default:
		return "", v.mismatch(KindText)
	}
}

// AsBool returns the boolean held by v. SQLite stores booleans as 0/1.
func (v Value) AsBool() (bool, error) {
	switch v.kind {
	case KindBool:
		return v.b, nil
	case KindInt:
		return v.i != 0, nil
	default:
		return false, v.mismatch(KindBool)
	}
}

// AsBytes returns the bytes held by v.
func (v Value) AsBytes() ([]byte, error) {
	switch v.kind {
	case KindBytes:
		return v.raw, nil
	case KindText:
		return []byte(v.s), nil
	default:
		return nil, v.mismatch(KindBytes)
	}
}

// AsTime returns the time held by v. Text is parsed with timeLayouts.
func (v Value) AsTime() (time.Time, error) {
	switch v.kind {
	case KindTime:
		return v.t, nil
	case KindText:
		return parseTime(v.s)
	default:
		return time.Time{}, v.mismatch(KindTime)
	}
}

// timeLayouts are the text forms drivers store timestamps in. time.Time.String
// output is what database/sql drivers write when a time lands in a TEXT column.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	// Drop the monotonic clock reading time.Time.String appends.
	if i := strings.Index(s, " m="); i >= 0 {
		s = s[:i]
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse time %q: unrecognized layout", s)
}

// Equal reports whether two values have the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindText:
		return v.s == o.s
	case KindBool:
		return v.b == o.b
	case KindBytes:
		return bytes.Equal(v.raw, o.raw)
	case KindTime:
		return v.t.Equal(o.t)
	}
	return false
}

func (v Value) mismatch(want Kind) error {
	return fmt.Errorf("cannot read %s value as %s", v.kind, want)
}

// FromDriver converts a value returned by a database driver into a Value.
func FromDriver(src any) (Value, error) {
	switch x := src.(type) {
	case nil:
		return Null(), nil
	case int64:
		return Int(x), nil
	case int:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint8:
		return Int(int64(x)), nil
	case uint64:
		if x > math.MaxInt64 {
			return Value{}, fmt.Errorf("unsigned value %d overflows int64", x)
		}
		return Int(int64(x)), nil
	case float64:
		return Float(x), nil
	case float32:
		return Float(float64(x)), nil
	case string:
		return Text(x), nil
	case []byte:
		cp := make([]byte, len(x))
		copy(cp, x)
		return Bytes(cp), nil
	case bool:
		return Bool(x), nil
	case time.Time:
		return Time(x), nil
	default:
		return Value{}, fmt.Errorf("unsupported driver type %T", src)
	}
}
