package paging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Value is a typed sort-key value. The zero Value is the zero timestamp.
type Value struct {
	fieldType FieldType
	t         time.Time
	i         int64
	s         string
}

func Time(t time.Time) Value {
	return Value{fieldType: FieldTypeTimestamp, t: t}
}

func Int(i int64) Value {
	return Value{fieldType: FieldTypeInteger, i: i}
}

func String(s string) Value {
	return Value{fieldType: FieldTypeString, s: s}
}

func (v Value) Type() FieldType {
	return v.fieldType
}

func (v Value) Time() time.Time {
	return v.t
}

func (v Value) Int() int64 {
	return v.i
}

func (v Value) String() string {
	switch v.fieldType {
	case FieldTypeTimestamp:
		return v.t.UTC().Format(time.RFC3339Nano)
	case FieldTypeInteger:
		return strconv.FormatInt(v.i, 10)
	default:
		return v.s
	}
}

// Any returns the native Go value, suitable as a query argument.
func (v Value) Any() any {
	switch v.fieldType {
	case FieldTypeTimestamp:
		return v.t
	case FieldTypeInteger:
		return v.i
	default:
		return v.s
	}
}

// Compare returns -1, 0 or +1. Values of different types order by type tag.
func (v Value) Compare(other Value) int {
	if v.fieldType != other.fieldType {
		return compareOrdered(v.fieldType, other.fieldType)
	}
	switch v.fieldType {
	case FieldTypeTimestamp:
		return v.t.Compare(other.t)
	case FieldTypeInteger:
		return compareOrdered(v.i, other.i)
	default:
		return strings.Compare(v.s, other.s)
	}
}

// Equal compares by instant for timestamps and by numeric value for integers.
func (v Value) Equal(other Value) bool {
	return v.fieldType == other.fieldType && v.Compare(other) == 0
}

// MarshalJSON writes timestamps as RFC 3339 strings and integers as decimal
// strings so 64-bit identifiers survive JSON number handling in clients.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.fieldType.IsValid() {
		return nil, fmt.Errorf("cannot marshal value of unknown type %s", v.fieldType)
	}
	return json.Marshal(v.String())
}

func parseValue(fieldType FieldType, raw json.RawMessage) (value Value, err error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		err = fmt.Errorf("missing %s value", fieldType)
		return
	}
	switch fieldType {
	case FieldTypeTimestamp:
		var text string
		if err = json.Unmarshal(raw, &text); err != nil {
			err = fmt.Errorf("timestamp must be a string: %w", err)
			return
		}
		var t time.Time
		t, err = time.Parse(time.RFC3339Nano, text)
		if err != nil {
			err = fmt.Errorf("malformed timestamp: %w", err)
			return
		}
		value = Time(t)
	case FieldTypeInteger:
		text := string(raw)
		if raw[0] == '"' {
			if err = json.Unmarshal(raw, &text); err != nil {
				return
			}
		}
		var i int64
		i, err = strconv.ParseInt(text, 10, 64)
		if err != nil {
			err = fmt.Errorf("malformed integer: %w", err)
			return
		}
		value = Int(i)
	case FieldTypeString:
		var text string
		if err = json.Unmarshal(raw, &text); err != nil {
			err = fmt.Errorf("value must be a string: %w", err)
			return
		}
		value = String(text)
	default:
		err = fmt.Errorf("unsupported field type %s", fieldType)
	}
	return
}

type ordered interface {
	~int | ~int64 | ~string
}

func compareOrdered[T ordered](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// RowSnapshot holds the sort-key fields of a single row.
type RowSnapshot map[string]Value

// Field makes a snapshot usable wherever a Row is expected.
func (snapshot RowSnapshot) Field(name string) (Value, bool) {
	value, ok := snapshot[name]
	return value, ok
}

// Row is a record whose fields can be addressed by name.
type Row interface {
	Field(name string) (Value, bool)
}
