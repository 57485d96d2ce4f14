//go:generate go run github.com/abice/go-enum@v0.5.6 --marshal

package paging

import (
	"fmt"
	"strings"
)

// ENUM(asc, desc)
type Direction int

// ENUM(timestamp, integer, string)
type FieldType int

const sortKeySeparator = "_"

// SortKey names one column of an ordering. Type declares how cursor values for
// the field are decoded and compared.
type SortKey struct {
	Field     string
	Direction Direction
	Type      FieldType
}

func Asc(field string, fieldType FieldType) SortKey {
	return SortKey{Field: field, Direction: DirectionAsc, Type: fieldType}
}

func Desc(field string, fieldType FieldType) SortKey {
	return SortKey{Field: field, Direction: DirectionDesc, Type: fieldType}
}

func (key SortKey) String() string {
	return key.Field + sortKeySeparator + key.Direction.String()
}

// SortSpec is an ordering in precedence order: the first key is the primary
// comparison, every following key breaks ties left by the keys before it.
type SortSpec []SortKey

// Canonical renders the ordering as "<field>_<asc|desc>" strings, precedence preserved.
func (spec SortSpec) Canonical() []string {
	keys := make([]string, 0, len(spec))
	for _, key := range spec {
		keys = append(keys, key.String())
	}
	return keys
}

// Compare orders two rows the way a keyset walk over spec visits them. Rows
// missing a field sort as if the field held the zero value of its type.
func (spec SortSpec) Compare(a, b Row) int {
	for _, key := range spec {
		va, _ := a.Field(key.Field)
		vb, _ := b.Field(key.Field)
		c := va.Compare(vb)
		if key.Direction == DirectionDesc {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return 0
}

// Snapshot extracts the fields of row named by spec.
func (spec SortSpec) Snapshot(row Row) (RowSnapshot, error) {
	snapshot := make(RowSnapshot, len(spec))
	for _, key := range spec {
		value, ok := row.Field(key.Field)
		if !ok {
			return nil, fmt.Errorf("row has no field %q", key.Field)
		}
		if value.Type() != key.Type {
			return nil, fmt.Errorf("field %q: expected %s value, got %s", key.Field, key.Type, value.Type())
		}
		snapshot[key.Field] = value
	}
	return snapshot, nil
}

func (spec SortSpec) matches(canonical []string) bool {
	if len(spec) != len(canonical) {
		return false
	}
	for i, key := range spec {
		if key.String() != canonical[i] {
			return false
		}
	}
	return true
}

// ParseSortKey splits a canonical "<field>_<direction>" string. The split
// happens on the last separator so field names may themselves contain '_'.
func ParseSortKey(text string) (field string, direction Direction, err error) {
	i := strings.LastIndex(text, sortKeySeparator)
	if i <= 0 {
		err = fmt.Errorf("malformed sort key %q", text)
		return
	}
	field = text[:i]
	direction, err = ParseDirection(text[i+len(sortKeySeparator):])
	if err != nil {
		err = fmt.Errorf("malformed sort key %q: %w", text, err)
	}
	return
}
