//go:generate go run github.com/abice/go-enum@v0.5.6 --marshal

package paging

import (
	"fmt"
	"strings"
)

// ENUM(eq, lt, gt)
type Operator int

// Predicate is an immutable boolean condition over rows. Storage layers render
// it into their own query language; Matches evaluates it in memory.
type Predicate interface {
	Matches(row Row) bool
}

// Comparison holds when the row's Field compares to Value as Op says. A row
// without the field never matches.
type Comparison struct {
	Field string
	Op    Operator
	Value Value
}

func (c Comparison) Matches(row Row) bool {
	value, ok := row.Field(c.Field)
	if !ok || value.Type() != c.Value.Type() {
		return false
	}
	cmp := value.Compare(c.Value)
	switch c.Op {
	case OperatorEq:
		return cmp == 0
	case OperatorLt:
		return cmp < 0
	case OperatorGt:
		return cmp > 0
	default:
		return false
	}
}

func (c Comparison) String() string {
	return fmt.Sprintf("%s %s %s", c.Field, c.Op, c.Value)
}

// Conjunction holds when every member holds; the empty conjunction always holds.
type Conjunction []Predicate

func (ps Conjunction) Matches(row Row) bool {
	for _, p := range ps {
		if !p.Matches(row) {
			return false
		}
	}
	return true
}

func (ps Conjunction) String() string {
	return join(ps, " AND ", "TRUE")
}

// Disjunction holds when any member holds; the empty disjunction never holds.
type Disjunction []Predicate

func (ps Disjunction) Matches(row Row) bool {
	for _, p := range ps {
		if p.Matches(row) {
			return true
		}
	}
	return false
}

func (ps Disjunction) String() string {
	return join(ps, " OR ", "FALSE")
}

func join[P ~[]Predicate](ps P, sep string, empty string) string {
	if len(ps) == 0 {
		return empty
	}
	parts := make([]string, 0, len(ps))
	for _, p := range ps {
		parts = append(parts, fmt.Sprint(p))
	}
	return "(" + strings.Join(parts, sep) + ")"
}

func Eq(field string, value Value) Predicate {
	return Comparison{Field: field, Op: OperatorEq, Value: value}
}

func Lt(field string, value Value) Predicate {
	return Comparison{Field: field, Op: OperatorLt, Value: value}
}

func Gt(field string, value Value) Predicate {
	return Comparison{Field: field, Op: OperatorGt, Value: value}
}

// And conjoins its non-nil arguments.
func And(ps ...Predicate) Predicate {
	return Conjunction(compact(ps))
}

// Or disjoins its non-nil arguments.
func Or(ps ...Predicate) Predicate {
	return Disjunction(compact(ps))
}

func compact(ps []Predicate) []Predicate {
	out := make([]Predicate, 0, len(ps))
	for _, p := range ps {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// After builds the keyset predicate selecting rows that sort strictly after
// last under sort:
//
//	(k1 op1 v1) OR (k1 = v1 AND k2 op2 v2) OR (k1 = v1 AND k2 = v2 AND k3 op3 v3) ...
//
// where op is > for ascending keys and < for descending ones.
func After(last RowSnapshot, sort SortSpec) (Predicate, error) {
	if len(sort) < 2 {
		return nil, ErrInsufficientSortKeys
	}
	values := make([]Value, len(sort))
	for i, key := range sort {
		value, ok := last[key.Field]
		if !ok {
			return nil, fmt.Errorf("%w: missing value for %s", ErrInvalidCursor, key.Field)
		}
		if value.Type() != key.Type {
			return nil, fmt.Errorf("%w: %s: expected %s value, got %s", ErrInvalidCursor, key.Field, key.Type, value.Type())
		}
		values[i] = value
	}

	branches := make([]Predicate, 0, len(sort))
	for i, key := range sort {
		terms := make([]Predicate, 0, i+1)
		for j := 0; j < i; j++ {
			terms = append(terms, Eq(sort[j].Field, values[j]))
		}
		terms = append(terms, beyond(key, values[i]))
		if len(terms) == 1 {
			branches = append(branches, terms[0])
		} else {
			branches = append(branches, And(terms...))
		}
	}
	return Or(branches...), nil
}

func beyond(key SortKey, value Value) Predicate {
	if key.Direction == DirectionDesc {
		return Lt(key.Field, value)
	}
	return Gt(key.Field, value)
}
