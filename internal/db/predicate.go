package db

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/taiwon1/sprint3/internal/paging"
)

var sqlOperators = map[paging.Operator]string{
	paging.OperatorEq: "=",
	paging.OperatorLt: "<",
	paging.OperatorGt: ">",
}

// sqlBuilder renders paging predicates and orderings against one table.
// Field names resolve to columns through columns; values are bound as named
// arguments p0, p1, ... in the order they are encountered.
type sqlBuilder struct {
	columns map[string]string
	args    pgx.NamedArgs
}

func newSQLBuilder(columns map[string]string) *sqlBuilder {
	return &sqlBuilder{columns: columns, args: pgx.NamedArgs{}}
}

func (b *sqlBuilder) column(field string) (string, error) {
	column, ok := b.columns[field]
	if !ok {
		return "", fmt.Errorf("unknown field %q", field)
	}
	return pgx.Identifier{column}.Sanitize(), nil
}

func (b *sqlBuilder) bind(value any) string {
	name := fmt.Sprintf("p%d", len(b.args))
	b.args[name] = value
	return "@" + name
}

// Where renders predicate as a boolean SQL expression.
func (b *sqlBuilder) Where(predicate paging.Predicate) (string, error) {
	switch p := predicate.(type) {
	case nil:
		return "TRUE", nil
	case paging.Comparison:
		column, err := b.column(p.Field)
		if err != nil {
			return "", err
		}
		op, ok := sqlOperators[p.Op]
		if !ok {
			return "", fmt.Errorf("unsupported operator %s", p.Op)
		}
		return fmt.Sprintf("%s %s %s", column, op, b.bind(p.Value.Any())), nil
	case paging.Conjunction:
		return b.join(p, " AND ", "TRUE")
	case paging.Disjunction:
		return b.join(p, " OR ", "FALSE")
	default:
		return "", fmt.Errorf("unsupported predicate %T", predicate)
	}
}

func (b *sqlBuilder) join(predicates []paging.Predicate, sep string, empty string) (string, error) {
	if len(predicates) == 0 {
		return empty, nil
	}
	parts := make([]string, 0, len(predicates))
	for _, p := range predicates {
		part, err := b.Where(p)
		if err != nil {
			return "", err
		}
		parts = append(parts, part)
	}
	return "(" + strings.Join(parts, sep) + ")", nil
}

// OrderBy renders sort as an ORDER BY list.
func (b *sqlBuilder) OrderBy(sort paging.SortSpec) (string, error) {
	parts := make([]string, 0, len(sort))
	for _, key := range sort {
		column, err := b.column(key.Field)
		if err != nil {
			return "", err
		}
		parts = append(parts, column+" "+strings.ToUpper(key.Direction.String()))
	}
	return strings.Join(parts, ", "), nil
}
