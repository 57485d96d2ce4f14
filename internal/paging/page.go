package paging

import (
	"context"
	"fmt"
	"math"
)

type Query struct {
	Filter Predicate
	Sort   SortSpec
	Limit  int
	Offset int
}

// Source runs ordered, filtered, limited reads against some storage.
type Source[T Row] interface {
	Find(ctx context.Context, query Query) ([]T, error)
}

type Page[T any] struct {
	Data       []T     `json:"data"`
	NextCursor *string `json:"nextCursor"`
	HasNext    bool    `json:"hasNext"`
}

// FetchPage returns up to limit rows of src matching filter in sort order,
// resuming after the row encoded in cursor when it is non-empty.
//
// One extra row is requested to learn whether another page exists without a
// separate count. Pages are consistent only with respect to the rows present
// when each one is read: rows inserted or deleted between two fetches may be
// skipped, and a row whose sort key changes in between may be seen twice.
func FetchPage[T Row](ctx context.Context, src Source[T], filter Predicate, sort SortSpec, limit int, cursor string) (page Page[T], err error) {
	if len(sort) < 2 {
		err = ErrInsufficientSortKeys
		return
	}
	// The extra row fetched below must not overflow.
	if limit < 1 || limit >= math.MaxInt {
		err = ErrInvalidLimit
		return
	}

	if cursor != "" {
		var last RowSnapshot
		last, err = DecodeCursor(cursor, sort)
		if err != nil {
			return
		}
		var after Predicate
		after, err = After(last, sort)
		if err != nil {
			return
		}
		if filter == nil {
			filter = after
		} else {
			filter = And(filter, after)
		}
	}
	if filter == nil {
		filter = And()
	}

	rows, err := src.Find(ctx, Query{Filter: filter, Sort: sort, Limit: limit + 1})
	if err != nil {
		err = fmt.Errorf("failed to fetch page: %w", err)
		return
	}

	page.HasNext = len(rows) > limit
	if page.HasNext {
		rows = rows[:limit]
		var snapshot RowSnapshot
		snapshot, err = sort.Snapshot(rows[len(rows)-1])
		if err != nil {
			err = fmt.Errorf("failed to snapshot last row: %w", err)
			return
		}
		var next string
		next, err = EncodeCursor(snapshot, sort)
		if err != nil {
			return
		}
		page.NextCursor = &next
	}
	if rows == nil {
		rows = make([]T, 0)
	}
	page.Data = rows
	return
}
