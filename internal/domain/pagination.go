package domain

type ListParams struct {
	Limit   int
	Offset  int
	Keyword string
}

// Page is one offset-addressed slice of a listing together with the number
// of rows matching its filter.
type Page[T any] struct {
	Items []T
	Total int64
}
