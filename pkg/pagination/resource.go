package pagination

import (
	"context"
	"errors"
	"strconv"
)

// DefaultMaxPageSize is the largest page iFunny serves for a single request.
const DefaultMaxPageSize = 100

// ErrInvalidLimit is returned by Collect for a negative limit.
var ErrInvalidLimit = errors.New("pagination: limit must not be negative")

// Cursor is an opaque, server-issued pagination token. The empty value means
// the server supplied no cursor.
type Cursor string

// FetchRequest describes a single page request.
type FetchRequest struct {
	// Cursor is the token of the previous page, empty for the first request
	Cursor Cursor

	// PageSize is the number of items requested, always in [0, MaxPageSize]
	PageSize int
}

// Page is one server response unit.
type Page[T any] struct {
	Items   []T
	Cursor  Cursor
	HasMore bool
}

// PagedResource issues one page request per call.
type PagedResource[T any] interface {
	// FetchPage performs exactly one network call. It does not retry.
	FetchPage(ctx context.Context, req FetchRequest) (*Page[T], error)

	// MaxPageSize is the server's page size cap. Values <= 0 mean
	// DefaultMaxPageSize.
	MaxPageSize() int
}

// Limit caps the total number of items Collect returns. The zero value is
// unbounded.
type Limit struct {
	n       int
	bounded bool
}

// Unbounded fetches until the server reports no more pages.
func Unbounded() Limit {
	return Limit{}
}

// LimitTo caps the collection at n items.
func LimitTo(n int) Limit {
	return Limit{n: n, bounded: true}
}

// Value returns the cap and whether one is set.
func (l Limit) Value() (int, bool) {
	return l.n, l.bounded
}

// String implements fmt.Stringer.
func (l Limit) String() string {
	if !l.bounded {
		return "unbounded"
	}
	return strconv.Itoa(l.n)
}

// LimitFromPointer converts an optional count into a Limit; nil is unbounded.
func LimitFromPointer(n *int) Limit {
	if n == nil {
		return Unbounded()
	}
	return LimitTo(*n)
}
