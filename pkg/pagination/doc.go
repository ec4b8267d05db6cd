// Package pagination collects items from cursor-paginated iFunny endpoints.
//
// iFunny list endpoints return at most 100 items per request together with an
// opaque forward-only cursor and a hasNext flag. This package drives those
// endpoints sequentially through the PagedResource interface and concatenates
// the pages in server order.
//
// Example usage:
//
//	endpoint := client.NewPagedEndpoint[ifunny.Comment](c, "/content/abc/comments", "comments")
//	endpoint.Options = client.RequestOptions{Header: http.Header{"Accept-Language": {"en"}}}
//	comments, err := pagination.Collect(ctx, endpoint, pagination.LimitTo(250))
//
// Collect picks one of three termination policies after the first page:
//   - first page: the limit fits in one request, nothing else is fetched
//   - bounded: full pages up to the limit, then one cursorless request for
//     the remainder
//   - unbounded: pages until hasNext is false, then one trailing request
//
// Any fetch error aborts the collection and no partial result is returned.
package pagination
