package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Sternrassler/ifunny-client/pkg/pagination"
	"github.com/tidwall/gjson"
)

// PagedEndpoint is one cursor-paged listing, answered as
// {"data": {"<Key>": {"items": [...], "paging": {...}}}}.
type PagedEndpoint[T any] struct {
	client *Client

	Path string
	Key  string

	// Name labels metrics and logs
	Name string

	// Query is sent with every page, in addition to limit and next
	Query url.Values

	Options RequestOptions
}

// NewPagedEndpoint returns the listing at path whose items live under key.
func NewPagedEndpoint[T any](c *Client, path, key string) *PagedEndpoint[T] {
	return &PagedEndpoint[T]{client: c, Path: path, Key: key}
}

// MaxPageSize implements pagination.PagedResource.
func (e *PagedEndpoint[T]) MaxPageSize() int {
	return e.client.MaxPageSize()
}

// FetchPage implements pagination.PagedResource with exactly one GET.
func (e *PagedEndpoint[T]) FetchPage(ctx context.Context, req pagination.FetchRequest) (*pagination.Page[T], error) {
	query := url.Values{}
	for k, vs := range e.Query {
		query[k] = append([]string(nil), vs...)
	}
	query.Set("limit", strconv.Itoa(req.PageSize))
	if req.Cursor != "" {
		query.Set("next", string(req.Cursor))
	}

	body, err := e.client.Do(ctx, &Request{
		Method:  http.MethodGet,
		Path:    e.Path,
		Name:    e.Name,
		Query:   query,
		Options: e.Options,
	})
	if err != nil {
		return nil, err
	}

	return ParsePage[T](e.Path, e.Key, body)
}

// ParsePage decodes one page of a paged listing.
func ParsePage[T any](path, key string, body []byte) (*pagination.Page[T], error) {
	if !gjson.ValidBytes(body) {
		return nil, &ProtocolError{Path: path, Reason: "response is not valid JSON"}
	}

	root := gjson.GetBytes(body, "data."+key)
	if !root.IsObject() {
		return nil, &ProtocolError{Path: path, Reason: "missing data." + key}
	}

	items := root.Get("items")
	if !items.IsArray() {
		return nil, &ProtocolError{Path: path, Reason: "missing items array"}
	}

	hasNext := root.Get("paging.hasNext")
	if hasNext.Type != gjson.True && hasNext.Type != gjson.False {
		return nil, &ProtocolError{Path: path, Reason: "missing or non-boolean paging.hasNext"}
	}

	page := &pagination.Page[T]{HasMore: hasNext.Bool()}
	if err := json.Unmarshal([]byte(items.Raw), &page.Items); err != nil {
		return nil, &ProtocolError{Path: path, Reason: "decode items", Err: err}
	}

	if next := root.Get("paging.cursors.next"); next.Exists() && next.Type != gjson.Null {
		page.Cursor = pagination.Cursor(next.String())
	}

	return page, nil
}
