package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"github.com/Sternrassler/ifunny-client/internal/testutil"
	"github.com/Sternrassler/ifunny-client/pkg/pagination"
)

var _ pagination.PagedResource[json.RawMessage] = (*PagedEndpoint[json.RawMessage])(nil)

type item struct {
	ID string `json:"id"`
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantIDs    []string
		wantCursor pagination.Cursor
		wantMore   bool
		wantErr    bool
	}{
		{
			name:       "string cursor",
			body:       `{"data":{"users":{"items":[{"id":"a"},{"id":"b"}],"paging":{"hasNext":true,"cursors":{"next":"abc"}}}}}`,
			wantIDs:    []string{"a", "b"},
			wantCursor: "abc",
			wantMore:   true,
		},
		{
			name:       "integer cursor",
			body:       `{"data":{"users":{"items":[{"id":"a"}],"paging":{"hasNext":true,"cursors":{"next":1700000000}}}}}`,
			wantIDs:    []string{"a"},
			wantCursor: "1700000000",
			wantMore:   true,
		},
		{
			name:    "last page without cursor",
			body:    `{"data":{"users":{"items":[],"paging":{"hasNext":false}}}}`,
			wantIDs: []string{},
		},
		{
			name:    "null cursor",
			body:    `{"data":{"users":{"items":[],"paging":{"hasNext":false,"cursors":{"next":null}}}}}`,
			wantIDs: []string{},
		},
		{
			name:    "missing key",
			body:    `{"data":{"content":{"items":[],"paging":{"hasNext":false}}}}`,
			wantErr: true,
		},
		{
			name:    "missing items",
			body:    `{"data":{"users":{"paging":{"hasNext":false}}}}`,
			wantErr: true,
		},
		{
			name:    "missing hasNext",
			body:    `{"data":{"users":{"items":[],"paging":{}}}}`,
			wantErr: true,
		},
		{
			name:    "string hasNext",
			body:    `{"data":{"users":{"items":[],"paging":{"hasNext":"true"}}}}`,
			wantErr: true,
		},
		{
			name:    "items of wrong type",
			body:    `{"data":{"users":{"items":[1,2],"paging":{"hasNext":false}}}}`,
			wantErr: true,
		},
		{
			name:    "not json",
			body:    `<html>`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := ParsePage[item]("/users/x/subscribers", "users", []byte(tt.body))

			if tt.wantErr {
				var protocolErr *ProtocolError
				if !errors.As(err, &protocolErr) {
					t.Fatalf("error = %v, want *ProtocolError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePage() error = %v", err)
			}

			if len(page.Items) != len(tt.wantIDs) {
				t.Fatalf("len(Items) = %d, want %d", len(page.Items), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if page.Items[i].ID != id {
					t.Errorf("Items[%d].ID = %q, want %q", i, page.Items[i].ID, id)
				}
			}
			if page.Cursor != tt.wantCursor {
				t.Errorf("Cursor = %q, want %q", page.Cursor, tt.wantCursor)
			}
			if page.HasMore != tt.wantMore {
				t.Errorf("HasMore = %v, want %v", page.HasMore, tt.wantMore)
			}
		})
	}
}

func TestPagedEndpoint_FetchPage(t *testing.T) {
	mock := testutil.NewMockIFunny()
	defer mock.Close()
	mock.SetPagedItems("/search/content", "content", testutil.Items("p", 5), 100)

	c := newTestClient(t, mock.URL(), nil)
	endpoint := NewPagedEndpoint[item](c, "/search/content", "content")
	endpoint.Query = url.Values{"tag": {"cats"}, "counters": {"content"}}
	endpoint.Options = RequestOptions{Header: http.Header{"X-Trace": {"1"}}}

	page, err := endpoint.FetchPage(context.Background(), pagination.FetchRequest{Cursor: "2", PageSize: 2})
	if err != nil {
		t.Fatalf("FetchPage() error = %v", err)
	}

	if len(page.Items) != 2 || page.Items[0].ID != "p2" || page.Items[1].ID != "p3" {
		t.Errorf("Items = %+v", page.Items)
	}
	if page.Cursor != "4" || !page.HasMore {
		t.Errorf("Cursor = %q HasMore = %v", page.Cursor, page.HasMore)
	}

	req, _ := mock.LastRequest()
	if req.Query.Get("limit") != "2" || req.Query.Get("next") != "2" {
		t.Errorf("paging query = %v", req.Query)
	}
	if req.Query.Get("tag") != "cats" || req.Query.Get("counters") != "content" {
		t.Errorf("fixed query = %v", req.Query)
	}
	if req.Header.Get("X-Trace") != "1" {
		t.Error("request options were not applied")
	}
}

func TestPagedEndpoint_FirstPageHasNoCursor(t *testing.T) {
	mock := testutil.NewMockIFunny()
	defer mock.Close()
	mock.SetPagedItems("/users/my/blocked", "users", testutil.Items("u", 3), 100)

	c := newTestClient(t, mock.URL(), nil)
	endpoint := NewPagedEndpoint[item](c, "/users/my/blocked", "users")

	if _, err := endpoint.FetchPage(context.Background(), pagination.FetchRequest{PageSize: 100}); err != nil {
		t.Fatalf("FetchPage() error = %v", err)
	}

	req, _ := mock.LastRequest()
	if _, ok := req.Query["next"]; ok {
		t.Errorf("first request carried next=%q", req.Query.Get("next"))
	}
}

func TestPagedEndpoint_Collect(t *testing.T) {
	mock := testutil.NewMockIFunny()
	defer mock.Close()
	mock.SetPagedItems("/content/p1/comments", "comments", testutil.Items("c", 250), 100)

	c := newTestClient(t, mock.URL(), nil)
	endpoint := NewPagedEndpoint[item](c, "/content/p1/comments", "comments")

	items, err := pagination.Collect[item](context.Background(), endpoint, pagination.LimitTo(150))
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(items) != 150 {
		t.Fatalf("len(items) = %d, want 150", len(items))
	}
	// the remainder page is requested without a cursor and restarts the listing
	for i, it := range items {
		if want := "c" + strconv.Itoa(i%100); it.ID != want {
			t.Fatalf("items[%d].ID = %q, want %q", i, it.ID, want)
		}
	}
	if mock.GetRequestCount() != 2 {
		t.Errorf("RequestCount = %d, want 2", mock.GetRequestCount())
	}
}

func TestPagedEndpoint_CollectUnbounded(t *testing.T) {
	mock := testutil.NewMockIFunny()
	defer mock.Close()
	mock.SetPagedItems("/news/my", "news", testutil.Items("n", 130), 100)

	c := newTestClient(t, mock.URL(), nil)
	endpoint := NewPagedEndpoint[json.RawMessage](c, "/news/my", "news")

	items, err := pagination.Collect[json.RawMessage](context.Background(), endpoint, pagination.Unbounded())
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(items) != 130 {
		t.Errorf("len(items) = %d, want 130", len(items))
	}
	// two data pages plus the trailing request after hasNext=false
	if mock.GetRequestCount() != 3 {
		t.Errorf("RequestCount = %d, want 3", mock.GetRequestCount())
	}
}

func TestPagedEndpoint_ErrorAbortsCollect(t *testing.T) {
	mock := testutil.NewMockIFunny()
	defer mock.Close()
	mock.SetResponse("/users/u1/guests", testutil.NewErrorResponse(http.StatusForbidden, "forbidden", "Guests are private"))

	c := newTestClient(t, mock.URL(), nil)
	endpoint := NewPagedEndpoint[item](c, "/users/u1/guests", "guests")

	items, err := pagination.Collect[item](context.Background(), endpoint, pagination.Unbounded())
	if items != nil {
		t.Errorf("items = %v, want nil", items)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Code != "forbidden" {
		t.Errorf("error = %v, want forbidden *APIError", err)
	}
}
