package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Sternrassler/ifunny-client/internal/testutil"
	"github.com/Sternrassler/ifunny-client/pkg/client"
	"github.com/Sternrassler/ifunny-client/pkg/ifunny"
	"github.com/Sternrassler/ifunny-client/pkg/pagination"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(t *testing.T) (*httptest.Server, *testutil.MockIFunny) {
	t.Helper()

	mock := testutil.NewMockIFunny()
	t.Cleanup(mock.Close)

	cfg := client.DefaultConfig("test-token")
	cfg.BaseURL = mock.URL()
	api, err := ifunny.NewFromConfig(cfg)
	require.NoError(t, err)

	gateway := httptest.NewServer(newServer(api, nil, zerolog.Nop()).routes())
	t.Cleanup(gateway.Close)

	return gateway, mock
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestHealthEndpoint(t *testing.T) {
	gateway, _ := newTestGateway(t)

	status, body := get(t, gateway.URL+"/health")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OK", body)

	status, _ = get(t, gateway.URL+"/ready")
	assert.Equal(t, http.StatusOK, status)
}

func TestListEndpoint(t *testing.T) {
	gateway, mock := newTestGateway(t)
	mock.SetPagedItems("/timelines/users/u1", "content", testutil.Items("p", 130), 100)

	status, body := get(t, gateway.URL+"/lists/user_posts?arg=u1&limit=3")
	require.Equal(t, http.StatusOK, status, body)

	var resp listResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.Equal(t, "user_posts", resp.Name)
	assert.Equal(t, "3", resp.Limit)
	assert.Equal(t, 3, resp.Count)
	assert.JSONEq(t, `{"id":"p2"}`, string(resp.Items[2]))

	status, body = get(t, gateway.URL+"/lists/user_posts?arg=u1&limit=all")
	require.Equal(t, http.StatusOK, status, body)
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.Equal(t, "unbounded", resp.Limit)
	assert.Equal(t, 130, resp.Count)

	status, body = get(t, gateway.URL+"/lists/user_posts?arg=u1")
	require.Equal(t, http.StatusOK, status, body)
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.Equal(t, defaultListLimit, resp.Count)
}

func TestListEndpoint_Errors(t *testing.T) {
	gateway, mock := newTestGateway(t)
	mock.SetResponse("/timelines/users/down", testutil.NewErrorResponse(http.StatusInternalServerError, "internal", "boom"))

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"unknown list", "/lists/nope", http.StatusNotFound},
		{"missing argument", "/lists/user_posts", http.StatusBadRequest},
		{"bad channel", "/lists/channel_posts?arg=knitting", http.StatusBadRequest},
		{"negative limit", "/lists/user_posts?arg=u1&limit=-1", http.StatusBadRequest},
		{"malformed limit", "/lists/user_posts?arg=u1&limit=lots", http.StatusBadRequest},
		{"upstream failure", "/lists/user_posts?arg=down&limit=5", http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := get(t, gateway.URL+tt.path)
			assert.Equal(t, tt.status, status, body)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	gateway, mock := newTestGateway(t)
	mock.SetPagedItems("/timelines/users/u1", "content", testutil.Items("p", 10), 100)

	status, _ := get(t, gateway.URL+"/lists/user_posts?arg=u1&limit=2")
	require.Equal(t, http.StatusOK, status)

	status, body := get(t, gateway.URL+"/metrics")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "# HELP")
	assert.Contains(t, body, "ifunny_requests_total")
	assert.Contains(t, body, "ifunny_pagination_pages_total")
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		raw     string
		want    pagination.Limit
		wantErr bool
	}{
		{"", pagination.LimitTo(defaultListLimit), false},
		{"all", pagination.Unbounded(), false},
		{"7", pagination.LimitTo(7), false},
		{"-1", pagination.LimitTo(-1), false},
		{"seven", pagination.Limit{}, true},
	}

	for _, tt := range tests {
		got, err := parseLimit(tt.raw)
		if tt.wantErr {
			assert.Error(t, err, tt.raw)
			continue
		}
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestListErrorStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, listErrorStatus(fmt.Errorf("%w %q", ifunny.ErrUnknownList, "x")))
	assert.Equal(t, http.StatusBadRequest, listErrorStatus(ifunny.ErrListArgs))
	assert.Equal(t, http.StatusBadRequest, listErrorStatus(pagination.ErrInvalidLimit))
	assert.Equal(t, http.StatusGatewayTimeout, listErrorStatus(&client.TransportError{Err: context.DeadlineExceeded}))
	assert.Equal(t, http.StatusBadGateway, listErrorStatus(errors.New("boom")))
}
