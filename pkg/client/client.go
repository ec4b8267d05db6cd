// Package client provides the iFunny HTTP client with bearer authentication,
// request pacing, lookup caching and error classification.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/ifunny-client/pkg/cache"
	"github.com/Sternrassler/ifunny-client/pkg/pagination"
	"github.com/Sternrassler/ifunny-client/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
)

// Prometheus metrics for iFunny client operations.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ifunny_requests_total",
		Help: "Total iFunny requests by endpoint and status",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ifunny_request_duration_seconds",
		Help:    "iFunny request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ifunny_errors_total",
		Help: "Total iFunny errors by class",
	}, []string{"class"})
)

const (
	// DefaultBaseURL is the private API root used by the mobile apps.
	DefaultBaseURL = "https://api.ifunny.mobi/v4"

	// DefaultUserAgent is sent when Config.UserAgent is empty.
	DefaultUserAgent = "ifunny-client-go/1.0"

	// DefaultTimeout bounds a single HTTP round trip.
	DefaultTimeout = 30 * time.Second
)

// Config holds the client configuration.
type Config struct {
	// Token is the iFunny bearer token (REQUIRED)
	Token string

	// BaseURL of the API, DefaultBaseURL when empty
	BaseURL string

	// UserAgent header, DefaultUserAgent when empty
	UserAgent string

	// Timeout per request, DefaultTimeout when zero
	Timeout time.Duration

	// Pacing: at most RequestsPerMinute requests, bursts of Burst.
	// Zero disables client-side pacing; 429 cooldowns always apply.
	RequestsPerMinute int
	Burst             int

	// Redis enables the lookup cache for single-object GETs. Optional.
	Redis *redis.Client

	// MaxPageSize is the server's per-request item cap for paged endpoints
	MaxPageSize int
}

// DefaultConfig returns a configuration for token with all defaults filled in.
func DefaultConfig(token string) Config {
	return Config{
		Token:       token,
		BaseURL:     DefaultBaseURL,
		UserAgent:   DefaultUserAgent,
		Timeout:     DefaultTimeout,
		MaxPageSize: pagination.DefaultMaxPageSize,
	}
}

// Client talks to the iFunny private API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	pacer      *ratelimit.Pacer
	cache      *cache.Manager
	account    string
	config     Config
	logger     zerolog.Logger
}

// New creates a new iFunny client.
func New(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, ErrMissingToken
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", cfg.BaseURL)
	}

	if cfg.RequestsPerMinute < 0 {
		return nil, fmt.Errorf("requests_per_minute must be >= 0 (got %d)", cfg.RequestsPerMinute)
	}
	if cfg.MaxPageSize < 0 {
		return nil, fmt.Errorf("max_page_size must be >= 0 (got %d)", cfg.MaxPageSize)
	}
	if cfg.MaxPageSize == 0 {
		cfg.MaxPageSize = pagination.DefaultMaxPageSize
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	logger := log.With().Str("component", "ifunny-client").Logger()

	c := &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &oauth2.Transport{
				Source: oauth2.StaticTokenSource(&oauth2.Token{
					AccessToken: cfg.Token,
					TokenType:   "Bearer",
				}),
				Base: http.DefaultTransport,
			},
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		account: cache.AccountScope(cfg.Token),
		config:  cfg,
		logger:  logger,
	}

	c.pacer = ratelimit.NewPacer(cfg.RequestsPerMinute, cfg.Burst, logger)

	if cfg.Redis != nil {
		c.cache = cache.NewManager(cfg.Redis)
	}

	return c, nil
}

// RequestOptions are extra values merged into a request: query values are
// added, headers replace the client's defaults.
type RequestOptions struct {
	Header http.Header
	Query  url.Values
}

// Merge returns o with other layered on top: other's headers replace o's,
// query values from both are kept. Neither input is modified.
func (o RequestOptions) Merge(other RequestOptions) RequestOptions {
	var merged RequestOptions
	if len(o.Header) > 0 || len(other.Header) > 0 {
		merged.Header = o.Header.Clone()
		if merged.Header == nil {
			merged.Header = make(http.Header)
		}
		for k, vs := range other.Header {
			merged.Header[http.CanonicalHeaderKey(k)] = append([]string(nil), vs...)
		}
	}
	if len(o.Query) > 0 || len(other.Query) > 0 {
		merged.Query = url.Values{}
		for _, q := range []url.Values{o.Query, other.Query} {
			for k, vs := range q {
				merged.Query[k] = append(merged.Query[k], vs...)
			}
		}
	}
	return merged
}

// Request describes one API call.
type Request struct {
	Method string
	Path   string

	// Name labels metrics and logs; Path is used when empty
	Name string

	Query url.Values
	Form  url.Values

	// Body and ContentType are used when Form is nil
	Body        []byte
	ContentType string

	Options RequestOptions

	// Cacheable GETs go through the lookup cache when one is configured
	Cacheable bool

	// Invalidates lists lookup paths whose cached entries a successful
	// request makes stale
	Invalidates []string
}

// Do performs the request and returns the JSON body. It fails with a
// *TransportError when no valid response arrived and a *ProtocolError when
// the body is not JSON.
func (c *Client) Do(ctx context.Context, r *Request) ([]byte, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	endpoint := r.Name
	if endpoint == "" {
		endpoint = r.Path
	}

	startTime := time.Now()
	defer func() {
		requestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	if err := c.pacer.Wait(ctx); err != nil {
		return nil, c.fail(endpoint, &TransportError{Method: method, Path: r.Path, Err: err})
	}

	query := url.Values{}
	for k, vs := range r.Query {
		query[k] = append(query[k], vs...)
	}
	for k, vs := range r.Options.Query {
		query[k] = append(query[k], vs...)
	}

	target := c.baseURL + r.Path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	contentType := r.ContentType
	switch {
	case r.Form != nil:
		body = strings.NewReader(r.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case r.Body != nil:
		body = bytes.NewReader(r.Body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, c.fail(endpoint, &TransportError{Method: method, Path: r.Path, Err: fmt.Errorf("create request: %w", err)})
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, vs := range r.Options.Header {
		req.Header[http.CanonicalHeaderKey(k)] = vs
	}

	// Lookup cache
	useCache := r.Cacheable && c.cache != nil && method == http.MethodGet
	cacheKey := cache.CacheKey{Endpoint: r.Path, QueryParams: query, Account: c.account}
	var cachedEntry *cache.CacheEntry
	if useCache {
		cachedEntry, err = c.cache.Get(ctx, cacheKey)
		if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
			c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Cache get error")
		}
		if cachedEntry != nil && cache.ShouldMakeConditionalRequest(cachedEntry) {
			cache.AddConditionalHeaders(req, cachedEntry)
			cache.ConditionalRequestsSent.Inc()
			c.logger.Debug().
				Str("endpoint", endpoint).
				Str("etag", cachedEntry.ETag).
				Msg("Making conditional request")
		} else if cachedEntry != nil {
			requestsTotal.WithLabelValues(endpoint, "cached").Inc()
			return cachedEntry.Data, nil
		}
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("method", method).
		Str("path", r.Path).
		Msg("Executing iFunny request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		requestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		return nil, c.fail(endpoint, &TransportError{Method: method, Path: r.Path, Err: err})
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		requestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		return nil, c.fail(endpoint, &TransportError{Method: method, Path: r.Path, StatusCode: resp.StatusCode, Err: err})
	}
	requestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
	c.pacer.UpdateFromResponse(resp.StatusCode, resp.Header)

	if resp.StatusCode == http.StatusNotModified && cachedEntry != nil {
		c.logger.Debug().Str("endpoint", endpoint).Msg("304 Not Modified - using cache")
		cache.NotModifiedResponses.Inc()
		if expiresStr := resp.Header.Get("Expires"); expiresStr != "" {
			if newExpires, err := http.ParseTime(expiresStr); err == nil {
				if err := c.cache.UpdateTTL(ctx, cacheKey, newExpires); err != nil {
					c.logger.Warn().Err(err).Msg("Failed to update cache TTL")
				}
			}
		}
		return cachedEntry.Data, nil
	}

	if apiErr := parseAPIError(data, resp.StatusCode); apiErr != nil {
		return nil, c.fail(endpoint, &TransportError{Method: method, Path: r.Path, StatusCode: resp.StatusCode, Err: apiErr})
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.fail(endpoint, &TransportError{
			Method:     method,
			Path:       r.Path,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %q", resp.Status),
		})
	}

	c.Invalidate(ctx, r.Invalidates...)

	if resp.StatusCode == http.StatusNoContent && len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	if !gjson.ValidBytes(data) {
		return nil, c.fail(endpoint, &ProtocolError{Path: r.Path, Reason: "response is not valid JSON"})
	}

	if useCache && resp.StatusCode == http.StatusOK {
		entry := cache.NewEntry(resp.StatusCode, resp.Header, data)
		if entry.TTL() > 0 {
			if err := c.cache.Set(ctx, cacheKey, entry); err != nil {
				c.logger.Warn().Err(err).Msg("Failed to cache response")
			} else {
				c.logger.Debug().
					Str("endpoint", endpoint).
					Dur("ttl", entry.TTL()).
					Msg("Cached response")
			}
		}
	}

	return data, nil
}

// fail records err and returns it unchanged.
func (c *Client) fail(endpoint string, err error) error {
	class := Classify(err)
	errorsTotal.WithLabelValues(string(class)).Inc()

	event := c.logger.Warn()
	if class == ErrorClassNetwork {
		event = c.logger.Error()
	}
	event.Err(err).
		Str("endpoint", endpoint).
		Str("error_class", string(class)).
		Msg("iFunny request failed")

	return err
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a form-encoded POST request.
func (c *Client) Post(ctx context.Context, path string, form url.Values) ([]byte, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Form: form})
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Query: query})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path, Query: query})
}

// MaxPageSize returns the configured per-request item cap.
func (c *Client) MaxPageSize() int {
	return c.config.MaxPageSize
}

// Token returns the bearer token the client was created with.
func (c *Client) Token() string {
	return c.config.Token
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// SetHTTPClient sets a custom HTTP client (for testing). The bearer
// transport is kept in front of the client's own transport.
func (c *Client) SetHTTPClient(client *http.Client) {
	base := client.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	wrapped := *client
	wrapped.Transport = &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.config.Token, TokenType: "Bearer"}),
		Base:   base,
	}
	c.httpClient = &wrapped
}

// Invalidate evicts this account's cached lookups of paths. Failures are
// logged; the cache then serves the stale entry until it expires.
func (c *Client) Invalidate(ctx context.Context, paths ...string) {
	if c.cache == nil || len(paths) == 0 {
		return
	}
	keys := make([]cache.CacheKey, len(paths))
	for i, p := range paths {
		keys[i] = cache.CacheKey{Endpoint: p, Account: c.account}
	}
	if err := c.cache.Delete(ctx, keys...); err != nil {
		c.logger.Warn().Err(err).Strs("paths", paths).Msg("Failed to invalidate cached lookups")
		return
	}
	c.logger.Debug().Strs("paths", paths).Msg("Invalidated cached lookups")
}

// PurgeCache drops every cached lookup of this client's account.
func (c *Client) PurgeCache(ctx context.Context) error {
	if c.cache == nil {
		return nil
	}
	removed, err := c.cache.Purge(ctx, c.account)
	if err != nil {
		return fmt.Errorf("purge lookup cache: %w", err)
	}
	c.logger.Debug().Int("removed", removed).Msg("Purged lookup cache")
	return nil
}

// GetCache returns the cache manager, nil when caching is disabled.
func (c *Client) GetCache() *cache.Manager {
	return c.cache
}
