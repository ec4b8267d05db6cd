// Package metrics exposes the Prometheus metrics of the iFunny client.
// All metrics are defined in their respective packages (client, cache,
// pagination, ratelimit) and registered via promauto on the default registry.
//
// This package provides the HTTP handler and a reference of available metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registry used by the iFunny client.
var Registry = prometheus.DefaultRegisterer

// Gatherer reads back what Registry collected.
var Gatherer = prometheus.DefaultGatherer

// Handler serves the registered metrics in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - ifunny_requests_total{endpoint, status} (Counter): Requests by endpoint and HTTP status
//   - ifunny_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - ifunny_errors_total{class} (Counter): Errors by class (network, client, server, protocol, api)
//
// Pagination Metrics (pkg/pagination):
//   - ifunny_pagination_pages_total{policy} (Counter): Pages fetched by termination policy
//   - ifunny_pagination_items_total{policy} (Counter): Items collected by termination policy
//   - ifunny_pagination_collect_duration_seconds{policy} (Histogram): Duration of Collect
//
// Pacing Metrics (pkg/ratelimit):
//   - ifunny_ratelimit_wait_seconds (Histogram): Time spent waiting for the pacer
//   - ifunny_ratelimit_cooldowns_total (Counter): Cooldowns started by 429 responses
//
// Cache Metrics (pkg/cache):
//   - ifunny_cache_hits_total{layer="redis"} (Counter): Lookup cache hits
//   - ifunny_cache_misses_total (Counter): Lookup cache misses
//   - ifunny_cache_size_bytes{layer="redis"} (Gauge): Bytes written to the cache
//   - ifunny_304_responses_total (Counter): 304 Not Modified responses
//   - ifunny_conditional_requests_total (Counter): Conditional requests sent
//   - ifunny_cache_errors_total{operation} (Counter): Cache operation errors
//
// Example Prometheus Queries:
//
//   # Pages per collection
//   sum(rate(ifunny_pagination_pages_total[5m])) by (policy) /
//   sum(rate(ifunny_pagination_collect_duration_seconds_count[5m])) by (policy)
//
//   # Envelope errors
//   rate(ifunny_errors_total{class="api"}[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(ifunny_request_duration_seconds_bucket[5m]))
//
//   # Cache Hit Rate
//   sum(rate(ifunny_cache_hits_total[5m])) /
//   (sum(rate(ifunny_cache_hits_total[5m])) + sum(rate(ifunny_cache_misses_total[5m])))
