package pagination

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for pagination.
var (
	paginationPagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ifunny_pagination_pages_total",
		Help: "Total pages fetched by termination policy",
	}, []string{"policy"})

	paginationItemsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ifunny_pagination_items_total",
		Help: "Total items collected by termination policy",
	}, []string{"policy"})

	paginationCollectDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ifunny_pagination_collect_duration_seconds",
		Help:    "Duration of a full Collect call by termination policy",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"policy"})
)

// The quirks below reproduce the historical request pattern of the iFunny
// client. Flipping one to false is the whole correction.
const (
	// fetchEmptyRemainder issues the closing bounded request even when the
	// remainder is zero (limit is a multiple of the page size).
	fetchEmptyRemainder = true

	// fetchPastLastPage issues one more request after the page that reported
	// hasNext=false.
	fetchPastLastPage = true

	// remainderWithoutCursor sends the closing bounded request with no
	// cursor, so the server answers from the start of the listing.
	remainderWithoutCursor = true
)

// Policy names the termination policy chosen for a collection.
type Policy string

const (
	// PolicyFirstPage returns the first page only (limit <= page size).
	PolicyFirstPage Policy = "first_page"

	// PolicyBounded fetches full pages and a final remainder page.
	PolicyBounded Policy = "bounded"

	// PolicyUnbounded follows hasNext until the server runs out.
	PolicyUnbounded Policy = "unbounded"
)

// PolicyFor reports which termination policy Collect uses for limit given the
// page size cap.
func PolicyFor(limit Limit, maxPageSize int) Policy {
	n, bounded := limit.Value()
	switch {
	case !bounded:
		return PolicyUnbounded
	case n <= maxPageSize:
		return PolicyFirstPage
	default:
		return PolicyBounded
	}
}

// Collect fetches items from resource until limit is satisfied or the server
// runs out of pages. Items keep server order. If any fetch fails, Collect
// returns nil and that error.
func Collect[T any](ctx context.Context, resource PagedResource[T], limit Limit) ([]T, error) {
	n, bounded := limit.Value()
	if bounded && n < 0 {
		return nil, fmt.Errorf("%w (got %d)", ErrInvalidLimit, n)
	}

	maxPageSize := pageSizeCap(resource)
	policy := PolicyFor(limit, maxPageSize)

	start := time.Now()
	defer func() {
		paginationCollectDuration.WithLabelValues(string(policy)).Observe(time.Since(start).Seconds())
	}()

	c := &collector[T]{resource: resource, policy: policy}

	first, err := c.fetch(ctx, FetchRequest{PageSize: initialPageSize(limit, maxPageSize)})
	if err != nil {
		return nil, err
	}

	switch policy {
	case PolicyBounded:
		err = c.collectBounded(ctx, first, n, maxPageSize)
	case PolicyUnbounded:
		err = c.collectUnbounded(ctx, first, maxPageSize)
	}
	if err != nil {
		return nil, err
	}

	paginationItemsTotal.WithLabelValues(string(policy)).Add(float64(len(c.items)))
	log.Info().
		Str("policy", string(policy)).
		Str("limit", limit.String()).
		Int("pages", c.pages).
		Int("items", len(c.items)).
		Dur("duration", time.Since(start)).
		Msg("Pagination complete")

	return c.items, nil
}

// collector holds the state of one Collect call.
type collector[T any] struct {
	resource PagedResource[T]
	policy   Policy
	items    []T
	pages    int
}

// fetch requests one page and appends its items.
func (c *collector[T]) fetch(ctx context.Context, req FetchRequest) (*Page[T], error) {
	page, err := c.resource.FetchPage(ctx, req)
	if err != nil {
		log.Debug().
			Err(err).
			Str("policy", string(c.policy)).
			Int("page", c.pages+1).
			Msg("Page fetch failed")
		return nil, err
	}
	if page == nil {
		page = &Page[T]{}
	}

	c.pages++
	c.items = append(c.items, page.Items...)
	paginationPagesTotal.WithLabelValues(string(c.policy)).Inc()

	log.Debug().
		Str("policy", string(c.policy)).
		Int("page", c.pages).
		Int("page_size", req.PageSize).
		Int("received", len(page.Items)).
		Bool("has_more", page.HasMore).
		Msg("Fetched page")

	return page, nil
}

// collectBounded fetches exactly fullBatches pages of maxPageSize after the
// first page, then one page of the remainder. The server's hasNext flag is not
// consulted.
func (c *collector[T]) collectBounded(ctx context.Context, first *Page[T], limit, maxPageSize int) error {
	extra := limit - maxPageSize
	fullBatches, remainder := extra/maxPageSize, extra%maxPageSize

	last := first
	for i := 0; i < fullBatches; i++ {
		page, err := c.fetch(ctx, FetchRequest{Cursor: last.Cursor, PageSize: maxPageSize})
		if err != nil {
			return err
		}
		last = page
	}

	if remainder > 0 || fetchEmptyRemainder {
		if _, err := c.fetch(ctx, remainderRequest(last.Cursor, remainder)); err != nil {
			return err
		}
	}
	return nil
}

// collectUnbounded follows hasNext, then issues the trailing request with the
// cursor of the last page, empty or not.
func (c *collector[T]) collectUnbounded(ctx context.Context, first *Page[T], maxPageSize int) error {
	last := first
	for last.HasMore {
		page, err := c.fetch(ctx, FetchRequest{Cursor: last.Cursor, PageSize: maxPageSize})
		if err != nil {
			return err
		}
		last = page
	}

	if fetchPastLastPage {
		if _, err := c.fetch(ctx, FetchRequest{Cursor: last.Cursor, PageSize: maxPageSize}); err != nil {
			return err
		}
	}
	return nil
}

// remainderRequest builds the closing bounded request.
func remainderRequest(previous Cursor, remainder int) FetchRequest {
	if remainderWithoutCursor {
		return FetchRequest{PageSize: remainder}
	}
	return FetchRequest{Cursor: previous, PageSize: remainder}
}

// initialPageSize is min(maxPageSize, limit) for bounded limits.
func initialPageSize(limit Limit, maxPageSize int) int {
	if n, bounded := limit.Value(); bounded && n < maxPageSize {
		return n
	}
	return maxPageSize
}

func pageSizeCap[T any](resource PagedResource[T]) int {
	if m := resource.MaxPageSize(); m > 0 {
		return m
	}
	return DefaultMaxPageSize
}
