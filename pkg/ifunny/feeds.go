package ifunny

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/Sternrassler/ifunny-client/pkg/client"
	"github.com/Sternrassler/ifunny-client/pkg/pagination"
	"github.com/tidwall/gjson"
)

// ErrNoItems is returned when a feed answers without a post.
var ErrNoItems = errors.New("ifunny: feed returned no items")

// FeedKind names one of the server-curated feeds.
type FeedKind string

const (
	FeedFeatured      FeedKind = "featured"
	FeedCollective    FeedKind = "collective"
	FeedSubscriptions FeedKind = "subscriptions"
	FeedPopular       FeedKind = "popular"
)

type feedRoute struct {
	method string
	path   string
	// readFrom is the "from" value of the read receipt, empty when the feed
	// takes none
	readFrom string
}

var feedRoutes = map[FeedKind]feedRoute{
	FeedFeatured:      {method: http.MethodGet, path: pathFeaturedFeed, readFrom: "feat"},
	FeedCollective:    {method: http.MethodPost, path: pathCollectiveFeed},
	FeedSubscriptions: {method: http.MethodGet, path: pathSubscriptionFeed, readFrom: "subs"},
	FeedPopular:       {method: http.MethodGet, path: pathPopularFeed},
}

// ParseFeedKind validates a feed name.
func ParseFeedKind(s string) (FeedKind, error) {
	k := FeedKind(s)
	if _, ok := feedRoutes[k]; !ok {
		return "", fmt.Errorf("unknown feed %q", s)
	}
	return k, nil
}

// FeedOptions configure a Feed.
type FeedOptions struct {
	// Limit caps the number of posts; unbounded feeds never end on their own
	Limit pagination.Limit

	// NoRead skips the read receipt on featured and subscriptions. The server
	// then keeps serving the same post.
	NoRead bool
}

// Feed yields one post per request.
type Feed struct {
	api   *API
	kind  FeedKind
	route feedRoute
	opts  FeedOptions
	taken int

	// err is a construction error, returned by every Next and Take
	err error
}

// Feed opens a feed of the given kind.
func (a *API) Feed(kind FeedKind, opts FeedOptions) (*Feed, error) {
	route, ok := feedRoutes[kind]
	if !ok {
		return nil, fmt.Errorf("unknown feed %q", kind)
	}
	if n, bounded := opts.Limit.Value(); bounded && n < 0 {
		return nil, fmt.Errorf("%w (got %d)", pagination.ErrInvalidLimit, n)
	}
	return &Feed{api: a, kind: kind, route: route, opts: opts}, nil
}

// openFeed is Feed for the fixed-kind constructors; a bad FeedOptions value
// surfaces from the first Next or Take.
func (a *API) openFeed(kind FeedKind, opts FeedOptions) *Feed {
	f, err := a.Feed(kind, opts)
	if err != nil {
		return &Feed{api: a, kind: kind, opts: opts, err: err}
	}
	return f
}

// Featured opens the featured feed.
func (a *API) Featured(opts FeedOptions) *Feed {
	return a.openFeed(FeedFeatured, opts)
}

// Collective opens the collective feed.
func (a *API) Collective(opts FeedOptions) *Feed {
	return a.openFeed(FeedCollective, opts)
}

// Subscriptions opens the feed of subscribed users' posts.
func (a *API) Subscriptions(opts FeedOptions) *Feed {
	return a.openFeed(FeedSubscriptions, opts)
}

// Popular opens the popular feed.
func (a *API) Popular(opts FeedOptions) *Feed {
	return a.openFeed(FeedPopular, opts)
}

// Err reports the error the feed was opened with, if any.
func (f *Feed) Err() error {
	return f.err
}

// Next fetches the next post. It returns io.EOF once Limit posts were
// returned and ErrNoItems when the server sent an empty page.
func (f *Feed) Next(ctx context.Context) (*Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	if n, bounded := f.opts.Limit.Value(); bounded && f.taken >= n {
		return nil, io.EOF
	}

	body, err := f.api.client.Do(ctx, &client.Request{
		Method: f.route.method,
		Path:   f.route.path,
		Name:    "feed_" + string(f.kind),
		Query:   url.Values{"limit": {"1"}},
		Options: f.api.options,
	})
	if err != nil {
		return nil, err
	}

	items := gjson.GetBytes(body, "data.content.items")
	if !items.IsArray() {
		return nil, &client.ProtocolError{Path: f.route.path, Reason: "missing data.content.items"}
	}
	first := items.Get("0")
	if !first.Exists() {
		return nil, ErrNoItems
	}

	var post Post
	if err := json.Unmarshal([]byte(first.Raw), &post); err != nil {
		return nil, &client.ProtocolError{Path: f.route.path, Reason: "decode post", Err: err}
	}

	if f.route.readFrom != "" && !f.opts.NoRead {
		if err := f.markRead(ctx, post.ID); err != nil {
			return nil, err
		}
	}

	f.taken++
	f.api.logger.Debug().
		Str("feed", string(f.kind)).
		Str("post_id", post.ID).
		Int("taken", f.taken).
		Msg("Feed post received")

	return &post, nil
}

// markRead sends the read receipt that advances the feed.
func (f *Feed) markRead(ctx context.Context, postID string) error {
	_, err := f.api.client.Do(ctx, &client.Request{
		Method: http.MethodPut,
		Path:   readsPath(postID),
		Name:   "reads",
		Query:  url.Values{"from": {f.route.readFrom}},
		Options: f.api.options.Merge(client.RequestOptions{
			Header: http.Header{"User-Agent": {"*"}},
		}),
	})
	return err
}

// Take collects up to n posts, stopping early at the end of a bounded feed.
func (f *Feed) Take(ctx context.Context, n int) ([]Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	if n <= 0 {
		return []Post{}, nil
	}
	posts := make([]Post, 0, n)
	for len(posts) < n {
		post, err := f.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, nil
}
