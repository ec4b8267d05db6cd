package ifunny

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/Sternrassler/ifunny-client/pkg/client"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// API is the iFunny private API.
type API struct {
	client *client.Client
	logger zerolog.Logger

	// options are merged into every request the API sends
	options client.RequestOptions
}

// New wraps an existing client.
func New(c *client.Client) *API {
	return &API{
		client: c,
		logger: zerolog.Nop(),
	}
}

// NewFromConfig creates the client from cfg and wraps it.
func NewFromConfig(cfg client.Config) (*API, error) {
	c, err := client.New(cfg)
	if err != nil {
		return nil, err
	}
	return New(c), nil
}

// WithLogger sets the logger used for feed and upload events.
func (a *API) WithLogger(logger zerolog.Logger) *API {
	a.logger = logger
	return a
}

// WithOptions returns a copy of the API whose requests carry opts on top of
// the receiver's options. The receiver is unchanged, so a copy can serve a
// single call:
//
//	user, err := api.WithOptions(client.RequestOptions{Query: q}).User(ctx, id)
func (a *API) WithOptions(opts client.RequestOptions) *API {
	cp := *a
	cp.options = a.options.Merge(opts)
	return &cp
}

// Client returns the underlying HTTP client.
func (a *API) Client() *client.Client {
	return a.client
}

// decodeAt unmarshals the value at the gjson path of body into out.
func decodeAt(path, at string, body []byte, out any) error {
	value := gjson.GetBytes(body, at)
	if !value.Exists() {
		return &client.ProtocolError{Path: path, Reason: "missing " + at}
	}
	if err := json.Unmarshal([]byte(value.Raw), out); err != nil {
		return &client.ProtocolError{Path: path, Reason: "decode " + at, Err: err}
	}
	return nil
}

// lookup performs a GET and decodes the value at "at".
func lookup[T any](ctx context.Context, a *API, name, path string, query url.Values, cacheable bool, at string) (T, error) {
	var out T
	body, err := a.client.Do(ctx, &client.Request{
		Method:    http.MethodGet,
		Path:      path,
		Name:      name,
		Query:     query,
		Options:   a.options,
		Cacheable: cacheable,
	})
	if err != nil {
		return out, err
	}
	err = decodeAt(path, at, body, &out)
	return out, err
}

// Account returns the user the token belongs to.
func (a *API) Account(ctx context.Context) (*User, error) {
	u, err := lookup[User](ctx, a, "account", pathAccount, nil, false, "data")
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// User returns the profile with the given id.
func (a *API) User(ctx context.Context, userID string) (*User, error) {
	u, err := lookup[User](ctx, a, "user", userPath(userID), nil, true, "data")
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UserByNick returns the profile with the given nick.
func (a *API) UserByNick(ctx context.Context, nick string) (*User, error) {
	u, err := lookup[User](ctx, a, "user_by_nick", userByNickPath(nick), nil, true, "data")
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Post returns the post with the given id.
func (a *API) Post(ctx context.Context, postID string) (*Post, error) {
	p, err := lookup[Post](ctx, a, "post", postPath(postID), nil, true, "data")
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Comment returns one comment of a post.
func (a *API) Comment(ctx context.Context, postID, commentID string) (*Comment, error) {
	c, err := lookup[Comment](ctx, a, "comment", commentPath(postID, commentID), nil, true, "data")
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Channels lists the server's channels.
func (a *API) Channels(ctx context.Context) ([]ChannelInfo, error) {
	return lookup[[]ChannelInfo](ctx, a, "channels", pathChannels, nil, true, "data.channels.items")
}

// DigestPosts returns the posts of the digest published on the given day.
func (a *API) DigestPosts(ctx context.Context, day, month, year int) ([]Post, error) {
	return lookup[[]Post](ctx, a, "digest", digestPath(year, month, day), nil, true, "data.items")
}

// IsNickAvailable reports whether nick can be registered.
func (a *API) IsNickAvailable(ctx context.Context, nick string) (bool, error) {
	return lookup[bool](ctx, a, "nick_available", pathNickAvailable, url.Values{"nick": {nick}}, false, "data.available")
}

// IsEmailAvailable reports whether email can be registered.
func (a *API) IsEmailAvailable(ctx context.Context, email string) (bool, error) {
	return lookup[bool](ctx, a, "email_available", pathEmailAvailable, url.Values{"email": {email}}, false, "data.available")
}
