package ifunny

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/Sternrassler/ifunny-client/pkg/client"
	"github.com/Sternrassler/ifunny-client/pkg/pagination"
)

var (
	// ErrUnknownList is returned for a name that is not in the catalogue.
	ErrUnknownList = errors.New("ifunny: unknown list")

	// ErrListArgs is returned when a list's arguments are missing or invalid.
	ErrListArgs = errors.New("ifunny: bad list arguments")
)

// ListSpec describes one cursor-paged listing of the API.
type ListSpec struct {
	// Name is the catalogue name, e.g. "user_posts"
	Name string

	// Key is the member of "data" that holds items and paging
	Key string

	// Args names the positional arguments, e.g. ["user_id"]
	Args []string

	Description string

	resolve func(args []string) (string, url.Values, error)
}

// Usage renders the list name with its arguments.
func (s ListSpec) Usage() string {
	if len(s.Args) == 0 {
		return s.Name
	}
	return s.Name + " <" + strings.Join(s.Args, "> <") + ">"
}

func fixedPath(path string) func([]string) (string, url.Values, error) {
	return func([]string) (string, url.Values, error) { return path, nil, nil }
}

func onePath(build func(string) string) func([]string) (string, url.Values, error) {
	return func(args []string) (string, url.Values, error) { return build(args[0]), nil, nil }
}

var catalogue = []ListSpec{
	{Name: "my_activity", Key: "news", Description: "Account news feed", resolve: fixedPath(pathMyActivity)},
	{Name: "my_comments", Key: "comments", Description: "Comments written by the account", resolve: fixedPath(pathMyComments)},
	{Name: "my_blocked_users", Key: "users", Description: "Users blocked by the account", resolve: fixedPath(pathMyBlockedUsers)},
	{Name: "user_subscribers", Key: "users", Args: []string{"user_id"}, Description: "Subscribers of a user", resolve: onePath(userSubscribersPath)},
	{Name: "user_subscriptions", Key: "users", Args: []string{"user_id"}, Description: "Users a user subscribes to", resolve: onePath(userSubscriptionsPath)},
	{Name: "user_posts", Key: "content", Args: []string{"user_id"}, Description: "Posts of a user", resolve: onePath(userPostsPath)},
	{Name: "user_features", Key: "content", Args: []string{"user_id"}, Description: "Featured posts of a user", resolve: onePath(userFeaturesPath)},
	{Name: "user_guests", Key: "guests", Args: []string{"user_id"}, Description: "Recent visitors of a profile", resolve: onePath(userGuestsPath)},
	{
		Name: "channel_posts", Key: "content", Args: []string{"channel"}, Description: "Posts of a channel (name or id)",
		resolve: func(args []string) (string, url.Values, error) {
			ch, err := ParseChannel(args[0])
			if err != nil {
				return "", nil, err
			}
			return channelPostsPath(string(ch)), nil, nil
		},
	},
	{
		Name: "tag_posts", Key: "content", Args: []string{"tag"}, Description: "Posts carrying a tag",
		resolve: func(args []string) (string, url.Values, error) {
			return pathSearchPosts, url.Values{"tag": {args[0]}, "counters": {"content"}}, nil
		},
	},
	{Name: "post_comments", Key: "comments", Args: []string{"post_id"}, Description: "Comments on a post", resolve: onePath(postCommentsPath)},
	{Name: "post_smiles", Key: "users", Args: []string{"post_id"}, Description: "Users who smiled a post", resolve: onePath(postSmilesPath)},
	{Name: "post_republishers", Key: "users", Args: []string{"post_id"}, Description: "Users who republished a post", resolve: onePath(postRepublishedPath)},
	{
		Name: "comment_replies", Key: "replies", Args: []string{"post_id", "comment_id"}, Description: "Replies to a comment",
		resolve: func(args []string) (string, url.Values, error) {
			return commentRepliesPath(args[0], args[1]), nil, nil
		},
	},
}

// Lists returns the catalogue of paged listings.
func Lists() []ListSpec {
	return append([]ListSpec(nil), catalogue...)
}

// LookupList finds a catalogue entry by name.
func LookupList(name string) (ListSpec, bool) {
	for _, entry := range catalogue {
		if entry.Name == name {
			return entry, true
		}
	}
	return ListSpec{}, false
}

// pagedEndpoint builds the endpoint for a catalogue entry.
func pagedEndpoint[T any](a *API, name string, args ...string) (*client.PagedEndpoint[T], error) {
	entry, ok := LookupList(name)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownList, name)
	}
	if len(args) != len(entry.Args) {
		return nil, fmt.Errorf("%w: list %s takes %d argument(s) (%s), got %d", ErrListArgs, name, len(entry.Args), entry.Usage(), len(args))
	}

	path, query, err := entry.resolve(args)
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %w", ErrListArgs, name, err)
	}

	endpoint := client.NewPagedEndpoint[T](a.client, path, entry.Key)
	endpoint.Name = entry.Name
	endpoint.Query = query
	endpoint.Options = a.options
	return endpoint, nil
}

func collectList[T any](ctx context.Context, a *API, limit pagination.Limit, name string, args ...string) ([]T, error) {
	endpoint, err := pagedEndpoint[T](a, name, args...)
	if err != nil {
		return nil, err
	}
	return pagination.Collect[T](ctx, endpoint, limit)
}

// Paged returns the raw endpoint of a catalogue entry, for callers that need
// to set request options or drive pagination themselves.
func (a *API) Paged(name string, args ...string) (*client.PagedEndpoint[json.RawMessage], error) {
	return pagedEndpoint[json.RawMessage](a, name, args...)
}

// List collects a catalogue listing as raw JSON items.
func (a *API) List(ctx context.Context, name string, args []string, limit pagination.Limit) ([]json.RawMessage, error) {
	return collectList[json.RawMessage](ctx, a, limit, name, args...)
}
