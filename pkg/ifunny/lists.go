package ifunny

import (
	"context"

	"github.com/Sternrassler/ifunny-client/pkg/pagination"
)

// MyActivity returns the account's news feed.
func (a *API) MyActivity(ctx context.Context, limit pagination.Limit) ([]Activity, error) {
	return collectList[Activity](ctx, a, limit, "my_activity")
}

// MyComments returns the comments written by the account.
func (a *API) MyComments(ctx context.Context, limit pagination.Limit) ([]Comment, error) {
	return collectList[Comment](ctx, a, limit, "my_comments")
}

// MyBlockedUsers returns the users the account has blocked.
func (a *API) MyBlockedUsers(ctx context.Context, limit pagination.Limit) ([]User, error) {
	return collectList[User](ctx, a, limit, "my_blocked_users")
}

// UserSubscribers returns the subscribers of a user.
func (a *API) UserSubscribers(ctx context.Context, userID string, limit pagination.Limit) ([]User, error) {
	return collectList[User](ctx, a, limit, "user_subscribers", userID)
}

// UserSubscriptions returns the users a user subscribes to.
func (a *API) UserSubscriptions(ctx context.Context, userID string, limit pagination.Limit) ([]User, error) {
	return collectList[User](ctx, a, limit, "user_subscriptions", userID)
}

// UserPosts returns the posts of a user, newest first.
func (a *API) UserPosts(ctx context.Context, userID string, limit pagination.Limit) ([]Post, error) {
	return collectList[Post](ctx, a, limit, "user_posts", userID)
}

// UserFeatures returns the featured posts of a user.
func (a *API) UserFeatures(ctx context.Context, userID string, limit pagination.Limit) ([]Post, error) {
	return collectList[Post](ctx, a, limit, "user_features", userID)
}

// UserGuests returns the recent visitors of a profile.
func (a *API) UserGuests(ctx context.Context, userID string, limit pagination.Limit) ([]Guest, error) {
	return collectList[Guest](ctx, a, limit, "user_guests", userID)
}

// ChannelPosts returns the posts of a channel.
func (a *API) ChannelPosts(ctx context.Context, channel Channel, limit pagination.Limit) ([]Post, error) {
	return collectList[Post](ctx, a, limit, "channel_posts", string(channel))
}

// TagPosts returns posts carrying tag.
func (a *API) TagPosts(ctx context.Context, tag string, limit pagination.Limit) ([]Post, error) {
	return collectList[Post](ctx, a, limit, "tag_posts", tag)
}

// PostComments returns the comments on a post.
func (a *API) PostComments(ctx context.Context, postID string, limit pagination.Limit) ([]Comment, error) {
	return collectList[Comment](ctx, a, limit, "post_comments", postID)
}

// PostSmiles returns the users who smiled a post.
func (a *API) PostSmiles(ctx context.Context, postID string, limit pagination.Limit) ([]User, error) {
	return collectList[User](ctx, a, limit, "post_smiles", postID)
}

// PostRepublishers returns the users who republished a post.
func (a *API) PostRepublishers(ctx context.Context, postID string, limit pagination.Limit) ([]User, error) {
	return collectList[User](ctx, a, limit, "post_republishers", postID)
}

// CommentReplies returns the replies to a comment.
func (a *API) CommentReplies(ctx context.Context, postID, commentID string, limit pagination.Limit) ([]Comment, error) {
	return collectList[Comment](ctx, a, limit, "comment_replies", postID, commentID)
}
