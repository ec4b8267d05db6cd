package ifunny

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Sternrassler/ifunny-client/pkg/client"
)

// act performs a mutation. invalidates names the lookups it makes stale.
func (a *API) act(ctx context.Context, name, method, path string, query, form url.Values, invalidates ...string) error {
	_, err := a.client.Do(ctx, &client.Request{
		Method:      method,
		Path:        path,
		Name:        name,
		Query:       query,
		Form:        form,
		Options:     a.options,
		Invalidates: invalidates,
	})
	return err
}

// Revoke invalidates the client's bearer token and drops its cached lookups.
func (a *API) Revoke(ctx context.Context) error {
	if err := a.act(ctx, "revoke", http.MethodPost, pathRevoke, nil, url.Values{"token": {a.client.Token()}}); err != nil {
		return err
	}
	return a.client.PurgeCache(ctx)
}

// Subscribe subscribes the account to a user.
func (a *API) Subscribe(ctx context.Context, userID string) error {
	return a.act(ctx, "subscribe", http.MethodPut, userSubscribersPath(userID), nil, nil, userPath(userID))
}

// Unsubscribe removes the subscription to a user.
func (a *API) Unsubscribe(ctx context.Context, userID string) error {
	return a.act(ctx, "unsubscribe", http.MethodDelete, userSubscribersPath(userID), nil, nil, userPath(userID))
}

func blockType(allAccounts bool) url.Values {
	if allAccounts {
		return url.Values{"type": {"installation"}}
	}
	return url.Values{"type": {"user"}}
}

// Block blocks a user. allAccounts extends the block to every account on
// the user's installation.
func (a *API) Block(ctx context.Context, userID string, allAccounts bool) error {
	return a.act(ctx, "block", http.MethodPut, blockUserPath(userID), nil, blockType(allAccounts), userPath(userID))
}

// Unblock lifts a block set with the same allAccounts value.
func (a *API) Unblock(ctx context.Context, userID string, allAccounts bool) error {
	return a.act(ctx, "unblock", http.MethodDelete, blockUserPath(userID), nil, blockType(allAccounts), userPath(userID))
}

// ReportUser files an abuse report against a user.
func (a *API) ReportUser(ctx context.Context, userID string, reason ReportType) error {
	return a.act(ctx, "report_user", http.MethodPut, userReportPath(userID), url.Values{"type": {string(reason)}}, nil)
}

// ReportPost files an abuse report against a post.
func (a *API) ReportPost(ctx context.Context, postID string, reason ReportType) error {
	return a.act(ctx, "report_post", http.MethodPut, postReportPath(postID), url.Values{"type": {string(reason)}}, nil)
}

// ReportComment files an abuse report against a comment.
func (a *API) ReportComment(ctx context.Context, postID, commentID string, reason ReportType) error {
	return a.act(ctx, "report_comment", http.MethodPut, commentReportPath(postID, commentID), url.Values{"type": {string(reason)}}, nil)
}

// AddComment posts a comment on a post.
func (a *API) AddComment(ctx context.Context, postID, text string) error {
	return a.act(ctx, "comment", http.MethodPost, postCommentsPath(postID), nil, url.Values{"text": {text}}, postPath(postID))
}

// Reply answers a comment.
func (a *API) Reply(ctx context.Context, postID, commentID, text string) error {
	return a.act(ctx, "reply", http.MethodPost, commentRepliesPath(postID, commentID), nil, url.Values{"text": {text}}, commentPath(postID, commentID))
}

// Pin pins one of the account's posts to its profile.
func (a *API) Pin(ctx context.Context, postID string) error {
	return a.act(ctx, "pin", http.MethodPost, postPinnedPath(postID), nil, nil, postPath(postID))
}

// Unpin removes a pin.
func (a *API) Unpin(ctx context.Context, postID string) error {
	return a.act(ctx, "unpin", http.MethodDelete, postPinnedPath(postID), nil, nil, postPath(postID))
}

// Republish republishes a post to the account's profile.
func (a *API) Republish(ctx context.Context, postID string) error {
	return a.act(ctx, "republish", http.MethodPost, postRepublishedPath(postID), nil, nil, postPath(postID))
}

// Unrepublish removes a republication.
func (a *API) Unrepublish(ctx context.Context, postID string) error {
	return a.act(ctx, "unrepublish", http.MethodDelete, postRepublishedPath(postID), nil, nil, postPath(postID))
}

// SmilePost smiles a post.
func (a *API) SmilePost(ctx context.Context, postID string) error {
	return a.act(ctx, "smile_post", http.MethodPut, postSmilesPath(postID), nil, nil, postPath(postID))
}

// RemoveSmilePost takes back a smile.
func (a *API) RemoveSmilePost(ctx context.Context, postID string) error {
	return a.act(ctx, "remove_smile_post", http.MethodDelete, postSmilesPath(postID), nil, nil, postPath(postID))
}

// UnsmilePost unsmiles a post.
func (a *API) UnsmilePost(ctx context.Context, postID string) error {
	return a.act(ctx, "unsmile_post", http.MethodPost, postUnsmilesPath(postID), nil, nil, postPath(postID))
}

// RemoveUnsmilePost takes back an unsmile.
func (a *API) RemoveUnsmilePost(ctx context.Context, postID string) error {
	return a.act(ctx, "remove_unsmile_post", http.MethodDelete, postUnsmilesPath(postID), nil, nil, postPath(postID))
}

// DeletePost deletes one of the account's posts.
func (a *API) DeletePost(ctx context.Context, postID string) error {
	return a.act(ctx, "delete_post", http.MethodDelete, postPath(postID), nil, nil, postPath(postID))
}

// SmileComment smiles a comment.
func (a *API) SmileComment(ctx context.Context, postID, commentID string) error {
	return a.act(ctx, "smile_comment", http.MethodPut, commentSmilesPath(postID, commentID), nil, nil, commentPath(postID, commentID))
}

// RemoveSmileComment takes back a smile on a comment.
func (a *API) RemoveSmileComment(ctx context.Context, postID, commentID string) error {
	return a.act(ctx, "remove_smile_comment", http.MethodDelete, commentSmilesPath(postID, commentID), nil, nil, commentPath(postID, commentID))
}

// UnsmileComment unsmiles a comment.
func (a *API) UnsmileComment(ctx context.Context, postID, commentID string) error {
	return a.act(ctx, "unsmile_comment", http.MethodPut, commentUnsmilesPath(postID, commentID), nil, nil, commentPath(postID, commentID))
}

// RemoveUnsmileComment takes back an unsmile on a comment.
func (a *API) RemoveUnsmileComment(ctx context.Context, postID, commentID string) error {
	return a.act(ctx, "remove_unsmile_comment", http.MethodDelete, commentUnsmilesPath(postID, commentID), nil, nil, commentPath(postID, commentID))
}

// DeleteComment deletes a comment.
func (a *API) DeleteComment(ctx context.Context, postID, commentID string) error {
	return a.act(ctx, "delete_comment", http.MethodDelete, commentPath(postID, commentID), nil, nil, commentPath(postID, commentID), postPath(postID))
}
