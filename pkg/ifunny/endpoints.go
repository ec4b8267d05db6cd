package ifunny

import (
	"fmt"
	"net/url"
)

// API paths, relative to client.DefaultBaseURL.
const (
	pathAccount          = "/account"
	pathRevoke           = "/oauth2/revoke"
	pathChannels         = "/channels"
	pathMyActivity       = "/news/my"
	pathMyBlockedUsers   = "/users/my/blocked"
	pathMyComments       = "/users/my/comments"
	pathSearchPosts      = "/search/content"
	pathFeaturedFeed     = "/feeds/featured"
	pathCollectiveFeed   = "/feeds/collective"
	pathSubscriptionFeed = "/timelines/home"
	pathPopularFeed      = "/feeds/popular"
	pathUpload           = "/content"
	pathNickAvailable    = "/users/nicks_available"
	pathEmailAvailable   = "/users/emails_available"
)

func seg(s string) string {
	return url.PathEscape(s)
}

func userPath(id string) string            { return "/users/" + seg(id) }
func userByNickPath(nick string) string    { return "/users/by_nick/" + seg(nick) }
func userSubscribersPath(id string) string { return userPath(id) + "/subscribers" }
func userSubscriptionsPath(id string) string {
	return userPath(id) + "/subscriptions"
}
func userGuestsPath(id string) string   { return userPath(id) + "/guests" }
func userReportPath(id string) string   { return userPath(id) + "/abuses" }
func blockUserPath(id string) string    { return pathMyBlockedUsers + "/" + seg(id) }
func userPostsPath(id string) string    { return "/timelines/users/" + seg(id) }
func userFeaturesPath(id string) string { return userPostsPath(id) + "/featured" }

func channelPostsPath(id string) string { return "/channels/" + seg(id) + "/items" }

func postPath(id string) string            { return "/content/" + seg(id) }
func postCommentsPath(id string) string    { return postPath(id) + "/comments" }
func postSmilesPath(id string) string      { return postPath(id) + "/smiles" }
func postUnsmilesPath(id string) string    { return postPath(id) + "/unsmiles" }
func postRepublishedPath(id string) string { return postPath(id) + "/republished" }
func postPinnedPath(id string) string      { return postPath(id) + "/pinned" }
func postReportPath(id string) string      { return postPath(id) + "/abuses" }

func commentPath(postID, commentID string) string {
	return postCommentsPath(postID) + "/" + seg(commentID)
}
func commentRepliesPath(postID, commentID string) string {
	return commentPath(postID, commentID) + "/replies"
}
func commentSmilesPath(postID, commentID string) string {
	return commentPath(postID, commentID) + "/smiles"
}
func commentUnsmilesPath(postID, commentID string) string {
	return commentPath(postID, commentID) + "/unsmiles"
}
func commentReportPath(postID, commentID string) string {
	return commentPath(postID, commentID) + "/abuses"
}

func readsPath(postID string) string { return "/reads/" + seg(postID) }

func digestPath(year, month, day int) string {
	return fmt.Sprintf("/digests/%d-%02d-%02d", year, month, day)
}
