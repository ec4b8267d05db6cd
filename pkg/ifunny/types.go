package ifunny

import "encoding/json"

// User is an iFunny profile. Only commonly used fields are decoded.
type User struct {
	ID         string    `json:"id"`
	Nick       string    `json:"nick"`
	About      string    `json:"about,omitempty"`
	IsVerified bool      `json:"is_verified"`
	IsBanned   bool      `json:"is_banned"`
	IsPrivate  bool      `json:"is_private"`
	Num        UserStats `json:"num"`
}

// UserStats are a profile's counters.
type UserStats struct {
	Subscriptions int `json:"subscriptions"`
	Subscribers   int `json:"subscribers"`
	TotalPosts    int `json:"total_posts"`
	Featured      int `json:"featured"`
	TotalSmiles   int `json:"total_smiles"`
}

// Post is a piece of iFunny content.
type Post struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	URL         string    `json:"url"`
	Link        string    `json:"link,omitempty"`
	Title       string    `json:"title,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	State       string    `json:"state,omitempty"`
	Visibility  string    `json:"visibility,omitempty"`
	IsFeatured  bool      `json:"is_featured"`
	IsSmiled    bool      `json:"is_smiled"`
	IsUnsmiled  bool      `json:"is_unsmiled"`
	PublishedAt int64     `json:"published_at,omitempty"`
	Creator     *User     `json:"creator,omitempty"`
	Num         PostStats `json:"num"`
}

// PostStats are a post's counters.
type PostStats struct {
	Smiles      int `json:"smiles"`
	Unsmiles    int `json:"unsmiles"`
	Comments    int `json:"comments"`
	Republished int `json:"republished"`
	Views       int `json:"views"`
}

// Comment is a comment or reply on a post.
type Comment struct {
	ID       string       `json:"id"`
	CID      string       `json:"cid,omitempty"`
	Text     string       `json:"text"`
	State    string       `json:"state,omitempty"`
	Date     int64        `json:"date,omitempty"`
	IsReply  bool         `json:"is_reply"`
	IsSmiled bool         `json:"is_smiled"`
	User     *User        `json:"user,omitempty"`
	Num      CommentStats `json:"num"`
}

// CommentStats are a comment's counters.
type CommentStats struct {
	Smiles   int `json:"smiles"`
	Unsmiles int `json:"unsmiles"`
	Replies  int `json:"replies"`
}

// ChannelInfo describes a channel as listed by the server.
type ChannelInfo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type,omitempty"`
}

// Guest is a visit to a profile.
type Guest struct {
	User           User  `json:"guest"`
	VisitTimestamp int64 `json:"visit_timestamp"`
}

// Activity is one entry of the account's news feed. Its shape depends on
// Type, so the payload is kept raw.
type Activity struct {
	Type    string          `json:"type"`
	Date    int64           `json:"date,omitempty"`
	User    *User           `json:"user,omitempty"`
	Content json.RawMessage `json:"content,omitempty"`
	Comment json.RawMessage `json:"comment,omitempty"`
}
