package reddit

import "time"

// Account is the subset of a user's about data the persona needs.
type Account struct {
	Name         string
	Created      time.Time
	LinkKarma    int
	CommentKarma int
	Verified     bool
}

// thing mirrors Reddit's {"kind": ..., "data": {...}} envelope.
type thing[T any] struct {
	Kind string `json:"kind"`
	Data T      `json:"data"`
}

// listing mirrors a Listing response; children are returned newest first
// when requested with sort=new.
type listing[T any] struct {
	Data struct {
		Children []thing[T] `json:"children"`
		After    string     `json:"after"`
	} `json:"data"`
}

type aboutData struct {
	Name             string  `json:"name"`
	CreatedUTC       float64 `json:"created_utc"`
	LinkKarma        int     `json:"link_karma"`
	CommentKarma     int     `json:"comment_karma"`
	HasVerifiedEmail *bool   `json:"has_verified_email"`
	IsSuspended      bool    `json:"is_suspended"`
}

type postData struct {
	Title     string `json:"title"`
	SelfText  string `json:"selftext"`
	Permalink string `json:"permalink"`
	Subreddit string `json:"subreddit"`
}

type commentData struct {
	Body      string `json:"body"`
	Permalink string `json:"permalink"`
	Subreddit string `json:"subreddit"`
}

type trophyList struct {
	Data struct {
		Trophies []thing[struct {
			Name string `json:"name"`
		}] `json:"trophies"`
	} `json:"data"`
}
