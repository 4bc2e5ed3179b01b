package domain

import (
	"errors"
	"time"
)

var ErrPostNotFound = errors.New("post not found")
var ErrUploadFailed = errors.New("failed to upload file")

// PostSorting selects the order of the post listing.
type PostSorting string

const (
	SortNew       PostSorting = "new"
	SortOld       PostSorting = "old"
	SortMostLikes PostSorting = "most_likes"
)

// ParsePostSorting maps a query value to a PostSorting. Empty means SortNew.
func ParsePostSorting(s string) (PostSorting, bool) {
	switch PostSorting(s) {
	case "", SortNew:
		return SortNew, true
	case SortOld:
		return SortOld, true
	case SortMostLikes:
		return SortMostLikes, true
	}
	return "", false
}

// Post is a user's published message. ImageURL is filled in later by the
// enrichment pipeline when the post was created with a prompt.
type Post struct {
	ID        int64     `json:"id" bson:"_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Body      string    `json:"body" bson:"body"`
	ImageURL  string    `json:"image_url,omitempty" bson:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// PostWithLikes is the read model returned by listings.
type PostWithLikes struct {
	Post  `bson:",inline"`
	Likes int64 `json:"likes" bson:"likes"`
}

// PostWithComments is the detail view of a single post.
type PostWithComments struct {
	Post     PostWithLikes `json:"post"`
	Comments []Comment     `json:"comments"`
}

type Comment struct {
	ID        int64     `json:"id" bson:"_id"`
	PostID    int64     `json:"post_id" bson:"post_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Body      string    `json:"body" bson:"body"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

type Like struct {
	ID        int64     `json:"id" bson:"_id"`
	PostID    int64     `json:"post_id" bson:"post_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
