package ports

import (
	"context"

	"github.com/virtual-artifact/social-api/internal/core/domain"
)

// CreatePostInput carries all data needed to create a post.
type CreatePostInput struct {
	Owner *domain.User
	Body  string
	// Prompt, when non-empty, schedules image enrichment for the new post.
	Prompt string
	// PostURLBase is the absolute URL prefix the post id is appended to when
	// linking the post from notification emails.
	PostURLBase string
}

type CreateCommentInput struct {
	Owner  *domain.User
	PostID int64
	Body   string
}

// PostService defines use-case operations for posts, comments and likes.
type PostService interface {
	CreatePost(ctx context.Context, input CreatePostInput) (*domain.Post, error)
	ListPosts(ctx context.Context, sorting domain.PostSorting) ([]domain.PostWithLikes, error)
	GetPostWithComments(ctx context.Context, postID int64) (*domain.PostWithComments, error)
	CommentsOnPost(ctx context.Context, postID int64) ([]domain.Comment, error)
	CreateComment(ctx context.Context, input CreateCommentInput) (*domain.Comment, error)
	LikePost(ctx context.Context, owner *domain.User, postID int64) (*domain.Like, error)
}
