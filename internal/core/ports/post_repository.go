package ports

import (
	"context"

	"github.com/virtual-artifact/social-api/internal/core/domain"
)

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	// Create assigns the post its id and stores it.
	Create(ctx context.Context, p *domain.Post) error
	// FindByID returns domain.ErrPostNotFound when the post does not exist.
	FindByID(ctx context.Context, id int64) (*domain.Post, error)
	// FindWithLikes returns the post together with its like count.
	FindWithLikes(ctx context.Context, id int64) (*domain.PostWithLikes, error)
	List(ctx context.Context, sorting domain.PostSorting) ([]domain.PostWithLikes, error)
	PostImageUpdater
}

// PostImageUpdater is the only write the enrichment pipeline performs.
type PostImageUpdater interface {
	// UpdateImageURL sets image_url on the post and reports how many rows
	// changed. A missing post is not an error; it yields zero.
	UpdateImageURL(ctx context.Context, id int64, url string) (int64, error)
}

type CommentRepository interface {
	Create(ctx context.Context, c *domain.Comment) error
	ListByPost(ctx context.Context, postID int64) ([]domain.Comment, error)
}

type LikeRepository interface {
	Create(ctx context.Context, l *domain.Like) error
}
