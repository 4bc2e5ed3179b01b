package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/virtual-artifact/social-api/internal/core/domain"
	"github.com/virtual-artifact/social-api/internal/core/ports"
	"github.com/virtual-artifact/social-api/internal/pkg/metrics"
)

type PostService struct {
	posts      ports.PostRepository
	comments   ports.CommentRepository
	likes      ports.LikeRepository
	jobs       ports.JobScheduler
	enrichment ports.EnrichmentJobBuilder
	logger     zerolog.Logger
}

func NewPostService(
	posts ports.PostRepository,
	comments ports.CommentRepository,
	likes ports.LikeRepository,
	jobs ports.JobScheduler,
	enrichment ports.EnrichmentJobBuilder,
	logger zerolog.Logger,
) *PostService {
	return &PostService{
		posts:      posts,
		comments:   comments,
		likes:      likes,
		jobs:       jobs,
		enrichment: enrichment,
		logger:     logger,
	}
}

// CreatePost stores the post and, when a prompt is given, schedules image
// enrichment. The post is returned before the image exists.
func (s *PostService) CreatePost(ctx context.Context, input ports.CreatePostInput) (*domain.Post, error) {
	post := &domain.Post{
		UserID:    input.Owner.ID,
		Body:      input.Body,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	prompt := strings.TrimSpace(input.Prompt)
	metrics.PostsCreatedTotal.WithLabelValues(strconv.FormatBool(prompt != "")).Inc()

	if prompt != "" {
		s.jobs.Schedule(s.enrichment.Job(domain.EnrichmentJob{
			OwnerEmail: input.Owner.Email,
			PostID:     post.ID,
			PostURL:    input.PostURLBase + strconv.FormatInt(post.ID, 10),
			Prompt:     prompt,
		}))
		s.logger.Info().Int64("post_id", post.ID).Msg("post created, image enrichment scheduled")
	}

	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context, sorting domain.PostSorting) ([]domain.PostWithLikes, error) {
	posts, err := s.posts.List(ctx, sorting)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []domain.PostWithLikes{}
	}
	return posts, nil
}

func (s *PostService) GetPostWithComments(ctx context.Context, postID int64) (*domain.PostWithComments, error) {
	post, err := s.posts.FindWithLikes(ctx, postID)
	if err != nil {
		return nil, err
	}
	comments, err := s.CommentsOnPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &domain.PostWithComments{Post: *post, Comments: comments}, nil
}

// CommentsOnPost lists comments oldest first. An unknown post has no
// comments rather than being an error.
func (s *PostService) CommentsOnPost(ctx context.Context, postID int64) ([]domain.Comment, error) {
	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	return comments, nil
}

func (s *PostService) CreateComment(ctx context.Context, input ports.CreateCommentInput) (*domain.Comment, error) {
	if _, err := s.posts.FindByID(ctx, input.PostID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		PostID:    input.PostID,
		UserID:    input.Owner.ID,
		Body:      input.Body,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *PostService) LikePost(ctx context.Context, owner *domain.User, postID int64) (*domain.Like, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, err
	}

	like := &domain.Like{
		PostID:    postID,
		UserID:    owner.ID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.likes.Create(ctx, like); err != nil {
		return nil, err
	}
	return like, nil
}
