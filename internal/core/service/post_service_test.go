package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"testing"

	"github.com/rs/zerolog"

	"github.com/virtual-artifact/social-api/internal/core/domain"
	"github.com/virtual-artifact/social-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubPostRepo struct {
	nextID int64
	posts  map[int64]*domain.Post
	likes  map[int64]int64
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{posts: make(map[int64]*domain.Post), likes: make(map[int64]int64)}
}

func (r *stubPostRepo) Create(_ context.Context, p *domain.Post) error {
	r.nextID++
	p.ID = r.nextID
	clone := *p
	r.posts[p.ID] = &clone
	return nil
}

func (r *stubPostRepo) FindByID(_ context.Context, id int64) (*domain.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubPostRepo) FindWithLikes(ctx context.Context, id int64) (*domain.PostWithLikes, error) {
	p, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.PostWithLikes{Post: *p, Likes: r.likes[id]}, nil
}

func (r *stubPostRepo) List(_ context.Context, sorting domain.PostSorting) ([]domain.PostWithLikes, error) {
	var out []domain.PostWithLikes
	for id, p := range r.posts {
		out = append(out, domain.PostWithLikes{Post: *p, Likes: r.likes[id]})
	}
	sort.Slice(out, func(i, j int) bool {
		switch sorting {
		case domain.SortOld:
			return out[i].ID < out[j].ID
		case domain.SortMostLikes:
			return out[i].Likes > out[j].Likes
		default:
			return out[i].ID > out[j].ID
		}
	})
	return out, nil
}

func (r *stubPostRepo) UpdateImageURL(_ context.Context, id int64, url string) (int64, error) {
	p, ok := r.posts[id]
	if !ok {
		return 0, nil
	}
	p.ImageURL = url
	return 1, nil
}

type stubCommentRepo struct {
	comments []domain.Comment
}

func (r *stubCommentRepo) Create(_ context.Context, c *domain.Comment) error {
	c.ID = int64(len(r.comments) + 1)
	r.comments = append(r.comments, *c)
	return nil
}

func (r *stubCommentRepo) ListByPost(_ context.Context, postID int64) ([]domain.Comment, error) {
	var out []domain.Comment
	for _, c := range r.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

type stubLikeRepo struct {
	posts *stubPostRepo
	err   error
}

func (r *stubLikeRepo) Create(_ context.Context, l *domain.Like) error {
	if r.err != nil {
		return r.err
	}
	r.posts.likes[l.PostID]++
	l.ID = r.posts.likes[l.PostID]
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type postFixture struct {
	svc      *PostService
	posts    *stubPostRepo
	comments *stubCommentRepo
	jobs     *stubScheduler
	gen      *stubGenerator
	notifier *stubNotifier
}

func newPostFixture() *postFixture {
	f := &postFixture{
		posts:    newStubPostRepo(),
		comments: &stubCommentRepo{},
		jobs:     &stubScheduler{},
		gen:      &stubGenerator{result: &domain.GenerationResult{OutputURL: "https://x/y.jpg"}},
		notifier: &stubNotifier{},
	}
	mailer := NewNotificationService(f.notifier, zerolog.Nop())
	pipeline := NewEnrichmentPipeline(f.gen, f.posts, mailer, 0, zerolog.Nop())
	f.svc = NewPostService(f.posts, f.comments, &stubLikeRepo{posts: f.posts}, f.jobs, pipeline, zerolog.Nop())
	return f
}

var owner = &domain.User{ID: "u1", Email: "owner@example.com", Confirmed: true}

// recordingJobBuilder captures enrichment requests without running them.
type recordingJobBuilder struct {
	requests []domain.EnrichmentJob
}

type noopJob struct{ key string }

func (j noopJob) ShardKey() string      { return j.key }
func (j noopJob) Run(_ context.Context) {}

func (b *recordingJobBuilder) Job(job domain.EnrichmentJob) ports.BackgroundJob {
	b.requests = append(b.requests, job)
	return noopJob{key: "post:" + strconv.FormatInt(job.PostID, 10)}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestPostService_CreatePost_WithoutPrompt(t *testing.T) {
	f := newPostFixture()

	post, err := f.svc.CreatePost(context.Background(), ports.CreatePostInput{Owner: owner, Body: "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.ID != 1 || post.UserID != "u1" || post.ImageURL != "" {
		t.Fatalf("unexpected post: %+v", post)
	}
	if len(f.jobs.jobs) != 0 {
		t.Fatalf("no enrichment expected without a prompt")
	}
}

func TestPostService_CreatePost_SchedulesEnrichment(t *testing.T) {
	f := newPostFixture()

	post, err := f.svc.CreatePost(context.Background(), ports.CreatePostInput{
		Owner: owner, Body: "hello", Prompt: "a cat", PostURLBase: "http://localhost/post/",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.ImageURL != "" {
		t.Fatalf("post must be returned before the image exists")
	}
	if len(f.jobs.jobs) != 1 {
		t.Fatalf("expected one job, got %d", len(f.jobs.jobs))
	}

	job, ok := f.jobs.jobs[0].(*enrichmentJob)
	if !ok {
		t.Fatalf("unexpected job type %T", f.jobs.jobs[0])
	}
	want := domain.EnrichmentJob{OwnerEmail: "owner@example.com", PostID: 1, PostURL: "http://localhost/post/1", Prompt: "a cat"}
	if job.job != want {
		t.Fatalf("job = %+v, want %+v", job.job, want)
	}

	f.jobs.runAll(context.Background())
	if f.posts.posts[1].ImageURL != "https://x/y.jpg" {
		t.Fatalf("image not attached after job ran")
	}
	if len(f.notifier.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(f.notifier.sent))
	}
}

func TestPostService_CreatePost_UsesInjectedJobBuilder(t *testing.T) {
	posts := newStubPostRepo()
	jobs := &stubScheduler{}
	builder := &recordingJobBuilder{}
	svc := NewPostService(posts, &stubCommentRepo{}, &stubLikeRepo{posts: posts}, jobs, builder, zerolog.Nop())

	if _, err := svc.CreatePost(context.Background(), ports.CreatePostInput{
		Owner: owner, Body: "hello", Prompt: "  a dog  ", PostURLBase: "https://api.example.com/post/",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.CreatePost(context.Background(), ports.CreatePostInput{Owner: owner, Body: "no prompt"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(builder.requests) != 1 {
		t.Fatalf("expected one enrichment request, got %d", len(builder.requests))
	}
	want := domain.EnrichmentJob{OwnerEmail: "owner@example.com", PostID: 1, PostURL: "https://api.example.com/post/1", Prompt: "a dog"}
	if builder.requests[0] != want {
		t.Fatalf("request = %+v, want %+v", builder.requests[0], want)
	}
	if len(jobs.jobs) != 1 || jobs.jobs[0].ShardKey() != "post:1" {
		t.Fatalf("expected the built job to be scheduled, got %v", jobs.jobs)
	}
}

func TestPostService_ListPosts_Sorting(t *testing.T) {
	f := newPostFixture()
	for i := 0; i < 3; i++ {
		if _, err := f.svc.CreatePost(context.Background(), ports.CreatePostInput{Owner: owner, Body: "p"}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	f.posts.likes[2] = 5

	tests := []struct {
		sorting domain.PostSorting
		first   int64
	}{
		{domain.SortNew, 3},
		{domain.SortOld, 1},
		{domain.SortMostLikes, 2},
	}
	for _, tt := range tests {
		posts, err := f.svc.ListPosts(context.Background(), tt.sorting)
		if err != nil {
			t.Fatalf("%s: %v", tt.sorting, err)
		}
		if len(posts) != 3 || posts[0].ID != tt.first {
			t.Fatalf("%s: expected post %d first, got %+v", tt.sorting, tt.first, posts)
		}
	}
}

func TestPostService_ListPosts_EmptyIsNotNil(t *testing.T) {
	f := newPostFixture()
	posts, err := f.svc.ListPosts(context.Background(), domain.SortNew)
	if err != nil || posts == nil {
		t.Fatalf("expected empty slice, got %v, %v", posts, err)
	}
}

func TestPostService_GetPostWithComments(t *testing.T) {
	f := newPostFixture()
	post, _ := f.svc.CreatePost(context.Background(), ports.CreatePostInput{Owner: owner, Body: "hello"})
	if _, err := f.svc.CreateComment(context.Background(), ports.CreateCommentInput{Owner: owner, PostID: post.ID, Body: "nice"}); err != nil {
		t.Fatalf("comment: %v", err)
	}
	if _, err := f.svc.LikePost(context.Background(), owner, post.ID); err != nil {
		t.Fatalf("like: %v", err)
	}

	got, err := f.svc.GetPostWithComments(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Post.Likes != 1 || len(got.Comments) != 1 || got.Comments[0].Body != "nice" {
		t.Fatalf("unexpected detail view: %+v", got)
	}

	if _, err := f.svc.GetPostWithComments(context.Background(), 99); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestPostService_CommentAndLikeRequireExistingPost(t *testing.T) {
	f := newPostFixture()

	if _, err := f.svc.CreateComment(context.Background(), ports.CreateCommentInput{Owner: owner, PostID: 42, Body: "x"}); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("comment: expected ErrPostNotFound, got %v", err)
	}
	if _, err := f.svc.LikePost(context.Background(), owner, 42); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("like: expected ErrPostNotFound, got %v", err)
	}
	if len(f.comments.comments) != 0 {
		t.Fatalf("nothing should be stored")
	}
}

func TestPostService_CommentsOnUnknownPostIsEmpty(t *testing.T) {
	f := newPostFixture()
	comments, err := f.svc.CommentsOnPost(context.Background(), 42)
	if err != nil || comments == nil || len(comments) != 0 {
		t.Fatalf("expected empty slice, got %v, %v", comments, err)
	}
}
