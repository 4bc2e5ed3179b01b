package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/virtual-artifact/social-api/internal/core/domain"
	"github.com/virtual-artifact/social-api/internal/core/ports"
)

// PostHandler serves posts, comments and likes.
type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// CreatePost publishes a post. A non-empty prompt schedules image
// generation; the image URL is attached later.
//
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        prompt  query     string             false  "Image generation prompt"
// @Param        body    body      createPostRequest  true   "Post content"
// @Success      201     {object}  domain.Post
// @Failure      401     {object}  detailResponse
// @Router       /post [post]
func (h *PostHandler) CreatePost(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req createPostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.service.CreatePost(c.Request().Context(), ports.CreatePostInput{
		Owner:       user,
		Body:        req.Body,
		Prompt:      c.QueryParam("prompt"),
		PostURLBase: baseURL(c) + "/post/",
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, post)
}

// ListPosts returns every post with its like count.
//
// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Param        sorting  query  string  false  "new (default), old or most_likes"
// @Success      200      {array}   domain.PostWithLikes
// @Failure      422      {object}  detailResponse
// @Router       /post [get]
func (h *PostHandler) ListPosts(c echo.Context) error {
	sorting, ok := domain.ParsePostSorting(c.QueryParam("sorting"))
	if !ok {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "sorting must be one of: new, old, most_likes")
	}

	posts, err := h.service.ListPosts(c.Request().Context(), sorting)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

// GetPost returns a post with its likes and comments.
//
// @Summary      Get a post
// @Tags         posts
// @Produce      json
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  domain.PostWithComments
// @Failure      404  {object}  detailResponse
// @Router       /post/{id} [get]
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := postIDParam(c)
	if err != nil {
		return err
	}

	post, err := h.service.GetPostWithComments(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// PostComments lists the comments of a post, oldest first.
//
// @Summary      List comments on a post
// @Tags         posts
// @Produce      json
// @Param        id   path   int  true  "Post ID"
// @Success      200  {array}  domain.Comment
// @Router       /post/{id}/comment [get]
func (h *PostHandler) PostComments(c echo.Context) error {
	id, err := postIDParam(c)
	if err != nil {
		return err
	}

	comments, err := h.service.CommentsOnPost(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comments)
}

// CreateComment comments on an existing post.
//
// @Summary      Comment on a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCommentRequest  true  "Comment"
// @Success      201   {object}  domain.Comment
// @Failure      404   {object}  detailResponse
// @Router       /comment [post]
func (h *PostHandler) CreateComment(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req createCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.service.CreateComment(c.Request().Context(), ports.CreateCommentInput{
		Owner:  user,
		PostID: req.PostID,
		Body:   req.Body,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, comment)
}

// LikePost records a like on an existing post.
//
// @Summary      Like a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      likeRequest  true  "Post to like"
// @Success      201   {object}  domain.Like
// @Failure      404   {object}  detailResponse
// @Router       /like [post]
func (h *PostHandler) LikePost(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req likeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	like, err := h.service.LikePost(c.Request().Context(), user, req.PostID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, like)
}

func postIDParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusUnprocessableEntity, "post id must be an integer")
	}
	return id, nil
}
