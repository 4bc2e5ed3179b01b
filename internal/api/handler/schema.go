package handler

// detailResponse is the envelope for messages and errors: {"detail": "..."}.
type detailResponse struct {
	Detail string `json:"detail"`
}

// --- Auth ---

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// loginRequest also binds the OAuth2 password form, where the email travels
// as "username".
type loginRequest struct {
	Email    string `json:"email"    form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type resendConfirmationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// --- Posts ---

type createPostRequest struct {
	Body string `json:"body" validate:"required"`
}

type createCommentRequest struct {
	Body   string `json:"body"    validate:"required"`
	PostID int64  `json:"post_id" validate:"required,gt=0"`
}

type likeRequest struct {
	PostID int64 `json:"post_id" validate:"required,gt=0"`
}

// --- Upload ---

type uploadResponse struct {
	Detail  string `json:"detail"`
	FileURL string `json:"file_url"`
}

// --- Health ---

type aliveResponse struct {
	Message string `json:"message"`
}
