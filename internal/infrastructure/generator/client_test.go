package generator

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/virtual-artifact/social-api/internal/core/domain"
)

func TestClient_Generate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "key-123", r.Header.Get("api-key"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "a cat", r.PostForm.Get("text"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"abc","output_url":"https://x/y.jpg"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key-123", zerolog.Nop())
	result, err := c.Generate(context.Background(), "a cat", time.Second)

	require.NoError(t, err)
	assert.Equal(t, "abc", result.ID)
	assert.Equal(t, "https://x/y.jpg", result.OutputURL)
}

func TestClient_Generate_Failures(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantMsg   string
		wantCode  int
		wantParse bool
	}{
		{name: "server error", status: 500, body: `{"err":"boom"}`, wantMsg: "API request failed with status code 500", wantCode: 500},
		{name: "unauthorized", status: 401, body: ``, wantMsg: "API request failed with status code 401", wantCode: 401},
		{name: "not json", status: 200, body: `<html>`, wantMsg: "API response parsing failed", wantParse: true},
		{name: "empty body", status: 200, body: ``, wantMsg: "API response parsing failed", wantParse: true},
		{name: "no output_url", status: 200, body: `{"id":"abc"}`, wantMsg: "API response parsing failed", wantParse: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, "k", zerolog.Nop()).Generate(context.Background(), "p", time.Second)

			var apiErr *domain.GenerationAPIError
			require.True(t, errors.As(err, &apiErr), "expected GenerationAPIError, got %v", err)
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.Equal(t, tt.wantCode, apiErr.StatusCode)
			assert.Equal(t, tt.wantParse, apiErr.Parse)
		})
	}
}

func TestClient_Generate_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewClient(srv.URL, "k", zerolog.Nop()).Generate(context.Background(), "p", 50*time.Millisecond)

	var apiErr *domain.GenerationAPIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
}
