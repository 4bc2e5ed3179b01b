// Package generator calls the external image generation API.
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/virtual-artifact/social-api/internal/core/domain"
)

const (
	DefaultURL     = "https://api.deepai.org/api/cute-creature-generator"
	defaultTimeout = 60 * time.Second
	maxBodyBytes   = 1 << 20
)

// Client posts a prompt as form field "text" and authenticates with the
// "api-key" header.
type Client struct {
	url    string
	apiKey string
	http   *http.Client
	log    zerolog.Logger
}

func NewClient(endpoint, apiKey string, log zerolog.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultURL
	}
	return &Client{
		url:    endpoint,
		apiKey: apiKey,
		http:   &http.Client{},
		log:    log,
	}
}

// Generate requests an image for prompt. The call is bounded by timeout
// (60s when zero). Every failure is a *domain.GenerationAPIError.
func (c *Client) Generate(ctx context.Context, prompt string, timeout time.Duration) (*domain.GenerationResult, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	form := url.Values{"text": {prompt}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &domain.GenerationAPIError{Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("api-key", c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.GenerationAPIError{Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug().
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("generator responded")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &domain.GenerationAPIError{StatusCode: resp.StatusCode}
	}

	var result domain.GenerationResult
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&result); err != nil {
		return nil, domain.NewParseError(fmt.Errorf("decode response: %w", err))
	}
	if result.OutputURL == "" {
		return nil, domain.NewParseError(errors.New("response has no output_url"))
	}
	return &result, nil
}
