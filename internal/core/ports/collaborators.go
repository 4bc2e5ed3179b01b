package ports

import (
	"context"
	"io"
	"time"

	"github.com/virtual-artifact/social-api/internal/core/domain"
)

// Notifier delivers a plain-text email and returns the provider message id.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) (string, error)
}

// ImageGenerator calls the external generation API. Every failure is a
// *domain.GenerationAPIError.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string, timeout time.Duration) (*domain.GenerationResult, error)
}

// ObjectStore uploads a file and returns its public URL.
type ObjectStore interface {
	Upload(ctx context.Context, name string, body io.Reader, size int64, contentType string) (string, error)
}

// ResendThrottle limits how often a confirmation email may be re-sent.
type ResendThrottle interface {
	// Allow reports whether a send for email may proceed now, and records it.
	Allow(ctx context.Context, email string) (bool, error)
}
