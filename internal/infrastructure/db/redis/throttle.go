package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultResendInterval = 10 * time.Minute

// ResendThrottle allows one confirmation email per address per interval.
// Key format: confirm-resend:<lowercased email>
type ResendThrottle struct {
	client   *redis.Client
	interval time.Duration
}

func NewResendThrottle(client *redis.Client, interval time.Duration) *ResendThrottle {
	if interval <= 0 {
		interval = defaultResendInterval
	}
	return &ResendThrottle{client: client, interval: interval}
}

// Allow claims the send slot for email. It returns false while a previous
// claim is still live.
func (t *ResendThrottle) Allow(ctx context.Context, email string) (bool, error) {
	ok, err := t.client.SetNX(ctx, t.key(email), time.Now().UTC().Unix(), t.interval).Result()
	if err != nil {
		return false, fmt.Errorf("resend throttle: %w", err)
	}
	return ok, nil
}

func (t *ResendThrottle) key(email string) string {
	return "confirm-resend:" + strings.ToLower(email)
}
