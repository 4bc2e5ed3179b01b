package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNotificationService_RegistrationEmail(t *testing.T) {
	notifier := &stubNotifier{}
	svc := NewNotificationService(notifier, zerolog.Nop())

	job := svc.RegistrationJob("jane@example.com", "http://localhost/confirm/tok")
	if job.ShardKey() != "user:jane@example.com" {
		t.Fatalf("unexpected shard key %q", job.ShardKey())
	}
	job.Run(context.Background())

	if len(notifier.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(notifier.sent))
	}
	body := notifier.sent[0].body
	if !strings.HasPrefix(body, "Hi jane@example.com!") || !strings.HasSuffix(body, "http://localhost/confirm/tok") {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestNotificationService_EnrichmentFailedUsesErrorMessage(t *testing.T) {
	notifier := &stubNotifier{}
	svc := NewNotificationService(notifier, zerolog.Nop())

	svc.SendEnrichmentFailed(context.Background(), "jane@example.com", errors.New("API request failed with status code 502"))

	if got := notifier.sent[0].body; got != "API request failed with status code 502" {
		t.Fatalf("unexpected body %q", got)
	}
}

func TestNotificationService_SendFailureDoesNotPanic(t *testing.T) {
	notifier := &stubNotifier{err: errors.New("smtp down")}
	svc := NewNotificationService(notifier, zerolog.Nop())

	svc.SendEnrichmentSucceeded(context.Background(), "jane@example.com", "https://x/y.jpg", "")
	if len(notifier.sent) != 0 {
		t.Fatalf("nothing should be recorded on failure")
	}
}
