package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/virtual-artifact/social-api/internal/core/ports"
	"github.com/virtual-artifact/social-api/internal/pkg/metrics"
	"github.com/virtual-artifact/social-api/pkg/logger"
)

const (
	subjectRegistration        = "Successfully signed up"
	subjectEnrichmentFailed    = "Cute API request failed"
	subjectEnrichmentSucceeded = "Cute API request succeeded"
)

// NotificationService renders the outgoing emails and hands them to the
// Notifier. Delivery failures are logged and swallowed: every caller runs
// in the background and has nobody to report to.
type NotificationService struct {
	notifier ports.Notifier
	log      zerolog.Logger
}

func NewNotificationService(notifier ports.Notifier, log zerolog.Logger) *NotificationService {
	return &NotificationService{notifier: notifier, log: log}
}

func (s *NotificationService) SendRegistration(ctx context.Context, email, confirmURL string) {
	body := fmt.Sprintf("Hi %s! You have successfully signed up to the Service ReST API. "+
		"Please confirm your email by clicking on the following link: %s", email, confirmURL)
	s.send(ctx, "registration", email, subjectRegistration, body)
}

// SendEnrichmentFailed reports a failed enrichment; the body is the error
// message, which for API failures carries the upstream status code.
func (s *NotificationService) SendEnrichmentFailed(ctx context.Context, email string, cause error) {
	s.send(ctx, "enrichment_failed", email, subjectEnrichmentFailed, cause.Error())
}

func (s *NotificationService) SendEnrichmentSucceeded(ctx context.Context, email, imageURL, postURL string) {
	body := fmt.Sprintf("Hi %s! The image for your post is ready: %s", email, imageURL)
	if postURL != "" {
		body += fmt.Sprintf("\n\nSee it on your post: %s", postURL)
	}
	s.send(ctx, "enrichment_succeeded", email, subjectEnrichmentSucceeded, body)
}

func (s *NotificationService) send(ctx context.Context, kind, to, subject, body string) {
	log := s.log.With().Str("kind", kind).Str("to", logger.ObfuscateEmail(to)).Logger()

	id, err := s.notifier.Send(ctx, to, subject, body)
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues(kind, "failed").Inc()
		log.Error().Err(err).Msg("failed to send email")
		return
	}
	metrics.NotificationsTotal.WithLabelValues(kind, "sent").Inc()
	log.Debug().Str("message_id", id).Msg("email sent")
}

// RegistrationJob wraps the registration email as a background job so the
// HTTP response does not wait for the mail provider.
func (s *NotificationService) RegistrationJob(email, confirmURL string) ports.BackgroundJob {
	return &registrationEmailJob{mailer: s, email: email, confirmURL: confirmURL}
}

type registrationEmailJob struct {
	mailer     *NotificationService
	email      string
	confirmURL string
}

func (j *registrationEmailJob) ShardKey() string { return "user:" + j.email }

func (j *registrationEmailJob) Run(ctx context.Context) {
	j.mailer.SendRegistration(ctx, j.email, j.confirmURL)
}
