package email

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/virtual-artifact/social-api/pkg/logger"
)

// LogNotifier writes emails to the log instead of sending them. Used in
// development and whenever SES is not configured.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Send(_ context.Context, to, subject, body string) (string, error) {
	id := uuid.NewString()
	n.log.Info().
		Str("message_id", id).
		Str("to", logger.ObfuscateEmail(to)).
		Str("subject", subject).
		Str("body", body).
		Msg("email not sent, delivery disabled")
	return id, nil
}
