package mail

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/yamdb/api-yamdb/internal/core/domain"
)

// LogMailer writes every message to the log instead of delivering it.
// It is the development backend.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, msg domain.Mail) error {
	m.log.Info().
		Str("from", msg.From).
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("body", msg.Body).
		Msg("mail")
	return nil
}
