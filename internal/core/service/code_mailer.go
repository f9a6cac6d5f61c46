package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yamdb/api-yamdb/internal/core/domain"
	"github.com/yamdb/api-yamdb/internal/core/ports"
	"github.com/yamdb/api-yamdb/internal/pkg/metrics"
)

const codeSubject = "YaMDB confirmation code"

// CodeMailer composes confirmation mails and hands them to the mail queue.
// Repeats of one code to one address inside the throttle window are held
// back; a newly issued code always goes out.
type CodeMailer struct {
	queue    ports.MailQueue
	throttle ports.MailThrottle
	from     string
	log      zerolog.Logger
}

// NewCodeMailer returns a CodeMailer. throttle may be nil.
func NewCodeMailer(queue ports.MailQueue, throttle ports.MailThrottle, from string, log zerolog.Logger) *CodeMailer {
	return &CodeMailer{queue: queue, throttle: throttle, from: from, log: log}
}

func (m *CodeMailer) SendCode(ctx context.Context, user *domain.User, code string) {
	if m.throttle != nil {
		ok, err := m.throttle.Allow(ctx, user.Email, user.CodeIssuedAt)
		switch {
		case err != nil:
			m.log.Warn().Err(err).Str("username", user.Username).Msg("mail throttle unavailable, sending anyway")
		case !ok:
			metrics.ConfirmationMailsTotal.WithLabelValues("throttled").Inc()
			m.log.Debug().Str("username", user.Username).Msg("confirmation mail held back by cooldown")
			return
		}
	}

	m.queue.Enqueue(domain.Mail{
		From:    m.from,
		To:      user.Email,
		Subject: codeSubject,
		Body:    fmt.Sprintf("Hello, %s!\n\nYour confirmation code: %s\n", user.Username, code),
	})
	metrics.ConfirmationMailsTotal.WithLabelValues("queued").Inc()
}
