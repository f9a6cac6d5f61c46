package ports

import (
	"context"
	"time"

	"github.com/yamdb/api-yamdb/internal/core/domain"
)

// AccessToken is the bearer credential handed out after a successful verification.
type AccessToken struct {
	Token     string
	ExpiresAt time.Time
}

// AuthService is the confirmation-code authority.
type AuthService interface {
	// RequestCode registers (or re-identifies) username/email and mails a code.
	RequestCode(ctx context.Context, username, email string) (*domain.User, error)
	// VerifyCode redeems a code for an access token.
	VerifyCode(ctx context.Context, username, code string) (*AccessToken, error)
}

// MailQueue accepts messages for asynchronous delivery.
type MailQueue interface {
	Enqueue(msg domain.Mail)
}

// Mailer delivers a single message.
type Mailer interface {
	Send(ctx context.Context, msg domain.Mail) error
}

// MailThrottle limits how often the same confirmation code is mailed to an
// address. A code is identified by the time it was issued.
type MailThrottle interface {
	// Allow reports whether the code issued at issuedAt may be mailed to addr
	// now and, if so, starts a new cooldown window for that pair.
	Allow(ctx context.Context, addr string, issuedAt time.Time) (bool, error)
}

// CodeSender delivers a confirmation code to the identity's email. Delivery is
// best-effort and never fails the calling request.
type CodeSender interface {
	SendCode(ctx context.Context, user *domain.User, code string)
}
