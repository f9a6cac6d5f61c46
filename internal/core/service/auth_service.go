package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/yamdb/api-yamdb/internal/core/confirm"
	"github.com/yamdb/api-yamdb/internal/core/domain"
	"github.com/yamdb/api-yamdb/internal/core/ports"
	"github.com/yamdb/api-yamdb/internal/pkg/metrics"
	"github.com/yamdb/api-yamdb/internal/pkg/token"
)

// AuthService implements signup by confirmation code and code redemption.
type AuthService struct {
	repo   ports.UserRepository
	codes  *confirm.Generator
	tokens *token.Issuer
	sender ports.CodeSender
	log    zerolog.Logger
	now    func() time.Time
}

func NewAuthService(
	repo ports.UserRepository,
	codes *confirm.Generator,
	tokens *token.Issuer,
	sender ports.CodeSender,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		repo:   repo,
		codes:  codes,
		tokens: tokens,
		sender: sender,
		log:    log,
		now:    time.Now,
	}
}

// RequestCode validates the pair, creates a dormant identity on first contact
// and mails the current confirmation code.
func (s *AuthService) RequestCode(ctx context.Context, username, email string) (*domain.User, error) {
	if err := domain.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := domain.ValidateEmail(email); err != nil {
		return nil, err
	}

	user, err := s.resolveSignup(ctx, username, email)
	if err != nil {
		return nil, err
	}

	user, outcome, err := s.issueCode(ctx, user)
	if err != nil {
		return nil, err
	}

	s.sender.SendCode(ctx, user, s.codes.Make(user))
	metrics.ConfirmationCodesTotal.WithLabelValues(outcome).Inc()
	s.log.Info().Str("username", user.Username).Str("outcome", outcome).Msg("confirmation code requested")

	return user, nil
}

const maxIssueAttempts = 3

// issueCode stamps a new issuance time when user has no live code. When a
// concurrent request stamps first, the identity is re-read and the code that
// request issued is the one mailed.
func (s *AuthService) issueCode(ctx context.Context, user *domain.User) (*domain.User, string, error) {
	for attempt := 0; attempt < maxIssueAttempts; attempt++ {
		now := s.stamp()
		if !s.codes.NeedsIssue(user, now) {
			return user, "reissued", nil
		}

		err := s.repo.MarkCodeIssued(ctx, user.ID, user.CodeIssuedAt, now)
		if err == nil {
			user.CodeIssuedAt = now
			return user, "issued", nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return nil, "", fmt.Errorf("request code: %w", err)
		}

		s.log.Debug().Str("username", user.Username).Msg("code issued concurrently, reloading")
		if user, err = s.repo.FindByID(ctx, user.ID); err != nil {
			return nil, "", fmt.Errorf("request code: %w", err)
		}
	}
	return nil, "", fmt.Errorf("request code: issuance kept racing: %w", domain.ErrConflict)
}

// resolveSignup returns the identity owning exactly (username, email),
// creating it when neither value is taken.
func (s *AuthService) resolveSignup(ctx context.Context, username, email string) (*domain.User, error) {
	existing, err := s.repo.FindByUsername(ctx, username)
	switch {
	case err == nil:
		if existing.Email != email {
			return nil, domain.ErrUsernameTaken
		}
		return existing, nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("request code: %w", err)
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("request code: %w", err)
	}

	now := s.stamp()
	created, err := s.repo.Create(ctx, &domain.User{
		Username:  username,
		Email:     email,
		Role:      domain.RoleUser,
		IsActive:  false,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("request code: %w", err)
	}
	return created, nil
}

// VerifyCode redeems code for username. A redeemed code never verifies again.
func (s *AuthService) VerifyCode(ctx context.Context, username, code string) (*ports.AccessToken, error) {
	if username == "" {
		return nil, domain.NewFieldError("username", "is required")
	}
	if code == "" {
		return nil, domain.NewFieldError("confirmation_code", "is required")
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.VerificationsTotal.WithLabelValues("not_found").Inc()
			return nil, err
		}
		return nil, fmt.Errorf("verify code: %w", err)
	}

	now := s.stamp()
	if !s.codes.Check(user, code, now) {
		metrics.VerificationsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.ErrInvalidCredential
	}

	if err := s.repo.ConsumeCode(ctx, user.ID, user.LastLogin, user.CodeIssuedAt, now); err != nil {
		if errors.Is(err, domain.ErrInvalidCredential) {
			metrics.VerificationsTotal.WithLabelValues("invalid").Inc()
			return nil, err
		}
		return nil, fmt.Errorf("verify code: %w", err)
	}

	signed, exp, err := s.tokens.Issue(user.ID, user.EffectiveRole())
	if err != nil {
		return nil, fmt.Errorf("verify code: %w", err)
	}

	metrics.VerificationsTotal.WithLabelValues("ok").Inc()
	s.log.Info().Str("username", user.Username).Msg("confirmation code redeemed")

	return &ports.AccessToken{Token: signed, ExpiresAt: exp}, nil
}

// stamp returns the current time at the precision the store keeps.
func (s *AuthService) stamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}
