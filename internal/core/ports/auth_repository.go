package ports

import (
	"context"
	"time"

	"github.com/yamdb/api-yamdb/internal/core/domain"
)

// UserRepository persists identities. Username and email are unique; a
// violating Create or Update returns an error wrapping domain.ErrConflict.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	// Delete removes the identity together with its reviews and comments.
	Delete(ctx context.Context, id string) error

	// MarkCodeIssued moves CodeIssuedAt from prev to at. It returns an error
	// wrapping domain.ErrConflict when CodeIssuedAt no longer holds prev.
	MarkCodeIssued(ctx context.Context, id string, prev, at time.Time) error

	// ConsumeCode atomically activates the identity, moves LastLogin to now and
	// clears CodeIssuedAt, provided LastLogin and CodeIssuedAt still hold the
	// values the code was derived from. It returns domain.ErrInvalidCredential
	// when another redemption got there first.
	ConsumeCode(ctx context.Context, id string, lastLogin, codeIssuedAt, now time.Time) error
}
