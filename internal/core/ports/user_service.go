package ports

import (
	"context"

	"github.com/yamdb/api-yamdb/internal/core/domain"
)

// CreateUserInput is the admin-side identity creation payload.
type CreateUserInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	Role      *domain.Role
}

// UpdateUserInput carries a partial update; nil fields are left untouched.
type UpdateUserInput struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *domain.Role
}

// UserService manages identities on behalf of admins and of the identities themselves.
type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Create(ctx context.Context, in CreateUserInput) (*domain.User, error)
	Get(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, username string, in UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, username string) error

	// UpdateSelf applies in to actor's own profile. Any role in the input is discarded.
	UpdateSelf(ctx context.Context, actor *domain.User, in UpdateUserInput) (*domain.User, error)
}
