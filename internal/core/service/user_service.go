package service

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/yamdb/api-yamdb/internal/core/domain"
	"github.com/yamdb/api-yamdb/internal/core/ports"
)

type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger, now: time.Now}
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Create registers an identity on an admin's behalf. The identity stays
// inactive until it redeems a code requested through signup.
func (s *UserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	if err := domain.ValidateUsername(in.Username); err != nil {
		return nil, err
	}
	if err := domain.ValidateEmail(in.Email); err != nil {
		return nil, err
	}
	if err := validateNames(&in.FirstName, &in.LastName); err != nil {
		return nil, err
	}

	role := domain.RoleUser
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, domain.NewFieldError("role", "unknown role")
		}
		role = *in.Role
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	user, err := s.repo.Create(ctx, &domain.User{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Bio:       in.Bio,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, passConflict("create user", err)
	}

	s.logger.Info().Str("username", user.Username).Str("role", user.Role.String()).Msg("user created")
	return user, nil
}

func (s *UserService) Get(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, passNotFound("get user", err)
	}
	return user, nil
}

// Update applies an admin's partial update, role included.
func (s *UserService) Update(ctx context.Context, username string, in ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, passNotFound("update user", err)
	}
	return s.apply(ctx, user, in)
}

func (s *UserService) Delete(ctx context.Context, username string) error {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return passNotFound("delete user", err)
	}
	if err := s.repo.Delete(ctx, user.ID); err != nil {
		return passNotFound("delete user", err)
	}
	s.logger.Info().Str("username", username).Msg("user deleted")
	return nil
}

// UpdateSelf applies in to the actor's own profile. A supplied role is dropped
// so the stored role survives.
func (s *UserService) UpdateSelf(ctx context.Context, actor *domain.User, in ports.UpdateUserInput) (*domain.User, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	user, err := s.repo.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, passNotFound("update self", err)
	}
	in.Role = nil
	return s.apply(ctx, user, in)
}

func (s *UserService) apply(ctx context.Context, user *domain.User, in ports.UpdateUserInput) (*domain.User, error) {
	if in.Username != nil {
		if err := domain.ValidateUsername(*in.Username); err != nil {
			return nil, err
		}
		user.Username = *in.Username
	}
	if in.Email != nil {
		if err := domain.ValidateEmail(*in.Email); err != nil {
			return nil, err
		}
		user.Email = *in.Email
	}
	if err := validateNames(in.FirstName, in.LastName); err != nil {
		return nil, err
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, domain.NewFieldError("role", "unknown role")
		}
		user.Role = *in.Role
	}
	user.UpdatedAt = s.now().UTC().Truncate(time.Millisecond)

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, passConflict("update user", err)
	}
	return updated, nil
}

func validateNames(first, last *string) error {
	if first != nil && utf8.RuneCountInString(*first) > domain.MaxNameLen {
		return domain.NewFieldError("first_name", "must be at most 150 characters")
	}
	if last != nil && utf8.RuneCountInString(*last) > domain.MaxNameLen {
		return domain.NewFieldError("last_name", "must be at most 150 characters")
	}
	return nil
}
