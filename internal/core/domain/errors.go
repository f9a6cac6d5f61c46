package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrConflict          = errors.New("conflict")
	ErrNotFound          = errors.New("not found")
	ErrInvalidCredential = errors.New("invalid confirmation code")
	ErrUnauthenticated   = errors.New("authentication required")
	ErrForbidden         = errors.New("access forbidden")
)

var (
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrUsernameTaken   = fmt.Errorf("%w: username is registered with another email", ErrConflict)
	ErrEmailTaken      = fmt.Errorf("%w: email is registered with another username", ErrConflict)
	ErrSlugTaken       = fmt.Errorf("%w: slug already exists", ErrConflict)
	ErrReviewExists    = fmt.Errorf("%w: review for this title already exists", ErrConflict)
	ErrTitleNotFound   = fmt.Errorf("title %w", ErrNotFound)
	ErrReviewNotFound  = fmt.Errorf("review %w", ErrNotFound)
	ErrCommentNotFound = fmt.Errorf("comment %w", ErrNotFound)
)

// FieldError is a validation failure bound to a single input field.
type FieldError struct {
	Field   string
	Message string
}

func NewFieldError(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *FieldError) Unwrap() error {
	return ErrValidation
}
