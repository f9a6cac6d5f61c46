package domain

import (
	"regexp"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	MaxUsernameLen = 150
	MaxEmailLen    = 254
	MaxNameLen     = 150
	MaxSlugLen     = 50
	MaxCatalogName = 256

	// ReservedUsername is the path segment of the self-profile endpoint.
	// The match is exact and case-sensitive.
	ReservedUsername = "me"
)

var (
	usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+\-]+$`)
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

	fieldCheck = validator.New()
)

// ValidateUsername enforces the username charset, length and the reserved name.
func ValidateUsername(username string) error {
	switch {
	case username == "":
		return NewFieldError("username", "is required")
	case utf8.RuneCountInString(username) > MaxUsernameLen:
		return NewFieldError("username", "must be at most 150 characters")
	case username == ReservedUsername:
		return NewFieldError("username", `"me" cannot be used as a username`)
	case !usernamePattern.MatchString(username):
		return NewFieldError("username", "may contain only letters, digits and . @ + - _")
	}
	return nil
}

// ValidateEmail checks that email is a bare address of acceptable length.
func ValidateEmail(email string) error {
	if email == "" {
		return NewFieldError("email", "is required")
	}
	if len(email) > MaxEmailLen {
		return NewFieldError("email", "must be at most 254 characters")
	}
	if err := fieldCheck.Var(email, "email"); err != nil {
		return NewFieldError("email", "must be a valid email")
	}
	return nil
}

// ValidSlug reports whether s is usable as a catalog slug.
func ValidSlug(s string) bool {
	return s != "" && len(s) <= MaxSlugLen && slugPattern.MatchString(s)
}
