package service

import (
	"errors"
	"fmt"

	"github.com/yamdb/api-yamdb/internal/core/domain"
)

// passConflict returns domain conflicts as they are and wraps anything else with op.
func passConflict(op string, err error) error {
	if errors.Is(err, domain.ErrConflict) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

func passNotFound(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
