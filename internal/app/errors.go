package app

import (
	"errors"
	"fmt"

	"palmnazi/internal/domain"
)

// ErrTooManyAttempts is returned by Login while the limiter is exhausted.
var ErrTooManyAttempts = errors.New("too many login attempts")

// storeErr keeps ErrNotFound as is and tags everything else as a persistence failure.
func storeErr(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrPersistence, err)
}
