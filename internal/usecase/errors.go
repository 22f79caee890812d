package usecase

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Every error a service returns to the HTTP layer wraps one of these. None of
// them leaves partial writes behind.
var (
	ErrInvalidRatingValue = errors.New("invalid rating value")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrNotAuthorized      = errors.New("not authorized")
	ErrNotFound           = errors.New("not found")
	ErrStorageFailure     = errors.New("storage failure")
	ErrValidation         = errors.New("validation failed")
)

func parseID(kind, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s ID %q", ErrValidation, kind, raw)
	}
	return id, nil
}
