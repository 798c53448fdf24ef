package services

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error taxonomy. Services wrap these sentinels with context via %w; handlers
// translate them to HTTP statuses with StatusFor.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrCooldown     = errors.New("cooldown active")
	ErrPersistence  = errors.New("persistence failure")
)

func unauthorizedf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrUnauthorized)...)
}

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}

func conflictf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrConflict)...)
}

func notFoundf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

func cooldownf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrCooldown)...)
}

// persistf wraps a store error. The cause is kept in the chain for logs; the
// sentinel is what callers should branch on.
func persistf(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, ErrPersistence)
}

// StatusFor maps a service error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return fiber.StatusForbidden
	case errors.Is(err, ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrCooldown):
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}
