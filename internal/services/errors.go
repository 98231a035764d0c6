// Package services defines the business rules layered over the repo
// package: authentication, input validation and the few derived reads the
// HTTP layer needs. This file centralizes service-level error values so that
// they can be returned consistently by service methods and mapped to HTTP
// results by the handlers.
package services

import (
	"errors"
	"fmt"
)

// Account errors.
var (
	// ErrEmailTaken is returned by Register when the email already belongs to
	// an account.
	ErrEmailTaken = errors.New("user already exists")

	// ErrInvalidCredentials is returned by Login for an unknown email as well
	// as for a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned by ParseToken for malformed, expired or
	// foreign tokens.
	ErrInvalidToken = errors.New("invalid token")

	// ErrUserNotFound indicates the addressed user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrTelegramLinked is returned when a Telegram account is already
	// linked to a different user.
	ErrTelegramLinked = errors.New("telegram account already linked to another user")
)

// Resource errors.
var (
	ErrPlanNotFound      = errors.New("plan not found")
	ErrTaskNotFound      = errors.New("task not found")
	ErrDuplicatePlan     = errors.New("plan already exists for this date, time and title")
	ErrDocumentNotFound  = errors.New("document not found")
	ErrDirectionNotFound = errors.New("health direction not found")
)

// ErrValidation marks input rejected before reaching the store. Use
// errors.Is to detect it; the message carries the offending field.
var ErrValidation = errors.New("validation failed")

func invalid(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrValidation, field, reason)
}
