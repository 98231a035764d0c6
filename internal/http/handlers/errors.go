// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case and stable; clients branch on them rather
// than on message text. Every error response carries an HTTP status and
// one of these codes.
package handlers

import "github.com/tbourn/go-health-backend/internal/http/middleware"

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeForbidden        = "forbidden"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeRateLimited      = middleware.CodeRateLimited
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"

	// Domain-specific:
	ErrCodeValidation    = "validation_failed"
	ErrCodeAlreadyExists = "already_exists"
	ErrCodeUnavailable   = "unavailable"
)
