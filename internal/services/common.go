package services

import (
	"context"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-health-backend/internal/domain"
	"github.com/tbourn/go-health-backend/internal/repo"
)

// ClockLayout is the wire form of times of day ("07:30").
const ClockLayout = "15:04"

// ensureUser returns ErrUserNotFound unless userID exists.
func ensureUser(ctx context.Context, db *gorm.DB, userID uint) error {
	u, err := repo.FindUserByID(ctx, db, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}
	return nil
}

// parseClock validates a zero-padded 24h "HH:MM" value.
func parseClock(field, s string) (string, error) {
	if len(s) != len(ClockLayout) {
		return "", invalid(field, "must be HH:MM")
	}
	if _, err := time.Parse(ClockLayout, s); err != nil {
		return "", invalid(field, "must be HH:MM")
	}
	return s, nil
}

func parseDate(field, s string) (domain.Date, error) {
	d, err := domain.ParseDate(s)
	if err != nil {
		return "", invalid(field, "must be YYYY-MM-DD")
	}
	return d, nil
}

// parseOptionalDate treats nil and blank as "not set".
func parseOptionalDate(field string, s *string) (*domain.Date, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := parseDate(field, *s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// checkRange rejects end dates before start dates. Either bound may be nil.
func checkRange(field string, start, end *domain.Date) error {
	if start != nil && end != nil && *end < *start {
		return invalid(field, "ends before it starts")
	}
	return nil
}

func finite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return invalid(field, "must be a finite number")
	}
	return nil
}

// clampLimit applies def when n <= 0 and caps n at max.
func clampLimit(n, def, max int) int {
	if n <= 0 {
		n = def
	}
	if max > 0 && n > max {
		n = max
	}
	return n
}
