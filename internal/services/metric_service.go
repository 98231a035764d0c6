package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-health-backend/internal/domain"
	"github.com/tbourn/go-health-backend/internal/repo"
)

// MetricInput is one health metric sample.
type MetricInput struct {
	Type       string
	Value      float64
	Unit       *string
	RecordedAt *time.Time
	Notes      *string
}

// MetricQuery filters a metric listing. Zero values mean "no constraint";
// Limit is clamped to the service's bounds.
type MetricQuery struct {
	Type  string
	Since *time.Time
	Until *time.Time
	Limit int
}

// MetricService records and lists health metrics.
type MetricService struct {
	DB *gorm.DB

	DefaultLimit int
	MaxLimit     int
}

// NewMetricService constructs a MetricService with listing bounds 100/1000.
func NewMetricService(db *gorm.DB) *MetricService {
	return &MetricService{DB: db, DefaultLimit: 100, MaxLimit: 1000}
}

// Record validates and appends a sample. Well-known metric types get their
// canonical unit when the caller sends none.
func (s *MetricService) Record(ctx context.Context, userID uint, in MetricInput) (*domain.HealthMetric, error) {
	kind := metricKey(in.Type)
	if kind == "" {
		return nil, invalid("metric_type", "is required")
	}
	if len(kind) > 64 {
		return nil, invalid("metric_type", "is too long")
	}
	if err := finite("value", in.Value); err != nil {
		return nil, err
	}
	unit := optionalText(in.Unit)
	if unit == nil {
		if u, ok := domain.MetricUnits[kind]; ok {
			unit = &u
		}
	}
	if err := ensureUser(ctx, s.DB, userID); err != nil {
		return nil, err
	}

	m := &domain.HealthMetric{
		UserID:     userID,
		MetricType: kind,
		Value:      in.Value,
		Unit:       unit,
		Notes:      optionalText(in.Notes),
	}
	if in.RecordedAt != nil {
		m.RecordedAt = in.RecordedAt.UTC()
	}
	if err := repo.CreateHealthMetric(ctx, s.DB, m); err != nil {
		return nil, err
	}
	return m, nil
}

// List returns the user's samples newest first.
func (s *MetricService) List(ctx context.Context, userID uint, q MetricQuery) ([]domain.HealthMetric, error) {
	if q.Since != nil && q.Until != nil && q.Until.Before(*q.Since) {
		return nil, invalid("until", "is before since")
	}
	return repo.FindHealthMetricsByUserID(ctx, s.DB, userID, repo.MetricFilter{
		Type:  metricKey(q.Type),
		Since: q.Since,
		Until: q.Until,
		Limit: clampLimit(q.Limit, s.DefaultLimit, s.MaxLimit),
	})
}

// metricKey lower-cases a metric type and joins its words with underscores,
// so "Heart Rate" and "heart_rate" are the same series.
func metricKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(normalizeText(s)), " ", "_")
}
