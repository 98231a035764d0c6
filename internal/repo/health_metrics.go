package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-health-backend/internal/domain"
)

// MetricFilter narrows a metric listing. Zero values mean "no constraint".
type MetricFilter struct {
	Type  string
	Since *time.Time
	Until *time.Time
	Limit int
}

func (f MetricFilter) scopes() []func(*gorm.DB) *gorm.DB {
	var out []func(*gorm.DB) *gorm.DB
	if f.Type != "" {
		out = append(out, func(q *gorm.DB) *gorm.DB { return q.Where("metric_type = ?", f.Type) })
	}
	if f.Since != nil {
		out = append(out, func(q *gorm.DB) *gorm.DB { return q.Where("recorded_at >= ?", f.Since.UTC()) })
	}
	if f.Until != nil {
		out = append(out, func(q *gorm.DB) *gorm.DB { return q.Where("recorded_at <= ?", f.Until.UTC()) })
	}
	if f.Limit > 0 {
		out = append(out, func(q *gorm.DB) *gorm.DB { return q.Limit(f.Limit) })
	}
	return out
}

// CreateHealthMetric appends a sample. RecordedAt defaults to now.
func CreateHealthMetric(ctx context.Context, db *gorm.DB, m *domain.HealthMetric) error {
	if m.RecordedAt.IsZero() {
		m.RecordedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(m).Error
}

// FindHealthMetricsByUserID lists the user's samples newest first, applying
// the filter's type, time window and limit.
func FindHealthMetricsByUserID(ctx context.Context, db *gorm.DB, userID uint, f MetricFilter) ([]domain.HealthMetric, error) {
	out := []domain.HealthMetric{}
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Scopes(f.scopes()...).
		Order("recorded_at desc").Order("id desc").
		Find(&out).Error
	return out, err
}
