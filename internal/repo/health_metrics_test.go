package repo

import (
	"context"
	"testing"
	"time"

	"github.com/tbourn/go-health-backend/internal/domain"
)

func TestHealthMetrics_FilterByTypeNewestFirstWithLimit(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()
	u := seedUser(t, db, "metrics@example.com")

	base := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		m := &domain.HealthMetric{UserID: u.ID, MetricType: "weight", Value: 80 - float64(i), RecordedAt: base.Add(time.Duration(i) * 24 * time.Hour)}
		if err := CreateHealthMetric(ctx, db, m); err != nil {
			t.Fatalf("create weight %d: %v", i, err)
		}
	}
	if err := CreateHealthMetric(ctx, db, &domain.HealthMetric{UserID: u.ID, MetricType: "steps", Value: 9000, RecordedAt: base.Add(10 * 24 * time.Hour)}); err != nil {
		t.Fatalf("create steps: %v", err)
	}

	got, err := FindHealthMetricsByUserID(ctx, db, u.ID, MetricFilter{Type: "weight", Limit: 3})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(got))
	}
	for i, m := range got {
		if m.MetricType != "weight" {
			t.Fatalf("filter leaked type %q", m.MetricType)
		}
		if i > 0 && m.RecordedAt.After(got[i-1].RecordedAt) {
			t.Fatalf("samples not newest first: %v after %v", m.RecordedAt, got[i-1].RecordedAt)
		}
	}
	if got[0].Value != 76 {
		t.Fatalf("newest weight should be 76, got %v", got[0].Value)
	}

	all, err := FindHealthMetricsByUserID(ctx, db, u.ID, MetricFilter{})
	if err != nil || len(all) != 6 || all[0].MetricType != "steps" {
		t.Fatalf("unfiltered listing unexpected: %d items, %v", len(all), err)
	}

	since := base.Add(3 * 24 * time.Hour)
	recent, err := FindHealthMetricsByUserID(ctx, db, u.ID, MetricFilter{Type: "weight", Since: &since})
	if err != nil || len(recent) != 2 {
		t.Fatalf("since filter: got %d items, %v", len(recent), err)
	}
}

func TestCreateHealthMetric_DefaultsRecordedAt(t *testing.T) {
	db := newTestDB(t, true)
	u := seedUser(t, db, "m2@example.com")
	m := &domain.HealthMetric{UserID: u.ID, MetricType: "heart_rate", Value: 62}
	if err := CreateHealthMetric(context.Background(), db, m); err != nil {
		t.Fatalf("create: %v", err)
	}
	if m.RecordedAt.IsZero() || time.Since(m.RecordedAt) > time.Minute {
		t.Fatalf("RecordedAt should default to now, got %v", m.RecordedAt)
	}
}
