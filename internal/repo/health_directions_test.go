package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/tbourn/go-health-backend/internal/domain"
)

func TestHealthDirections_SeedLookup(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()

	dirs, err := ListHealthDirections(ctx, db)
	if err != nil || len(dirs) != 5 || dirs[0].Name != "nutrition" {
		t.Fatalf("list: %+v, %v", dirs, err)
	}
	sleep, err := FindHealthDirectionByName(ctx, db, "sleep")
	if err != nil || sleep == nil {
		t.Fatalf("by name: %v, %v", sleep, err)
	}
	byID, err := FindHealthDirectionByID(ctx, db, sleep.ID)
	if err != nil || byID == nil || byID.Name != "sleep" {
		t.Fatalf("by id: %v, %v", byID, err)
	}
	if d, err := FindHealthDirectionByName(ctx, db, "astrology"); d != nil || err != nil {
		t.Fatalf("unknown direction = %v, %v", d, err)
	}
}

func TestDirectionPlansTasksMetricsReports(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()
	u := seedUser(t, db, "dir@example.com")
	sleep, _ := FindHealthDirectionByName(ctx, db, "sleep")
	nutrition, _ := FindHealthDirectionByName(ctx, db, "nutrition")

	p := &domain.HealthDirectionPlan{UserID: u.ID, DirectionID: sleep.ID, Title: "Sleep 8h"}
	if err := CreateDirectionPlan(ctx, db, p); err != nil {
		t.Fatalf("create plan: %v", err)
	}
	if p.Status != domain.PlanStatusActive {
		t.Fatalf("plan status default = %q", p.Status)
	}
	if err := CreateDirectionPlan(ctx, db, &domain.HealthDirectionPlan{UserID: u.ID, DirectionID: nutrition.ID, Title: "More greens"}); err != nil {
		t.Fatalf("create second plan: %v", err)
	}

	onlySleep, err := FindDirectionPlansByUserID(ctx, db, u.ID, &sleep.ID)
	if err != nil || len(onlySleep) != 1 || onlySleep[0].ID != p.ID {
		t.Fatalf("plans by direction: %+v, %v", onlySleep, err)
	}
	all, _ := FindDirectionPlansByUserID(ctx, db, u.ID, nil)
	if len(all) != 2 {
		t.Fatalf("all plans: %d", len(all))
	}
	if got, _ := FindDirectionPlanByID(ctx, db, u.ID, p.ID); got == nil {
		t.Fatalf("plan by id not found")
	}

	for _, title := range []string{"No screens after 22:00", "Dark room"} {
		if err := CreateDirectionTask(ctx, db, &domain.HealthDirectionTask{UserID: u.ID, PlanID: p.ID, Title: title}); err != nil {
			t.Fatalf("task %q: %v", title, err)
		}
	}
	tasks, err := FindDirectionTasksByPlanID(ctx, db, u.ID, p.ID)
	if err != nil || len(tasks) != 2 || tasks[0].Title != "No screens after 22:00" {
		t.Fatalf("tasks: %+v, %v", tasks, err)
	}
	if err := SetDirectionTaskCompleted(ctx, db, u.ID, p.ID, tasks[1].ID, true); err != nil {
		t.Fatalf("complete task: %v", err)
	}
	if err := SetDirectionTaskCompleted(ctx, db, u.ID+1, p.ID, tasks[1].ID, true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign task err = %v, want ErrNotFound", err)
	}
	tasks, _ = FindDirectionTasksByPlanID(ctx, db, u.ID, p.ID)
	if tasks[0].Completed || !tasks[1].Completed {
		t.Fatalf("completion flags: %+v", tasks)
	}

	m := &domain.HealthDirectionMetric{
		UserID: u.ID, DirectionID: sleep.ID, MetricName: "deep_sleep", Value: 1.7, Unit: ptr("h"),
		Metadata: datatypes.NewJSONType(domain.MetricMetadata{Source: "watch", Tags: []string{"night"}}),
	}
	if err := CreateDirectionMetric(ctx, db, m); err != nil {
		t.Fatalf("metric: %v", err)
	}
	metrics, err := FindDirectionMetrics(ctx, db, u.ID, sleep.ID, 10)
	if err != nil || len(metrics) != 1 || metrics[0].Metadata.Data().Source != "watch" {
		t.Fatalf("metrics: %+v, %v", metrics, err)
	}

	score := 82.0
	r := &domain.HealthDirectionReport{
		UserID: u.ID, DirectionID: sleep.ID, Title: "May sleep",
		Summary: datatypes.NewJSONType(domain.ReportSummary{Score: &score, Highlights: []string{"consistent bedtime"}}),
	}
	if err := CreateDirectionReport(ctx, db, r); err != nil {
		t.Fatalf("report: %v", err)
	}
	reports, err := FindDirectionReports(ctx, db, u.ID, sleep.ID)
	if err != nil || len(reports) != 1 || reports[0].Summary.Data().Score == nil || *reports[0].Summary.Data().Score != 82 {
		t.Fatalf("reports: %+v, %v", reports, err)
	}
}

func TestDirectionCounts_HonorPeriod(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()
	u := seedUser(t, db, "counts@example.com")
	other := seedUser(t, db, "counts2@example.com")
	sleep, _ := FindHealthDirectionByName(ctx, db, "sleep")
	nutrition, _ := FindHealthDirectionByName(ctx, db, "nutrition")

	for _, m := range []domain.HealthDirectionMetric{
		{UserID: u.ID, DirectionID: sleep.ID, MetricName: "deep_sleep", Value: 1, RecordedAt: time.Date(2024, 4, 30, 23, 59, 0, 0, time.UTC)},
		{UserID: u.ID, DirectionID: sleep.ID, MetricName: "deep_sleep", Value: 1, RecordedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{UserID: u.ID, DirectionID: sleep.ID, MetricName: "deep_sleep", Value: 1, RecordedAt: time.Date(2024, 5, 31, 23, 59, 0, 0, time.UTC)},
		{UserID: u.ID, DirectionID: sleep.ID, MetricName: "deep_sleep", Value: 1, RecordedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{UserID: u.ID, DirectionID: nutrition.ID, MetricName: "kcal", Value: 1, RecordedAt: time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)},
		{UserID: other.ID, DirectionID: sleep.ID, MetricName: "deep_sleep", Value: 1, RecordedAt: time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)},
	} {
		m := m
		if err := CreateDirectionMetric(ctx, db, &m); err != nil {
			t.Fatalf("metric: %v", err)
		}
	}

	may1, may31 := domain.Date("2024-05-01"), domain.Date("2024-05-31")
	tests := []struct {
		name       string
		start, end *domain.Date
		want       int64
	}{
		{"closed period", &may1, &may31, 2},
		{"open start", nil, &may31, 3},
		{"open end", &may1, nil, 3},
		{"unbounded", nil, nil, 4},
	}
	for _, tt := range tests {
		t.Run("metrics "+tt.name, func(t *testing.T) {
			n, err := CountDirectionMetrics(ctx, db, u.ID, sleep.ID, tt.start, tt.end)
			if err != nil || n != tt.want {
				t.Fatalf("count = %d, %v; want %d", n, err, tt.want)
			}
		})
	}

	plan := &domain.HealthDirectionPlan{UserID: u.ID, DirectionID: sleep.ID, Title: "Sleep hygiene"}
	greens := &domain.HealthDirectionPlan{UserID: u.ID, DirectionID: nutrition.ID, Title: "More greens"}
	for _, p := range []*domain.HealthDirectionPlan{plan, greens} {
		if err := CreateDirectionPlan(ctx, db, p); err != nil {
			t.Fatalf("plan: %v", err)
		}
	}
	may10, june3 := domain.Date("2024-05-10"), domain.Date("2024-06-03")
	for _, task := range []domain.HealthDirectionTask{
		{UserID: u.ID, PlanID: plan.ID, Title: "due in May", DueDate: &may10, Completed: true},
		{UserID: u.ID, PlanID: plan.ID, Title: "due in June", DueDate: &june3, Completed: true},
		{UserID: u.ID, PlanID: plan.ID, Title: "undated", Completed: true},
		{UserID: u.ID, PlanID: plan.ID, Title: "open", DueDate: &may10},
		{UserID: u.ID, PlanID: greens.ID, Title: "other direction", DueDate: &may10, Completed: true},
	} {
		task := task
		if err := CreateDirectionTask(ctx, db, &task); err != nil {
			t.Fatalf("task: %v", err)
		}
	}

	n, err := CountCompletedDirectionTasks(ctx, db, u.ID, sleep.ID, &may1, &may31)
	if err != nil || n != 2 {
		t.Fatalf("May tasks = %d, %v; want 2 (dated + undated)", n, err)
	}
	n, err = CountCompletedDirectionTasks(ctx, db, u.ID, sleep.ID, nil, nil)
	if err != nil || n != 3 {
		t.Fatalf("all tasks = %d, %v; want 3", n, err)
	}
	n, err = CountCompletedDirectionTasks(ctx, db, other.ID, sleep.ID, nil, nil)
	if err != nil || n != 0 {
		t.Fatalf("other user's tasks = %d, %v; want 0", n, err)
	}
}
