package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/tbourn/go-health-backend/internal/domain"
)

func TestDailyPlans_DateEqualityAndRange(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()
	u := seedUser(t, db, "plans@example.com")
	other := seedUser(t, db, "other@example.com")

	mk := func(userID uint, date domain.Date, at, title string) {
		t.Helper()
		p := &domain.DailyPlan{UserID: userID, Date: date, Time: ptr(at), Title: title}
		if err := CreateDailyPlan(ctx, db, p); err != nil {
			t.Fatalf("CreateDailyPlan(%s %s %s): %v", date, at, title, err)
		}
	}
	mk(u.ID, "2025-06-01", "18:00", "Evening walk")
	mk(u.ID, "2025-06-01", "07:30", "Breakfast")
	mk(u.ID, "2025-06-02", "08:00", "Gym")
	mk(u.ID, "2025-06-04", "08:00", "Gym")
	mk(other.ID, "2025-06-01", "09:00", "Not mine")

	day, err := FindDailyPlansByUserIDAndDate(ctx, db, u.ID, "2025-06-01")
	if err != nil {
		t.Fatalf("by date: %v", err)
	}
	if len(day) != 2 || day[0].Title != "Breakfast" || day[1].Title != "Evening walk" {
		t.Fatalf("unexpected plans for day: %+v", day)
	}
	for _, p := range day {
		if p.Date != "2025-06-01" {
			t.Fatalf("plan date not normalized: %q", p.Date)
		}
	}

	rng, err := FindDailyPlansByUserIDAndDateRange(ctx, db, u.ID, "2025-06-01", "2025-06-02")
	if err != nil {
		t.Fatalf("by range: %v", err)
	}
	if len(rng) != 3 {
		t.Fatalf("range should include both bounds and exclude 06-04, got %d plans", len(rng))
	}
	if rng[2].Date != "2025-06-02" {
		t.Fatalf("range must be ordered by date, got %+v", rng)
	}

	empty, err := FindDailyPlansByUserIDAndDate(ctx, db, u.ID, "2025-06-03")
	if err != nil || len(empty) != 0 || empty == nil {
		t.Fatalf("expected empty non-nil slice, got %#v, %v", empty, err)
	}
}

func TestDailyPlans_UniquePerUserDateTimeTitle(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()
	u := seedUser(t, db, "uniq@example.com")

	p := &domain.DailyPlan{UserID: u.ID, Date: "2025-06-01", Time: ptr("08:00"), Title: "Run"}
	if err := CreateDailyPlan(ctx, db, p); err != nil {
		t.Fatalf("first: %v", err)
	}
	dup := &domain.DailyPlan{UserID: u.ID, Date: "2025-06-01", Time: ptr("08:00"), Title: "Run"}
	if err := CreateDailyPlan(ctx, db, dup); !IsDuplicate(err) {
		t.Fatalf("expected duplicate violation, got %v", err)
	}
	// Same title at another time is fine.
	later := &domain.DailyPlan{UserID: u.ID, Date: "2025-06-01", Time: ptr("19:00"), Title: "Run"}
	if err := CreateDailyPlan(ctx, db, later); err != nil {
		t.Fatalf("different time should be allowed: %v", err)
	}
}

func TestDailyPlans_CompleteAndDelete(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()
	u := seedUser(t, db, "done@example.com")
	intruder := seedUser(t, db, "intruder@example.com")

	p := &domain.DailyPlan{UserID: u.ID, Date: "2025-06-01", Title: "Stretch"}
	if err := CreateDailyPlan(ctx, db, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := SetDailyPlanCompleted(ctx, db, u.ID, p.ID, true); err != nil {
		t.Fatalf("complete: %v", err)
	}
	got, err := FindDailyPlanByID(ctx, db, u.ID, p.ID)
	if err != nil || got == nil || !got.Completed {
		t.Fatalf("completion not stored: %+v %v", got, err)
	}

	if err := SetDailyPlanCompleted(ctx, db, intruder.ID, p.ID, false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("other user's plan must be ErrNotFound, got %v", err)
	}
	if err := SetDailyPlanCompleted(ctx, db, u.ID, 9999, true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing plan must be ErrNotFound, got %v", err)
	}

	if err := DeleteDailyPlan(ctx, db, u.ID, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got, _ := FindDailyPlanByID(ctx, db, u.ID, p.ID); got != nil {
		t.Fatalf("plan still present after delete")
	}
	if err := DeleteDailyPlan(ctx, db, u.ID, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete must be ErrNotFound, got %v", err)
	}
}
