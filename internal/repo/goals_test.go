package repo

import (
	"context"
	"testing"

	"github.com/tbourn/go-health-backend/internal/domain"
)

func TestGoals_CreateAndFind(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()
	u := seedUser(t, db, "goals@example.com")

	deadline := domain.Date("2025-12-31")
	g := &domain.Goal{UserID: u.ID, Title: "Lose weight", TargetValue: ptr(75.0), Unit: ptr("kg"), Deadline: &deadline}
	if err := CreateGoal(ctx, db, g); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := FindGoalByID(ctx, db, u.ID, g.ID)
	if err != nil || got == nil {
		t.Fatalf("find: %v, %v", got, err)
	}
	if got.CurrentValue != 0 || got.Completed {
		t.Fatalf("new goal should start at 0 and incomplete: %+v", got)
	}
	if got.Deadline == nil || *got.Deadline != deadline {
		t.Fatalf("deadline round-trip: %v", got.Deadline)
	}

	if missing, err := FindGoalByID(ctx, db, u.ID, 777); missing != nil || err != nil {
		t.Fatalf("missing goal = %v, %v", missing, err)
	}
	list, err := FindGoalsByUserID(ctx, db, u.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v, %v", list, err)
	}
}
