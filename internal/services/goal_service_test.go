package services

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestGoalService_CreateListStats(t *testing.T) {
	db := newSvcDB(t)
	ctx := context.Background()
	u := mkUser(t, db, "goals@example.com")
	s := &GoalService{DB: db}

	st, err := s.Stats(ctx, u.ID)
	if err != nil || st.Count != 0 || st.MaxUpdatedAt != nil {
		t.Fatalf("empty stats: %+v, %v", st, err)
	}

	g, err := s.Create(ctx, u.ID, GoalInput{
		Title:        "  Lose   5 kg ",
		Category:     ptr("  "),
		TargetValue:  ptr(70.0),
		CurrentValue: ptr(75.0),
		Unit:         ptr("kg"),
		Deadline:     ptr("2024-12-31"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if g.Title != "Lose 5 kg" || g.Category != nil || g.CurrentValue != 75 {
		t.Fatalf("unexpected goal: %+v", g)
	}
	if g.Deadline == nil || *g.Deadline != "2024-12-31" {
		t.Fatalf("deadline = %v", g.Deadline)
	}

	if _, err := s.Create(ctx, u.ID, GoalInput{Title: "Walk daily"}); err != nil {
		t.Fatalf("create minimal: %v", err)
	}

	list, err := s.List(ctx, u.ID)
	if err != nil || len(list) != 2 {
		t.Fatalf("list: %+v, %v", list, err)
	}
	if list[0].Title != "Walk daily" {
		t.Fatalf("newest first expected, got %q", list[0].Title)
	}
	if list[1].CurrentValue != 75 {
		t.Fatalf("current value lost: %+v", list[1])
	}

	st, err = s.Stats(ctx, u.ID)
	if err != nil || st.Count != 2 || st.MaxUpdatedAt == nil {
		t.Fatalf("stats: %+v, %v", st, err)
	}
}

func TestGoalService_Validation(t *testing.T) {
	db := newSvcDB(t)
	ctx := context.Background()
	u := mkUser(t, db, "goalval@example.com")
	s := &GoalService{DB: db}

	for _, in := range []GoalInput{
		{Title: "   "},
		{Title: "x", Deadline: ptr("31/12/2024")},
		{Title: "x", TargetValue: ptr(math.NaN())},
		{Title: "x", CurrentValue: ptr(math.Inf(1))},
	} {
		_, err := s.Create(ctx, u.ID, in)
		wantValidation(t, err)
	}

	if _, err := s.Create(ctx, u.ID+100, GoalInput{Title: "orphan"}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("unknown user err = %v", err)
	}
}
