package repo

import (
	"context"
	"testing"
	"time"

	"github.com/tbourn/go-health-backend/internal/domain"
)

func TestDocumentsStats_NoTable(t *testing.T) {
	db := newTestDB(t, false)
	if _, err := DocumentsStats(context.Background(), db, 1); err == nil {
		t.Fatalf("expected error due to missing documents table")
	}
}

func TestDocumentsStats_ZeroRows(t *testing.T) {
	db := newTestDB(t, true)
	st, err := DocumentsStats(context.Background(), db, 1)
	if err != nil {
		t.Fatalf("DocumentsStats: %v", err)
	}
	if st.Count != 0 || st.MaxUpdatedAt != nil {
		t.Fatalf("expected (0, nil), got %+v", st)
	}
}

func TestDocumentsStats_FilterAndMax(t *testing.T) {
	db := newTestDB(t, true)
	u := seedUser(t, db, "s1@example.com")
	o := seedUser(t, db, "s2@example.com")

	t1 := time.Date(2025, 1, 2, 15, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC) // max for u
	t3 := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)   // other user

	for _, d := range []*domain.Document{
		{UserID: u.ID, Title: "a", Content: "a", CreatedAt: t1, UpdatedAt: t1},
		{UserID: u.ID, Title: "b", Content: "b", CreatedAt: t2, UpdatedAt: t2},
		{UserID: o.ID, Title: "x", Content: "x", CreatedAt: t3, UpdatedAt: t3},
	} {
		if err := db.Create(d).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	st, err := DocumentsStats(context.Background(), db, u.ID)
	if err != nil {
		t.Fatalf("DocumentsStats: %v", err)
	}
	if st.Count != 2 {
		t.Fatalf("expected count 2, got %d", st.Count)
	}
	if st.MaxUpdatedAt == nil || !st.MaxUpdatedAt.Equal(t2) {
		t.Fatalf("expected max %v, got %v", t2, st.MaxUpdatedAt)
	}
}

func TestGoalsStats(t *testing.T) {
	db := newTestDB(t, true)
	u := seedUser(t, db, "s3@example.com")
	if err := CreateGoal(context.Background(), db, &domain.Goal{UserID: u.ID, Title: "g"}); err != nil {
		t.Fatalf("seed goal: %v", err)
	}
	st, err := GoalsStats(context.Background(), db, u.ID)
	if err != nil || st.Count != 1 || st.MaxUpdatedAt == nil {
		t.Fatalf("GoalsStats = %+v, %v", st, err)
	}
}
