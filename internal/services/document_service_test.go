package services

import (
	"context"
	"errors"
	"testing"
)

func TestDocumentService_CreateGetList(t *testing.T) {
	db := newSvcDB(t)
	ctx := context.Background()
	u := mkUser(t, db, "docs@example.com")
	s, err := NewDocumentService(db, 8)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	d, err := s.Create(ctx, u.ID, DocumentInput{Title: "Blood test", Content: "Ferritin 45 ng/mL"})
	if err != nil || d.DocumentType != "medical" {
		t.Fatalf("create: %+v, %v", d, err)
	}
	if _, err := s.Create(ctx, u.ID, DocumentInput{Title: "X-ray", Content: "Chest clear", DocumentType: ptr("Imaging")}); err != nil {
		t.Fatalf("create 2: %v", err)
	}

	got, err := s.Get(ctx, u.ID, d.ID)
	if err != nil || got.Title != "Blood test" {
		t.Fatalf("get: %+v, %v", got, err)
	}
	if _, err := s.Get(ctx, u.ID+1, d.ID); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("foreign get err = %v", err)
	}
	list, _ := s.List(ctx, u.ID)
	if len(list) != 2 || list[0].DocumentType != "imaging" {
		t.Fatalf("list: %+v", list)
	}
	st, err := s.Stats(ctx, u.ID)
	if err != nil || st.Count != 2 || st.MaxUpdatedAt == nil {
		t.Fatalf("stats: %+v, %v", st, err)
	}

	_, err = s.Create(ctx, u.ID, DocumentInput{Title: "", Content: "x"})
	wantValidation(t, err)
	_, err = s.Create(ctx, u.ID, DocumentInput{Title: "x", Content: "  "})
	wantValidation(t, err)
}

func TestDocumentService_Search(t *testing.T) {
	db := newSvcDB(t)
	ctx := context.Background()
	u := mkUser(t, db, "search@example.com")
	other := mkUser(t, db, "other@example.com")
	s, _ := NewDocumentService(db, 8)

	lab, _ := s.Create(ctx, u.ID, DocumentInput{
		Title:   "Lab results March",
		Content: "| Marker | Value |\n|---|---|\n| Ferritin | 45 ng/mL |\n| Vitamin D | 18 ng/mL |\n\nFerritin is within the reference range.",
	})
	_, _ = s.Create(ctx, u.ID, DocumentInput{Title: "Cardiology letter", Content: "Blood pressure slightly elevated, recheck in three months."})
	_, _ = s.Create(ctx, other.ID, DocumentInput{Title: "Someone else", Content: "Ferritin 300 ng/mL"})

	hits, err := s.Search(ctx, u.ID, "ferritin", 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 1 || hits[0].DocumentID != lab.ID || hits[0].Title != "Lab results March" {
		t.Fatalf("want one hit from the lab document, got %+v", hits)
	}

	// cached index is invalidated by a new document
	_, _ = s.Create(ctx, u.ID, DocumentInput{Title: "Iron follow-up", Content: "Ferritin rechecked after supplements."})
	hits, _ = s.Search(ctx, u.ID, "ferritin", 5)
	if len(hits) != 2 {
		t.Fatalf("want 2 documents after insert, got %+v", hits)
	}

	if hits, _ := s.Search(ctx, u.ID, "ferritin", 1); len(hits) != 1 {
		t.Fatalf("limit not applied: %+v", hits)
	}
	if hits, err := s.Search(ctx, u.ID, "astronomy", 5); err != nil || len(hits) != 0 {
		t.Fatalf("no match: %+v, %v", hits, err)
	}
	_, err = s.Search(ctx, u.ID, "   ", 5)
	wantValidation(t, err)
}
