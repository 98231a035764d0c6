package repo

import (
	"context"
	"testing"

	"github.com/tbourn/go-health-backend/internal/domain"
)

func TestBootstrap_CreatesAllTables(t *testing.T) {
	db := newTestDB(t, true)
	m := db.Migrator()
	for _, model := range domain.AllModels() {
		if !m.HasTable(model) {
			t.Fatalf("expected table for %T", model)
		}
	}
}

func TestBootstrap_IsIdempotent(t *testing.T) {
	db := newTestDB(t, true)
	ctx := context.Background()

	u := seedUser(t, db, "keep@example.com")
	for i := 0; i < 2; i++ {
		if err := Bootstrap(ctx, db); err != nil {
			t.Fatalf("bootstrap run %d: %v", i+2, err)
		}
	}

	dirs, err := ListHealthDirections(ctx, db)
	if err != nil {
		t.Fatalf("ListHealthDirections: %v", err)
	}
	if len(dirs) != len(HealthDirectionSeed()) {
		t.Fatalf("expected %d directions after repeated bootstrap, got %d", len(HealthDirectionSeed()), len(dirs))
	}

	// Existing rows survive.
	got, err := FindUserByID(ctx, db, u.ID)
	if err != nil || got == nil {
		t.Fatalf("user lost across bootstrap: %v %v", got, err)
	}
}

func TestBootstrap_AddsMissingColumns(t *testing.T) {
	db := newTestDB(t, false)
	ctx := context.Background()

	// An older schema without telegram columns.
	if err := db.Exec(`CREATE TABLE users (
		id integer PRIMARY KEY AUTOINCREMENT,
		email varchar(255),
		password_hash varchar(255),
		name varchar(255) NOT NULL,
		created_at datetime,
		updated_at datetime)`).Error; err != nil {
		t.Fatalf("create legacy users: %v", err)
	}
	if err := Bootstrap(ctx, db); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if !db.Migrator().HasColumn(&domain.User{}, "telegram_id") {
		t.Fatalf("expected telegram_id to be added to existing users table")
	}
}

func TestHealthDirectionSeed_ReturnsCopy(t *testing.T) {
	a := HealthDirectionSeed()
	a[0].Name = "mutated"
	if HealthDirectionSeed()[0].Name == "mutated" {
		t.Fatalf("HealthDirectionSeed must return a copy")
	}
}
