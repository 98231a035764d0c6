package repo

import (
	"context"
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-health-backend/internal/domain"
)

// newTestDB opens a private in-memory database. With bootstrap it also runs
// Bootstrap so every table and the direction seed exist.
func newTestDB(t *testing.T, bootstrap bool) *gorm.DB {
	t.Helper()
	// Unique DB per test to avoid schema leaking across tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = Close(db) })
	if bootstrap {
		if err := Bootstrap(context.Background(), db); err != nil {
			t.Fatalf("bootstrap: %v", err)
		}
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *domain.User {
	t.Helper()
	u, err := CreateUser(context.Background(), db, email, "hash", "Test User")
	if err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}

func ptr[T any](v T) *T { return &v }
