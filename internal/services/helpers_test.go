package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-health-backend/internal/domain"
	"github.com/tbourn/go-health-backend/internal/repo"
)

// ---------- test helpers ----------

func newSvcDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := repo.Bootstrap(context.Background(), db); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	return db
}

func mkUser(t *testing.T, db *gorm.DB, email string) *domain.User {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), db, email, "x", "Test User")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func ptr[T any](v T) *T { return &v }

// repoUsers adapts the repo package to UserRepo.
type repoUsers struct{}

func (repoUsers) CreateUser(ctx context.Context, db *gorm.DB, email, hash, name string) (*domain.User, error) {
	return repo.CreateUser(ctx, db, email, hash, name)
}

func (repoUsers) CreateTelegramUser(ctx context.Context, db *gorm.DB, id int64, username *string, name string) (*domain.User, error) {
	return repo.CreateTelegramUser(ctx, db, id, username, name)
}

func (repoUsers) FindUserByID(ctx context.Context, db *gorm.DB, id uint) (*domain.User, error) {
	return repo.FindUserByID(ctx, db, id)
}

func (repoUsers) FindUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	return repo.FindUserByEmail(ctx, db, email)
}

func (repoUsers) FindUserByTelegramID(ctx context.Context, db *gorm.DB, id int64) (*domain.User, error) {
	return repo.FindUserByTelegramID(ctx, db, id)
}

func (repoUsers) LinkTelegram(ctx context.Context, db *gorm.DB, userID uint, id int64, username *string) error {
	return repo.LinkTelegram(ctx, db, userID, id, username)
}

func (repoUsers) CreateTelegramLog(ctx context.Context, db *gorm.DB, userID uint, action string, msg *string) (*domain.TelegramBotLog, error) {
	return repo.CreateTelegramLog(ctx, db, userID, action, msg)
}

func (repoUsers) IsDuplicate(err error) bool { return repo.IsDuplicate(err) }

func (repoUsers) IsNotFound(err error) bool { return errors.Is(err, repo.ErrNotFound) }

func wantValidation(t *testing.T, err error) {
	t.Helper()
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}
