package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-health-backend/internal/domain"
)

// CreateUser inserts an email-registered user. passwordHash is stored as
// given; hashing is the caller's job. A duplicate email surfaces as the
// driver's unique violation (see IsDuplicate).
func CreateUser(ctx context.Context, db *gorm.DB, email, passwordHash, name string) (*domain.User, error) {
	u := &domain.User{
		Email:        &email,
		PasswordHash: &passwordHash,
		Name:         name,
	}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// CreateTelegramUser inserts a user known only by Telegram identity.
func CreateTelegramUser(ctx context.Context, db *gorm.DB, telegramID int64, username *string, name string) (*domain.User, error) {
	u := &domain.User{
		TelegramID:       &telegramID,
		TelegramUsername: username,
		Name:             name,
	}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// FindUserByID returns the user or nil when absent.
func FindUserByID(ctx context.Context, db *gorm.DB, id uint) (*domain.User, error) {
	return findOne[domain.User](db.WithContext(ctx).Where("id = ?", id))
}

// FindUserByEmail matches the stored email exactly. Callers normalize case.
func FindUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	return findOne[domain.User](db.WithContext(ctx).Where("email = ?", email))
}

// FindUserByTelegramID returns the user linked to telegramID or nil.
func FindUserByTelegramID(ctx context.Context, db *gorm.DB, telegramID int64) (*domain.User, error) {
	return findOne[domain.User](db.WithContext(ctx).Where("telegram_id = ?", telegramID))
}

// LinkTelegram attaches a Telegram identity to an existing user. It returns
// ErrNotFound when userID does not exist.
func LinkTelegram(ctx context.Context, db *gorm.DB, userID uint, telegramID int64, username *string) error {
	res := db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"telegram_id":       telegramID,
			"telegram_username": username,
		})
	return affectedOrNotFound(res)
}
