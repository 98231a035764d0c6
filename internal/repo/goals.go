package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-health-backend/internal/domain"
)

// CreateGoal inserts g. CurrentValue starts at whatever the caller set (0 by
// default) and Completed at false.
func CreateGoal(ctx context.Context, db *gorm.DB, g *domain.Goal) error {
	return db.WithContext(ctx).Create(g).Error
}

// FindGoalByID returns the user's goal or nil.
func FindGoalByID(ctx context.Context, db *gorm.DB, userID, id uint) (*domain.Goal, error) {
	return findOne[domain.Goal](db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID))
}

// FindGoalsByUserID lists goals newest first.
func FindGoalsByUserID(ctx context.Context, db *gorm.DB, userID uint) ([]domain.Goal, error) {
	out := []domain.Goal{}
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").Order("id desc").
		Find(&out).Error
	return out, err
}
