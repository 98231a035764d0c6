package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-health-backend/internal/domain"
)

// CreateDailyPlan inserts p and fills its ID and timestamps. A second plan
// with the same (user, date, time, title) fails with a unique violation.
func CreateDailyPlan(ctx context.Context, db *gorm.DB, p *domain.DailyPlan) error {
	return db.WithContext(ctx).Create(p).Error
}

// FindDailyPlanByID returns the user's plan or nil.
func FindDailyPlanByID(ctx context.Context, db *gorm.DB, userID, id uint) (*domain.DailyPlan, error) {
	return findOne[domain.DailyPlan](db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID))
}

// FindDailyPlansByUserIDAndDate returns the plans scheduled on exactly date,
// ordered by time of day. "date" and "time" are quoted: both are type
// keywords in PostgreSQL.
func FindDailyPlansByUserIDAndDate(ctx context.Context, db *gorm.DB, userID uint, date domain.Date) ([]domain.DailyPlan, error) {
	out := []domain.DailyPlan{}
	err := db.WithContext(ctx).
		Where(`user_id = ? AND "date" = ?`, userID, date).
		Order(`"time" asc`).Order("id asc").
		Find(&out).Error
	return out, err
}

// FindDailyPlansByUserIDAndDateRange returns plans with start <= date <= end,
// ordered by date then time.
func FindDailyPlansByUserIDAndDateRange(ctx context.Context, db *gorm.DB, userID uint, start, end domain.Date) ([]domain.DailyPlan, error) {
	out := []domain.DailyPlan{}
	err := db.WithContext(ctx).
		Where(`user_id = ? AND "date" >= ? AND "date" <= ?`, userID, start, end).
		Order(`"date" asc`).Order(`"time" asc`).Order("id asc").
		Find(&out).Error
	return out, err
}

// SetDailyPlanCompleted flips the completion flag. Returns ErrNotFound if the
// plan does not exist or belongs to someone else.
func SetDailyPlanCompleted(ctx context.Context, db *gorm.DB, userID, id uint, completed bool) error {
	res := db.WithContext(ctx).
		Model(&domain.DailyPlan{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("completed", completed)
	return affectedOrNotFound(res)
}

// DeleteDailyPlan removes the plan. Returns ErrNotFound if nothing matched.
func DeleteDailyPlan(ctx context.Context, db *gorm.DB, userID, id uint) error {
	res := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.DailyPlan{})
	return affectedOrNotFound(res)
}
