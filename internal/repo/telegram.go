package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-health-backend/internal/domain"
)

// TelegramSettingsPatch carries the notification preferences to change.
// Nil fields keep the stored value, or the default on first insert.
type TelegramSettingsPatch struct {
	NotificationsEnabled *bool
	DailyPlanReminders   *bool
	MetricReminders      *bool
	GoalUpdates          *bool
	ReminderTimes        []string // nil keeps; empty slice clears
}

func (p TelegramSettingsPatch) columns(userID uint) (domain.TelegramBotSettings, []string) {
	row := domain.DefaultTelegramSettings(userID)
	var cols []string
	if p.NotificationsEnabled != nil {
		row.NotificationsEnabled = *p.NotificationsEnabled
		cols = append(cols, "notifications_enabled")
	}
	if p.DailyPlanReminders != nil {
		row.DailyPlanReminders = *p.DailyPlanReminders
		cols = append(cols, "daily_plan_reminders")
	}
	if p.MetricReminders != nil {
		row.MetricReminders = *p.MetricReminders
		cols = append(cols, "metric_reminders")
	}
	if p.GoalUpdates != nil {
		row.GoalUpdates = *p.GoalUpdates
		cols = append(cols, "goal_updates")
	}
	if p.ReminderTimes != nil {
		row.ReminderTimes = p.ReminderTimes
		cols = append(cols, "reminder_times")
	}
	return row, cols
}

// FindTelegramSettings returns the user's settings or nil.
func FindTelegramSettings(ctx context.Context, db *gorm.DB, userID uint) (*domain.TelegramBotSettings, error) {
	return findOne[domain.TelegramBotSettings](db.WithContext(ctx).Where("user_id = ?", userID))
}

// UpsertTelegramSettings inserts defaults overlaid with patch, or updates only
// the patched columns of the existing row, in one statement.
func UpsertTelegramSettings(ctx context.Context, db *gorm.DB, userID uint, patch TelegramSettingsPatch) (*domain.TelegramBotSettings, error) {
	row, cols := patch.columns(userID)
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(append(cols, "updated_at")),
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}
	return FindTelegramSettings(ctx, db, userID)
}

// CreateTelegramLog appends an audit entry for a bot interaction.
func CreateTelegramLog(ctx context.Context, db *gorm.DB, userID uint, actionType string, message *string) (*domain.TelegramBotLog, error) {
	l := &domain.TelegramBotLog{UserID: userID, ActionType: actionType, Message: message}
	if err := db.WithContext(ctx).Create(l).Error; err != nil {
		return nil, err
	}
	return l, nil
}

// FindTelegramLogsByUserID lists the latest entries first. limit <= 0 means
// no cap.
func FindTelegramLogsByUserID(ctx context.Context, db *gorm.DB, userID uint, limit int) ([]domain.TelegramBotLog, error) {
	out := []domain.TelegramBotLog{}
	q := db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Order("id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return out, q.Find(&out).Error
}
