package services

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"github.com/tbourn/go-health-backend/internal/domain"
	"github.com/tbourn/go-health-backend/internal/repo"
)

const maxReminderTimes = 12

// TelegramSettingsInput is a partial settings update. Nil fields keep their
// stored value; a non-nil empty ReminderTimes clears the list.
type TelegramSettingsInput struct {
	NotificationsEnabled *bool
	DailyPlanReminders   *bool
	MetricReminders      *bool
	GoalUpdates          *bool
	ReminderTimes        *[]string
}

// TelegramService exposes the bot notification settings and audit log.
type TelegramService struct {
	DB *gorm.DB

	DefaultLogLimit int
	MaxLogLimit     int
}

// NewTelegramService constructs a TelegramService.
func NewTelegramService(db *gorm.DB) *TelegramService {
	return &TelegramService{DB: db, DefaultLogLimit: 50, MaxLogLimit: 500}
}

// Settings returns the stored settings, or the defaults (unsaved, ID 0)
// when the user has none yet.
func (s *TelegramService) Settings(ctx context.Context, userID uint) (*domain.TelegramBotSettings, error) {
	if err := ensureUser(ctx, s.DB, userID); err != nil {
		return nil, err
	}
	st, err := repo.FindTelegramSettings(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		def := domain.DefaultTelegramSettings(userID)
		return &def, nil
	}
	return st, nil
}

// UpdateSettings validates in and upserts it. Reminder times must be
// zero-padded HH:MM; they are stored sorted and de-duplicated.
func (s *TelegramService) UpdateSettings(ctx context.Context, userID uint, in TelegramSettingsInput) (*domain.TelegramBotSettings, error) {
	patch := repo.TelegramSettingsPatch{
		NotificationsEnabled: in.NotificationsEnabled,
		DailyPlanReminders:   in.DailyPlanReminders,
		MetricReminders:      in.MetricReminders,
		GoalUpdates:          in.GoalUpdates,
	}
	if in.ReminderTimes != nil {
		times, err := reminderTimes(*in.ReminderTimes)
		if err != nil {
			return nil, err
		}
		patch.ReminderTimes = times
	}
	if err := ensureUser(ctx, s.DB, userID); err != nil {
		return nil, err
	}
	return repo.UpsertTelegramSettings(ctx, s.DB, userID, patch)
}

// Logs returns the newest bot log entries of the user.
func (s *TelegramService) Logs(ctx context.Context, userID uint, limit int) ([]domain.TelegramBotLog, error) {
	return repo.FindTelegramLogsByUserID(ctx, s.DB, userID, clampLimit(limit, s.DefaultLogLimit, s.MaxLogLimit))
}

func reminderTimes(in []string) ([]string, error) {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, raw := range in {
		t, err := parseClock("reminder_times", normalizeText(raw))
		if err != nil {
			return nil, err
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if len(out) > maxReminderTimes {
		return nil, invalid("reminder_times", "has too many entries")
	}
	sort.Strings(out)
	return out, nil
}
