// Package domain defines the persistence models for the health tracker:
// users and their profiles, daily plans, metrics, goals, documents, the token
// ledger, Telegram bot settings/logs, health directions and dashboard
// settings. These types are mapped with GORM and form the core data layer.
//
// Ownership: every row except HealthDirection belongs to exactly one user and
// is cascade-deleted with it.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// User is an account created either by email registration or on first
// contact through Telegram. Email and TelegramID are unique when present.
type User struct {
	ID               uint      `json:"id"                          gorm:"primaryKey"`
	Email            *string   `json:"email,omitempty"             gorm:"type:varchar(255);uniqueIndex:ux_users_email"`
	PasswordHash     *string   `json:"-"                           gorm:"type:varchar(255)"`
	Name             string    `json:"name"                        gorm:"type:varchar(255);not null"`
	TelegramID       *int64    `json:"telegram_id,omitempty"       gorm:"uniqueIndex:ux_users_telegram_id"`
	TelegramUsername *string   `json:"telegram_username,omitempty" gorm:"type:varchar(255)"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Profile holds the 1:1 biometric profile of a user.
type Profile struct {
	ID                  uint      `json:"id"                   gorm:"primaryKey"`
	UserID              uint      `json:"user_id"              gorm:"not null;uniqueIndex:ux_user_profiles_user"`
	DateOfBirth         *Date     `json:"date_of_birth"        gorm:"type:date"`
	Height              *float64  `json:"height"`
	Weight              *float64  `json:"weight"`
	Gender              *string   `json:"gender"               gorm:"type:varchar(32)"`
	BloodType           *string   `json:"blood_type"           gorm:"type:varchar(8)"`
	OnboardingCompleted bool      `json:"onboarding_completed" gorm:"not null;default:false"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Profile.
func (Profile) TableName() string { return "user_profiles" }

// Document is an uploaded (usually medical) document. Immutable once created.
type Document struct {
	ID           uint      `json:"id"                  gorm:"primaryKey"`
	UserID       uint      `json:"user_id"             gorm:"not null;index:idx_documents_user"`
	Title        string    `json:"title"               gorm:"type:varchar(255);not null"`
	Content      string    `json:"content"             gorm:"type:text;not null"`
	FilePath     *string   `json:"file_path,omitempty" gorm:"type:varchar(1024)"`
	DocumentType string    `json:"document_type"       gorm:"type:varchar(64);not null;default:'medical'"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Document.
func (Document) TableName() string { return "documents" }

// DailyPlan is one scheduled item on a user's day. The tuple
// (user_id, date, time, title) is unique.
type DailyPlan struct {
	ID          uint      `json:"id"                    gorm:"primaryKey"`
	UserID      uint      `json:"user_id"               gorm:"not null;uniqueIndex:ux_daily_plans_item,priority:1"`
	Date        Date      `json:"date"                  gorm:"type:date;not null;uniqueIndex:ux_daily_plans_item,priority:2"`
	Time        *string   `json:"time,omitempty"        gorm:"type:varchar(5);uniqueIndex:ux_daily_plans_item,priority:3"`
	Title       string    `json:"title"                 gorm:"type:varchar(255);not null;uniqueIndex:ux_daily_plans_item,priority:4"`
	Description *string   `json:"description,omitempty" gorm:"type:text"`
	Category    *string   `json:"category,omitempty"    gorm:"type:varchar(64)"`
	Completed   bool      `json:"completed"             gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for DailyPlan.
func (DailyPlan) TableName() string { return "daily_plans" }

// HealthMetric is one append-only time-series sample.
type HealthMetric struct {
	ID         uint      `json:"id"              gorm:"primaryKey"`
	UserID     uint      `json:"user_id"         gorm:"not null;index:idx_health_metrics_user_type,priority:1"`
	MetricType string    `json:"metric_type"     gorm:"type:varchar(64);not null;index:idx_health_metrics_user_type,priority:2"`
	Value      float64   `json:"value"           gorm:"not null"`
	Unit       *string   `json:"unit,omitempty"  gorm:"type:varchar(32)"`
	RecordedAt time.Time `json:"recorded_at"     gorm:"not null;index"`
	Notes      *string   `json:"notes,omitempty" gorm:"type:text"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for HealthMetric.
func (HealthMetric) TableName() string { return "health_metrics" }

// Goal is a user goal. CurrentValue and Completed are stored but there is
// no mutation path for them yet.
type Goal struct {
	ID           uint      `json:"id"                     gorm:"primaryKey"`
	UserID       uint      `json:"user_id"                gorm:"not null;index:idx_goals_user"`
	Title        string    `json:"title"                  gorm:"type:varchar(255);not null"`
	Category     *string   `json:"category,omitempty"     gorm:"type:varchar(64)"`
	TargetValue  *float64  `json:"target_value,omitempty"`
	CurrentValue float64   `json:"current_value"          gorm:"not null;default:0"`
	Unit         *string   `json:"unit,omitempty"         gorm:"type:varchar(32)"`
	Deadline     *Date     `json:"deadline,omitempty"     gorm:"type:date"`
	Completed    bool      `json:"completed"              gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Goal.
func (Goal) TableName() string { return "goals" }

// TelegramBotSettings holds one row of notification preferences per user.
type TelegramBotSettings struct {
	ID                   uint                        `json:"id"                     gorm:"primaryKey"`
	UserID               uint                        `json:"user_id"                gorm:"not null;uniqueIndex:ux_telegram_settings_user"`
	NotificationsEnabled bool                        `json:"notifications_enabled"  gorm:"not null"`
	DailyPlanReminders   bool                        `json:"daily_plan_reminders"   gorm:"not null"`
	MetricReminders      bool                        `json:"metric_reminders"       gorm:"not null"`
	GoalUpdates          bool                        `json:"goal_updates"           gorm:"not null"`
	ReminderTimes        datatypes.JSONSlice[string] `json:"reminder_times"`
	CreatedAt            time.Time                   `json:"created_at"`
	UpdatedAt            time.Time                   `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for TelegramBotSettings.
func (TelegramBotSettings) TableName() string { return "telegram_bot_settings" }

// TelegramBotLog is an append-only audit entry of bot interactions.
type TelegramBotLog struct {
	ID         uint      `json:"id"                gorm:"primaryKey"`
	UserID     uint      `json:"user_id"           gorm:"not null;index:idx_telegram_logs_user"`
	ActionType string    `json:"action_type"       gorm:"type:varchar(64);not null"`
	Message    *string   `json:"message,omitempty" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"        gorm:"index"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for TelegramBotLog.
func (TelegramBotLog) TableName() string { return "telegram_bot_logs" }

// Transaction types of the token ledger.
const (
	TransactionCredit = "credit"
	TransactionDebit  = "debit"
)

// UserToken is one entry of the append-only token ledger. The balance is
// never stored; it is derived by summing signed amounts.
type UserToken struct {
	ID              uint            `json:"id"                    gorm:"primaryKey"`
	UserID          uint            `json:"user_id"               gorm:"not null;index:idx_user_tokens_user"`
	Amount          decimal.Decimal `json:"amount"                gorm:"type:decimal(18,8);not null"`
	Source          *string         `json:"source,omitempty"      gorm:"type:varchar(64)"`
	Description     *string         `json:"description,omitempty" gorm:"type:text"`
	TransactionType string          `json:"transaction_type"      gorm:"type:varchar(16);not null;check:transaction_type IN ('credit','debit')"`
	CreatedAt       time.Time       `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for UserToken.
func (UserToken) TableName() string { return "user_tokens" }

// HealthDirection is global reference data seeded at bootstrap.
type HealthDirection struct {
	ID          uint      `json:"id"           gorm:"primaryKey"`
	Name        string    `json:"name"         gorm:"type:varchar(64);not null;uniqueIndex:ux_health_directions_name"`
	DisplayName string    `json:"display_name" gorm:"type:varchar(255);not null"`
	Description string    `json:"description"  gorm:"type:text"`
	Icon        string    `json:"icon"         gorm:"type:varchar(64)"`
	Color       string    `json:"color"        gorm:"type:varchar(32)"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the database table name for HealthDirection.
func (HealthDirection) TableName() string { return "health_directions" }

// Plan statuses. The status column is free-form; these are the values the
// API writes.
const (
	PlanStatusActive    = "active"
	PlanStatusCompleted = "completed"
	PlanStatusPaused    = "paused"
)

// HealthDirectionPlan is a user's plan within one health direction.
type HealthDirectionPlan struct {
	ID          uint      `json:"id"                    gorm:"primaryKey"`
	UserID      uint      `json:"user_id"               gorm:"not null;index:idx_direction_plans_user_dir,priority:1"`
	DirectionID uint      `json:"direction_id"          gorm:"not null;index:idx_direction_plans_user_dir,priority:2"`
	Title       string    `json:"title"                 gorm:"type:varchar(255);not null"`
	Description *string   `json:"description,omitempty" gorm:"type:text"`
	StartDate   *Date     `json:"start_date,omitempty"  gorm:"type:date"`
	EndDate     *Date     `json:"end_date,omitempty"    gorm:"type:date"`
	Status      string    `json:"status"                gorm:"type:varchar(32);not null;default:'active'"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	User      User            `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Direction HealthDirection `json:"-" gorm:"foreignKey:DirectionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for HealthDirectionPlan.
func (HealthDirectionPlan) TableName() string { return "health_direction_plans" }

// HealthDirectionTask is an actionable item inside a direction plan.
type HealthDirectionTask struct {
	ID          uint      `json:"id"                    gorm:"primaryKey"`
	UserID      uint      `json:"user_id"               gorm:"not null;index"`
	PlanID      uint      `json:"plan_id"               gorm:"not null;index:idx_direction_tasks_plan"`
	Title       string    `json:"title"                 gorm:"type:varchar(255);not null"`
	Description *string   `json:"description,omitempty" gorm:"type:text"`
	DueDate     *Date     `json:"due_date,omitempty"    gorm:"type:date"`
	Completed   bool      `json:"completed"             gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at"`

	User User                `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Plan HealthDirectionPlan `json:"-" gorm:"foreignKey:PlanID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for HealthDirectionTask.
func (HealthDirectionTask) TableName() string { return "health_direction_tasks" }

// HealthDirectionMetric is a direction-scoped measurement with free-form
// structured metadata.
type HealthDirectionMetric struct {
	ID          uint                               `json:"id"             gorm:"primaryKey"`
	UserID      uint                               `json:"user_id"        gorm:"not null;index:idx_direction_metrics_user_dir,priority:1"`
	DirectionID uint                               `json:"direction_id"   gorm:"not null;index:idx_direction_metrics_user_dir,priority:2"`
	MetricName  string                             `json:"metric_name"    gorm:"type:varchar(64);not null"`
	Value       float64                            `json:"value"          gorm:"not null"`
	Unit        *string                            `json:"unit,omitempty" gorm:"type:varchar(32)"`
	RecordedAt  time.Time                          `json:"recorded_at"    gorm:"not null"`
	Metadata    datatypes.JSONType[MetricMetadata] `json:"metadata"`

	User      User            `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Direction HealthDirection `json:"-" gorm:"foreignKey:DirectionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for HealthDirectionMetric.
func (HealthDirectionMetric) TableName() string { return "health_direction_metrics" }

// HealthDirectionReport is a periodic summary for one direction.
type HealthDirectionReport struct {
	ID          uint                              `json:"id"                     gorm:"primaryKey"`
	UserID      uint                              `json:"user_id"                gorm:"not null;index:idx_direction_reports_user_dir,priority:1"`
	DirectionID uint                              `json:"direction_id"           gorm:"not null;index:idx_direction_reports_user_dir,priority:2"`
	Title       string                            `json:"title"                  gorm:"type:varchar(255);not null"`
	PeriodStart *Date                             `json:"period_start,omitempty" gorm:"type:date"`
	PeriodEnd   *Date                             `json:"period_end,omitempty"   gorm:"type:date"`
	Summary     datatypes.JSONType[ReportSummary] `json:"summary"`
	CreatedAt   time.Time                         `json:"created_at"`

	User      User            `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Direction HealthDirection `json:"-" gorm:"foreignKey:DirectionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for HealthDirectionReport.
func (HealthDirectionReport) TableName() string { return "health_direction_reports" }

// DashboardSettings is the per-user dashboard layout, created lazily with
// DefaultWidgets on first access.
type DashboardSettings struct {
	ID        uint                                `json:"id"         gorm:"primaryKey"`
	UserID    uint                                `json:"user_id"    gorm:"not null;uniqueIndex:ux_dashboard_settings_user"`
	Layout    datatypes.JSONType[DashboardLayout] `json:"layout"`
	Widgets   datatypes.JSONSlice[Widget]         `json:"widgets"`
	Theme     string                              `json:"theme"      gorm:"type:varchar(16);not null;default:'light'"`
	CreatedAt time.Time                           `json:"created_at"`
	UpdatedAt time.Time                           `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for DashboardSettings.
func (DashboardSettings) TableName() string { return "dashboard_settings" }

// AllModels lists every persisted model in foreign-key dependency order.
// Schema bootstrap migrates them in exactly this order.
func AllModels() []any {
	return []any{
		&User{},
		&Profile{},
		&Document{},
		&DailyPlan{},
		&HealthMetric{},
		&Goal{},
		&TelegramBotSettings{},
		&TelegramBotLog{},
		&UserToken{},
		&HealthDirection{},
		&HealthDirectionPlan{},
		&HealthDirectionTask{},
		&HealthDirectionMetric{},
		&HealthDirectionReport{},
		&DashboardSettings{},
	}
}
