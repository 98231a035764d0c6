package domain

// Typed payloads stored in JSON columns. They are decoded once on read by
// gorm.io/datatypes and validated once on write by the services package.

// DashboardLayout describes the dashboard grid.
type DashboardLayout struct {
	Columns   int  `json:"columns"`
	RowHeight int  `json:"row_height"`
	Compact   bool `json:"compact"`
}

// WidgetPosition places a widget on the dashboard grid.
type WidgetPosition struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Widget is one dashboard tile.
type Widget struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Position WidgetPosition `json:"position"`
	Visible  bool           `json:"visible"`
}

// Known widget types.
const (
	WidgetDailyPlan   = "daily_plan"
	WidgetMetrics     = "metrics"
	WidgetGoals       = "goals"
	WidgetDocuments   = "documents"
	WidgetTokens      = "tokens"
	WidgetDirections  = "health_directions"
	WidgetAIAssistant = "ai_assistant"
)

// WidgetTypes is the set of widget types accepted on write.
var WidgetTypes = map[string]struct{}{
	WidgetDailyPlan:   {},
	WidgetMetrics:     {},
	WidgetGoals:       {},
	WidgetDocuments:   {},
	WidgetTokens:      {},
	WidgetDirections:  {},
	WidgetAIAssistant: {},
}

// Dashboard themes.
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// DefaultLayout is written when a user's dashboard settings are first read.
func DefaultLayout() DashboardLayout {
	return DashboardLayout{Columns: 12, RowHeight: 80, Compact: true}
}

// DefaultWidgets is the initial widget arrangement for a new dashboard.
func DefaultWidgets() []Widget {
	return []Widget{
		{ID: "daily-plan", Type: WidgetDailyPlan, Position: WidgetPosition{X: 0, Y: 0, W: 6, H: 4}, Visible: true},
		{ID: "metrics", Type: WidgetMetrics, Position: WidgetPosition{X: 6, Y: 0, W: 6, H: 4}, Visible: true},
		{ID: "goals", Type: WidgetGoals, Position: WidgetPosition{X: 0, Y: 4, W: 4, H: 3}, Visible: true},
		{ID: "documents", Type: WidgetDocuments, Position: WidgetPosition{X: 4, Y: 4, W: 4, H: 3}, Visible: true},
		{ID: "tokens", Type: WidgetTokens, Position: WidgetPosition{X: 8, Y: 4, W: 4, H: 3}, Visible: true},
	}
}

// MetricMetadata carries optional context for a direction metric.
type MetricMetadata struct {
	Source string            `json:"source,omitempty"`
	Device string            `json:"device,omitempty"`
	Tags   []string          `json:"tags,omitempty"`
	Extra  map[string]string `json:"extra,omitempty"`
}

// ReportSummary is the structured body of a direction report.
type ReportSummary struct {
	Score           *float64 `json:"score,omitempty"`
	Highlights      []string `json:"highlights,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
	MetricsCount    int      `json:"metrics_count"`
	TasksCompleted  int      `json:"tasks_completed"`
}

// MetricUnits maps well-known metric types to their default unit.
// HealthMetric.MetricType is free-form; unknown types keep the caller's unit.
var MetricUnits = map[string]string{
	"weight":            "kg",
	"body_fat":          "%",
	"blood_pressure":    "mmHg",
	"heart_rate":        "bpm",
	"temperature":       "°C",
	"steps":             "steps",
	"sleep_hours":       "hours",
	"calories":          "kcal",
	"water":             "ml",
	"blood_glucose":     "mmol/L",
	"mood":              "scale",
	"stress":            "scale",
	"active_minutes":    "min",
	"oxygen_saturation": "%",
}

// DefaultReminderTimes are the reminder slots of a fresh Telegram settings row.
func DefaultReminderTimes() []string { return []string{"09:00", "20:00"} }

// DefaultTelegramSettings is the row written on the first settings upsert
// before the caller's patch is applied.
func DefaultTelegramSettings(userID uint) TelegramBotSettings {
	return TelegramBotSettings{
		UserID:               userID,
		NotificationsEnabled: true,
		DailyPlanReminders:   true,
		MetricReminders:      false,
		GoalUpdates:          true,
		ReminderTimes:        DefaultReminderTimes(),
	}
}
