// Telegram bot HTTP handlers.
//
//   - GET /users/{userId}/telegram/settings
//   - PUT /users/{userId}/telegram/settings   (partial; omitted keys are kept)
//   - GET /users/{userId}/telegram/logs?limit=
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-health-backend/internal/domain"
	"github.com/tbourn/go-health-backend/internal/services"
)

// UpdateTelegramSettingsRequest is a partial settings update.
type UpdateTelegramSettingsRequest struct {
	NotificationsEnabled *bool     `json:"notifications_enabled" example:"true"`
	DailyPlanReminders   *bool     `json:"daily_plan_reminders" example:"true"`
	MetricReminders      *bool     `json:"metric_reminders" example:"false"`
	GoalUpdates          *bool     `json:"goal_updates" example:"true"`
	ReminderTimes        *[]string `json:"reminder_times" example:"09:00,20:00"`
}

// TelegramSettingsResponse wraps the settings row.
type TelegramSettingsResponse struct {
	Settings *domain.TelegramBotSettings `json:"settings"`
}

// TelegramLogsResponse wraps the bot audit log, newest first.
type TelegramLogsResponse struct {
	Logs []domain.TelegramBotLog `json:"logs"`
}

// GetTelegramSettings godoc
// @ID          getTelegramSettings
// @Summary     Telegram notification settings
// @Description Users without saved settings get the defaults (id 0).
// @Tags        Telegram
// @Produce     json
// @Param       userId  path      int  true  "User ID"
// @Success     200     {object}  handlers.TelegramSettingsResponse
// @Failure     404     {object}  handlers.ErrorResponse  "User not found"
// @Router      /users/{userId}/telegram/settings [get]
func (h *Handlers) GetTelegramSettings(c *gin.Context) {
	uid, valid := pathUserID(c)
	if !valid {
		return
	}
	st, err := h.svc.Telegram.Settings(c.Request.Context(), uid)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, TelegramSettingsResponse{Settings: st})
}

// UpdateTelegramSettings godoc
// @ID          updateTelegramSettings
// @Summary     Update Telegram notification settings
// @Tags        Telegram
// @Accept      json
// @Produce     json
// @Param       userId  path      int                                     true  "User ID"
// @Param       body    body      handlers.UpdateTelegramSettingsRequest  true  "Fields to change"
// @Success     200     {object}  handlers.TelegramSettingsResponse
// @Failure     400     {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     404     {object}  handlers.ErrorResponse  "User not found"
// @Router      /users/{userId}/telegram/settings [put]
func (h *Handlers) UpdateTelegramSettings(c *gin.Context) {
	uid, valid := pathUserID(c)
	if !valid {
		return
	}
	var req UpdateTelegramSettingsRequest
	if !bindJSON(c, &req) {
		return
	}
	st, err := h.svc.Telegram.UpdateSettings(c.Request.Context(), uid, services.TelegramSettingsInput{
		NotificationsEnabled: req.NotificationsEnabled,
		DailyPlanReminders:   req.DailyPlanReminders,
		MetricReminders:      req.MetricReminders,
		GoalUpdates:          req.GoalUpdates,
		ReminderTimes:        req.ReminderTimes,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, TelegramSettingsResponse{Settings: st})
}

// ListTelegramLogs godoc
// @ID          listTelegramLogs
// @Summary     Telegram bot audit log
// @Tags        Telegram
// @Produce     json
// @Param       userId  path   int  true   "User ID"
// @Param       limit   query  int  false  "Max rows"  minimum(1) maximum(500) default(50)
// @Success     200  {object}  handlers.TelegramLogsResponse
// @Failure     404  {object}  handlers.ErrorResponse  "User not found"
// @Router      /users/{userId}/telegram/logs [get]
func (h *Handlers) ListTelegramLogs(c *gin.Context) {
	uid, valid := pathUserID(c)
	if !valid {
		return
	}
	logs, err := h.svc.Telegram.Logs(c.Request.Context(), uid, queryLimit(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, TelegramLogsResponse{Logs: logs})
}
