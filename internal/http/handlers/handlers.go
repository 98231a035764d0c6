// Package handlers exposes the REST endpoints of the health backend.
//
// Handlers are transport-thin: they bind and shape input, call a service,
// and translate the result (or error) into a response. Every per-user route
// lives under /users/{userId}; when the caller presented a bearer token the
// path user must match its subject.
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/tbourn/go-health-backend/internal/domain"
	"github.com/tbourn/go-health-backend/internal/http/middleware"
	"github.com/tbourn/go-health-backend/internal/repo"
	"github.com/tbourn/go-health-backend/internal/services"
	"github.com/tbourn/go-health-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// AuthService covers registration and sign-in.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	TelegramAuth(ctx context.Context, id services.TelegramIdentity) (*services.AuthResult, error)
	ConnectTelegram(ctx context.Context, userID uint, id services.TelegramIdentity) (*services.AuthResult, error)
}

// ProfileService reads and merges a user's profile.
type ProfileService interface {
	Get(ctx context.Context, userID uint) (*domain.Profile, error)
	Update(ctx context.Context, userID uint, in services.ProfileInput) (*domain.Profile, error)
}

// PlanService manages daily plan items.
type PlanService interface {
	List(ctx context.Context, userID uint, q services.PlanQuery) ([]domain.DailyPlan, error)
	Create(ctx context.Context, userID uint, in services.PlanInput) (*domain.DailyPlan, error)
	SetCompleted(ctx context.Context, userID, planID uint, completed bool) (*domain.DailyPlan, error)
	Delete(ctx context.Context, userID, planID uint) error
}

// MetricService records and lists health metrics.
type MetricService interface {
	Record(ctx context.Context, userID uint, in services.MetricInput) (*domain.HealthMetric, error)
	List(ctx context.Context, userID uint, q services.MetricQuery) ([]domain.HealthMetric, error)
}

// GoalService creates and lists goals.
type GoalService interface {
	Create(ctx context.Context, userID uint, in services.GoalInput) (*domain.Goal, error)
	List(ctx context.Context, userID uint) ([]domain.Goal, error)
	Stats(ctx context.Context, userID uint) (repo.CollectionStats, error)
}

// DocumentService stores and searches documents.
type DocumentService interface {
	Create(ctx context.Context, userID uint, in services.DocumentInput) (*domain.Document, error)
	Get(ctx context.Context, userID, id uint) (*domain.Document, error)
	List(ctx context.Context, userID uint) ([]domain.Document, error)
	Stats(ctx context.Context, userID uint) (repo.CollectionStats, error)
	Search(ctx context.Context, userID uint, query string, limit int) ([]services.DocumentHit, error)
}

// TokenService appends to and reads the token ledger.
type TokenService interface {
	Add(ctx context.Context, userID uint, in services.TokenInput) (*domain.UserToken, decimal.Decimal, error)
	Ledger(ctx context.Context, userID uint) (*services.TokenLedger, error)
}

// TelegramService exposes bot settings and the bot audit log.
type TelegramService interface {
	Settings(ctx context.Context, userID uint) (*domain.TelegramBotSettings, error)
	UpdateSettings(ctx context.Context, userID uint, in services.TelegramSettingsInput) (*domain.TelegramBotSettings, error)
	Logs(ctx context.Context, userID uint, limit int) ([]domain.TelegramBotLog, error)
}

// DirectionService covers health directions and their plans, tasks,
// metrics and reports.
type DirectionService interface {
	List(ctx context.Context) ([]domain.HealthDirection, error)
	CreatePlan(ctx context.Context, userID uint, direction string, in services.DirectionPlanInput) (*domain.HealthDirectionPlan, error)
	Plans(ctx context.Context, userID uint, direction string) ([]domain.HealthDirectionPlan, error)
	AddTask(ctx context.Context, userID, planID uint, in services.TaskInput) (*domain.HealthDirectionTask, error)
	Tasks(ctx context.Context, userID, planID uint) ([]domain.HealthDirectionTask, error)
	SetTaskCompleted(ctx context.Context, userID, planID, taskID uint, completed bool) error
	RecordMetric(ctx context.Context, userID uint, direction string, in services.DirectionMetricInput) (*domain.HealthDirectionMetric, error)
	Metrics(ctx context.Context, userID uint, direction string, limit int) ([]domain.HealthDirectionMetric, error)
	CreateReport(ctx context.Context, userID uint, direction string, in services.ReportInput) (*domain.HealthDirectionReport, error)
	Reports(ctx context.Context, userID uint, direction string) ([]domain.HealthDirectionReport, error)
}

// DashboardService reads and updates dashboard settings.
type DashboardService interface {
	Get(ctx context.Context, userID uint) (*domain.DashboardSettings, error)
	Update(ctx context.Context, userID uint, in services.DashboardInput) (*domain.DashboardSettings, error)
}

//
// Handler wiring
//

// Services bundles every service the handlers depend on.
type Services struct {
	Auth       AuthService
	Profiles   ProfileService
	Plans      PlanService
	Metrics    MetricService
	Goals      GoalService
	Documents  DocumentService
	Tokens     TokenService
	Telegram   TelegramService
	Directions DirectionService
	Dashboard  DashboardService
}

// Handlers groups the HTTP endpoints.
type Handlers struct {
	svc Services
}

// New constructs Handlers bound to svc.
func New(svc Services) *Handlers {
	return &Handlers{svc: svc}
}

//
// Helpers
//

// pathUserID parses :userId and checks it against the token subject, if
// any. It writes the error response itself and returns false on failure.
func pathUserID(c *gin.Context) (uint, bool) {
	id, valid := utils.ParseID(c.Param("userId"))
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "userId must be a positive integer")
		return 0, false
	}
	if sub, authed := middleware.UserIDFrom(c); authed && sub != id {
		fail(c, http.StatusForbidden, ErrCodeForbidden, "token does not grant access to this user")
		return 0, false
	}
	return id, true
}

// pathID parses a numeric path parameter.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, valid := utils.ParseID(c.Param(name))
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

// bindJSON decodes the body into dst, answering 400 on malformed JSON.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// queryLimit reads ?limit=; services clamp the value, 0 selects their default.
func queryLimit(c *gin.Context) int {
	return utils.AtoiDefault(c.Query("limit"), 0)
}

// queryTime parses an optional RFC 3339 query parameter.
func queryTime(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, name+" must be an RFC 3339 timestamp")
		return nil, false
	}
	return &t, true
}

// notModified sets a weak ETag derived from st and reports whether the
// request's If-None-Match already matches it (a 304 has been written).
func notModified(c *gin.Context, kind string, userID uint, st repo.CollectionStats) bool {
	var ts int64
	if st.MaxUpdatedAt != nil {
		ts = st.MaxUpdatedAt.UnixNano()
	}
	etag := fmt.Sprintf(`W/"%s:%d:%d:%d"`, kind, userID, st.Count, ts)
	c.Header("ETag", etag)
	if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
		c.Status(http.StatusNotModified)
		return true
	}
	return false
}
