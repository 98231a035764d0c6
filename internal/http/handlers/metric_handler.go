// Health metric HTTP handlers.
//
//   - GET  /users/{userId}/metrics?type=&since=&until=&limit=
//   - POST /users/{userId}/metrics
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-health-backend/internal/domain"
	"github.com/tbourn/go-health-backend/internal/services"
)

// RecordMetricRequest is one sample. Unit defaults for well-known types;
// RecordedAt defaults to now.
type RecordMetricRequest struct {
	MetricType string     `json:"metric_type" example:"weight"`
	Value      *float64   `json:"value" example:"72.4"`
	Unit       *string    `json:"unit" example:"kg"`
	RecordedAt *time.Time `json:"recorded_at" example:"2024-05-01T07:30:00Z"`
	Notes      *string    `json:"notes" example:"after breakfast"`
}

// MetricsResponse wraps a metric listing (newest first).
type MetricsResponse struct {
	Metrics []domain.HealthMetric `json:"metrics"`
}

// MetricResponse wraps one metric.
type MetricResponse struct {
	Metric *domain.HealthMetric `json:"metric"`
}

// ListMetrics godoc
// @ID          listMetrics
// @Summary     List health metrics, newest first
// @Tags        Metrics
// @Produce     json
// @Param       userId  path   int     true   "User ID"
// @Param       type    query  string  false  "Metric type filter"  example(weight)
// @Param       since   query  string  false  "Lower bound on recorded_at (RFC 3339)"
// @Param       until   query  string  false  "Upper bound on recorded_at (RFC 3339)"
// @Param       limit   query  int     false  "Max rows"  minimum(1) maximum(1000) default(100)
// @Success     200  {object}  handlers.MetricsResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "User not found"
// @Router      /users/{userId}/metrics [get]
func (h *Handlers) ListMetrics(c *gin.Context) {
	uid, valid := pathUserID(c)
	if !valid {
		return
	}
	since, valid := queryTime(c, "since")
	if !valid {
		return
	}
	until, valid := queryTime(c, "until")
	if !valid {
		return
	}
	rows, err := h.svc.Metrics.List(c.Request.Context(), uid, services.MetricQuery{
		Type:  c.Query("type"),
		Since: since,
		Until: until,
		Limit: queryLimit(c),
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, MetricsResponse{Metrics: rows})
}

// RecordMetric godoc
// @ID          recordMetric
// @Summary     Record a health metric
// @Tags        Metrics
// @Accept      json
// @Produce     json
// @Param       userId  path      int                           true  "User ID"
// @Param       body    body      handlers.RecordMetricRequest  true  "Sample"
// @Success     201     {object}  handlers.MetricResponse
// @Failure     400     {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     404     {object}  handlers.ErrorResponse  "User not found"
// @Router      /users/{userId}/metrics [post]
func (h *Handlers) RecordMetric(c *gin.Context) {
	uid, valid := pathUserID(c)
	if !valid {
		return
	}
	var req RecordMetricRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Value == nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "value is required")
		return
	}
	m, err := h.svc.Metrics.Record(c.Request.Context(), uid, services.MetricInput{
		Type:       req.MetricType,
		Value:      *req.Value,
		Unit:       req.Unit,
		RecordedAt: req.RecordedAt,
		Notes:      req.Notes,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, MetricResponse{Metric: m})
}
