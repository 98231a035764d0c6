// Health direction HTTP handlers.
//
//   - GET        /health-directions
//   - GET|POST   /users/{userId}/directions/{name}/plans
//   - GET|POST   /users/{userId}/direction-plans/{planId}/tasks
//   - PATCH      /users/{userId}/direction-plans/{planId}/tasks/{taskId}
//   - GET|POST   /users/{userId}/directions/{name}/metrics
//   - GET|POST   /users/{userId}/directions/{name}/reports
//
// {name} is a direction key such as "sleep" (see GET /health-directions).
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-health-backend/internal/domain"
	"github.com/tbourn/go-health-backend/internal/services"
)

//
// DTOs
//

// CreateDirectionPlanRequest is the payload of a new direction plan.
type CreateDirectionPlanRequest struct {
	Title       string  `json:"title" example:"Sleep 8h for a month"`
	Description *string `json:"description"`
	StartDate   *string `json:"start_date" example:"2024-05-01"`
	EndDate     *string `json:"end_date" example:"2024-05-31"`
	Status      *string `json:"status" example:"active" enums:"active,completed,paused"`
}

// CreateTaskRequest is the payload of a new plan task.
type CreateTaskRequest struct {
	Title       string  `json:"title" example:"No screens after 22:00"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date" example:"2024-05-07"`
}

// UpdateTaskRequest toggles task completion.
type UpdateTaskRequest struct {
	Completed *bool `json:"completed" example:"true"`
}

// RecordDirectionMetricRequest is one direction-scoped measurement.
type RecordDirectionMetricRequest struct {
	MetricName string                 `json:"metric_name" example:"deep_sleep_minutes"`
	Value      *float64               `json:"value" example:"95"`
	Unit       *string                `json:"unit" example:"min"`
	RecordedAt *time.Time             `json:"recorded_at"`
	Metadata   *domain.MetricMetadata `json:"metadata"`
}

// CreateReportRequest is the payload of a new report. Without a summary the
// server derives metric and completed-task counts for the period.
type CreateReportRequest struct {
	Title       string                `json:"title" example:"May sleep review"`
	PeriodStart *string               `json:"period_start" example:"2024-05-01"`
	PeriodEnd   *string               `json:"period_end" example:"2024-05-31"`
	Summary     *domain.ReportSummary `json:"summary"`
}

// DirectionsResponse wraps the reference list of directions.
type DirectionsResponse struct {
	Directions []domain.HealthDirection `json:"directions"`
}

// DirectionPlansResponse wraps direction plans.
type DirectionPlansResponse struct {
	Plans []domain.HealthDirectionPlan `json:"plans"`
}

// DirectionPlanResponse wraps one direction plan.
type DirectionPlanResponse struct {
	Plan *domain.HealthDirectionPlan `json:"plan"`
}

// TasksResponse wraps plan tasks.
type TasksResponse struct {
	Tasks []domain.HealthDirectionTask `json:"tasks"`
}

// TaskResponse wraps one task.
type TaskResponse struct {
	Task *domain.HealthDirectionTask `json:"task"`
}

// DirectionMetricsResponse wraps direction metrics, newest first.
type DirectionMetricsResponse struct {
	Metrics []domain.HealthDirectionMetric `json:"metrics"`
}

// DirectionMetricResponse wraps one direction metric.
type DirectionMetricResponse struct {
	Metric *domain.HealthDirectionMetric `json:"metric"`
}

// ReportsResponse wraps direction reports.
type ReportsResponse struct {
	Reports []domain.HealthDirectionReport `json:"reports"`
}

// ReportResponse wraps one report.
type ReportResponse struct {
	Report *domain.HealthDirectionReport `json:"report"`
}

//
// Handlers
//

// ListDirections godoc
// @ID          listDirections
// @Summary     Reference list of health directions
// @Tags        Directions
// @Produce     json
// @Success     200  {object}  handlers.DirectionsResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /health-directions [get]
func (h *Handlers) ListDirections(c *gin.Context) {
	dirs, err := h.svc.Directions.List(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, DirectionsResponse{Directions: dirs})
}

// ListDirectionPlans godoc
// @ID          listDirectionPlans
// @Summary     Plans in one direction
// @Tags        Directions
// @Produce     json
// @Param       userId  path  int     true  "User ID"
// @Param       name    path  string  true  "Direction key"  example(sleep)
// @Success     200  {object}  handlers.DirectionPlansResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown direction"
// @Router      /users/{userId}/directions/{name}/plans [get]
func (h *Handlers) ListDirectionPlans(c *gin.Context) {
	uid, valid := pathUserID(c)
	if !valid {
		return
	}
	plans, err := h.svc.Directions.Plans(c.Request.Context(), uid, c.Param("name"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, DirectionPlansResponse{Plans: plans})
}

// CreateDirectionPlan godoc
// @ID          createDirectionPlan
// @Summary     Start a plan in a direction
// @Tags        Directions
// @Accept      json
// @Produce     json
// @Param       userId  path      int                                  true  "User ID"
// @Param       name    path      string                               true  "Direction key"
// @Param       body    body      handlers.CreateDirectionPlanRequest  true  "Plan"
// @Success     201     {object}  handlers.DirectionPlanResponse
// @Failure     400     {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     404     {object}  handlers.ErrorResponse  "Unknown direction or user"
// @Router      /users/{userId}/directions/{name}/plans [post]
func (h *Handlers) CreateDirectionPlan(c *gin.Context) {
	uid, valid := pathUserID(c)
	if !valid {
		return
	}
	var req CreateDirectionPlanRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.svc.Directions.CreatePlan(c.Request.Context(), uid, c.Param("name"), services.DirectionPlanInput{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      req.Status,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, DirectionPlanResponse{Plan: p})
}

// ListTasks godoc
// @ID          listTasks
// @Summary     Tasks of a direction plan
// @Tags        Directions
// @Produce     json
// @Param       userId  path  int  true  "User ID"
// @Param       planId  path  int  true  "Direction plan ID"
// @Success     200  {object}  handlers.TasksResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Plan not found"
// @Router      /users/{userId}/direction-plans/{planId}/tasks [get]
func (h *Handlers) ListTasks(c *gin.Context) {
	uid, valid := pathUserID(c)
	if !valid {
		return
	}
	planID, valid := pathID(c, "planId")
	if !valid {
		return
	}
	tasks, err := h.svc.Directions.Tasks(c.Request.Context(), uid, planID)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, TasksResponse{Tasks: tasks})
}

// CreateTask godoc
// @ID          createTask
// @Summary     Add a task to a direction plan
// @Tags        Directions
// @Accept      json
// @Produce     json
// @Param       userId  path      int                         true  "User ID"
// @Param       planId  path      int                         true  "Direction plan ID"
// @Param       body    body      handlers.CreateTaskRequest  true  "Task"
// @Success     201     {object}  handlers.TaskResponse
// @Failure     400     {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     404     {object}  handlers.ErrorResponse  "Plan not found"
// @Router      /users/{userId}/direction-plans/{planId}/tasks [post]
func (h *Handlers) CreateTask(c *gin.Context) {
	uid, valid := pathUserID(c)
	if !valid {
		return
	}
	planID, valid := pathID(c, "planId")
	if !valid {
		return
	}
	var req CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.svc.Directions.AddTask(c.Request.Context(), uid, planID, services.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, TaskResponse{Task: t})
}

// UpdateTask godoc
// @ID          updateTask
// @Summary     Mark a task done or not done
// @Tags        Directions
// @Accept      json
// @Param       userId  path  int                         true  "User ID"
// @Param       planId  path  int                         true  "Direction plan ID"
// @Param       taskId  path  int                         true  "Task ID"
// @Param       body    body  handlers.UpdateTaskRequest  true  "Completion flag"
// @Success     204  {string}  string  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Task not found"
// @Router      /users/{userId}/direction-plans/{planId}/tasks/{taskId} [patch]
func (h *Handlers) UpdateTask(c *gin.Context) {
	uid, valid := pathUserID(c)
	if !valid {
		return
	}
	planID, valid := pathID(c, "planId")
	if !valid {
		return
	}
	taskID, valid := pathID(c, "taskId")
	if !valid {
		return
	}
	var req UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Completed == nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "completed is required")
		return
	}
	if err := h.svc.Directions.SetTaskCompleted(c.Request.Context(), uid, planID, taskID, *req.Completed); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// ListDirectionMetrics godoc
// @ID          listDirectionMetrics
// @Summary     Metrics recorded in a direction, newest first
// @Tags        Directions
// @Produce     json
// @Param       userId  path   int     true   "User ID"
// @Param       name    path   string  true   "Direction key"
// @Param       limit   query  int     false  "Max rows"
// @Success     200  {object}  handlers.DirectionMetricsResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown direction"
// @Router      /users/{userId}/directions/{name}/metrics [get]
func (h *Handlers) ListDirectionMetrics(c *gin.Context) {
	uid, valid := pathUserID(c)
	if !valid {
		return
	}
	rows, err := h.svc.Directions.Metrics(c.Request.Context(), uid, c.Param("name"), queryLimit(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, DirectionMetricsResponse{Metrics: rows})
}

// RecordDirectionMetric godoc
// @ID          recordDirectionMetric
// @Summary     Record a metric in a direction
// @Tags        Directions
// @Accept      json
// @Produce     json
// @Param       userId  path      int                                    true  "User ID"
// @Param       name    path      string                                 true  "Direction key"
// @Param       body    body      handlers.RecordDirectionMetricRequest  true  "Measurement"
// @Success     201     {object}  handlers.DirectionMetricResponse
// @Failure     400     {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     404     {object}  handlers.ErrorResponse  "Unknown direction or user"
// @Router      /users/{userId}/directions/{name}/metrics [post]
func (h *Handlers) RecordDirectionMetric(c *gin.Context) {
	uid, valid := pathUserID(c)
	if !valid {
		return
	}
	var req RecordDirectionMetricRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Value == nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "value is required")
		return
	}
	m, err := h.svc.Directions.RecordMetric(c.Request.Context(), uid, c.Param("name"), services.DirectionMetricInput{
		Name:       req.MetricName,
		Value:      *req.Value,
		Unit:       req.Unit,
		RecordedAt: req.RecordedAt,
		Metadata:   req.Metadata,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, DirectionMetricResponse{Metric: m})
}

// ListReports godoc
// @ID          listReports
// @Summary     Reports in a direction
// @Tags        Directions
// @Produce     json
// @Param       userId  path  int     true  "User ID"
// @Param       name    path  string  true  "Direction key"
// @Success     200  {object}  handlers.ReportsResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown direction"
// @Router      /users/{userId}/directions/{name}/reports [get]
func (h *Handlers) ListReports(c *gin.Context) {
	uid, valid := pathUserID(c)
	if !valid {
		return
	}
	reports, err := h.svc.Directions.Reports(c.Request.Context(), uid, c.Param("name"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, ReportsResponse{Reports: reports})
}

// CreateReport godoc
// @ID          createReport
// @Summary     Write a report for a direction
// @Tags        Directions
// @Accept      json
// @Produce     json
// @Param       userId  path      int                           true  "User ID"
// @Param       name    path      string                        true  "Direction key"
// @Param       body    body      handlers.CreateReportRequest  true  "Report"
// @Success     201     {object}  handlers.ReportResponse
// @Failure     400     {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     404     {object}  handlers.ErrorResponse  "Unknown direction or user"
// @Router      /users/{userId}/directions/{name}/reports [post]
func (h *Handlers) CreateReport(c *gin.Context) {
	uid, valid := pathUserID(c)
	if !valid {
		return
	}
	var req CreateReportRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := h.svc.Directions.CreateReport(c.Request.Context(), uid, c.Param("name"), services.ReportInput{
		Title:       req.Title,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
		Summary:     req.Summary,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, ReportResponse{Report: r})
}
