// Package services – DirectionService
//
// DirectionService serves the health-direction reference data and the
// user-owned entities hanging off it: plans with their tasks, direction
// metrics and periodic reports. Directions are seeded at bootstrap and never
// change at runtime, so lookups by name go through an LRU cache.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tbourn/go-health-backend/internal/domain"
	"github.com/tbourn/go-health-backend/internal/repo"
)

var planStatuses = map[string]struct{}{
	domain.PlanStatusActive:    {},
	domain.PlanStatusCompleted: {},
	domain.PlanStatusPaused:    {},
}

// DirectionPlanInput is the payload of a new direction plan.
type DirectionPlanInput struct {
	Title       string
	Description *string
	StartDate   *string
	EndDate     *string
	Status      *string
}

// TaskInput is the payload of a new plan task.
type TaskInput struct {
	Title       string
	Description *string
	DueDate     *string
}

// DirectionMetricInput is one direction-scoped measurement.
type DirectionMetricInput struct {
	Name       string
	Value      float64
	Unit       *string
	RecordedAt *time.Time
	Metadata   *domain.MetricMetadata
}

// ReportInput is the payload of a new direction report. A nil Summary is
// derived from the metrics and completed tasks of the period.
type ReportInput struct {
	Title       string
	PeriodStart *string
	PeriodEnd   *string
	Summary     *domain.ReportSummary
}

// DirectionService implements the health-direction use cases.
type DirectionService struct {
	DB *gorm.DB

	DefaultMetricLimit int
	MaxMetricLimit     int

	byName *lru.Cache[string, domain.HealthDirection]
}

// NewDirectionService constructs a DirectionService caching up to cacheSize
// directions by name.
func NewDirectionService(db *gorm.DB, cacheSize int) (*DirectionService, error) {
	if cacheSize <= 0 {
		cacheSize = 64
	}
	c, err := lru.New[string, domain.HealthDirection](cacheSize)
	if err != nil {
		return nil, err
	}
	return &DirectionService{DB: db, DefaultMetricLimit: 100, MaxMetricLimit: 1000, byName: c}, nil
}

// List returns every direction and refreshes the cache.
func (s *DirectionService) List(ctx context.Context) ([]domain.HealthDirection, error) {
	dirs, err := repo.ListHealthDirections(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	for _, d := range dirs {
		s.byName.Add(d.Name, d)
	}
	return dirs, nil
}

// Direction resolves a direction by name or returns ErrDirectionNotFound.
func (s *DirectionService) Direction(ctx context.Context, name string) (*domain.HealthDirection, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if d, ok := s.byName.Get(name); ok {
		return &d, nil
	}
	d, err := repo.FindHealthDirectionByName(ctx, s.DB, name)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrDirectionNotFound
	}
	s.byName.Add(d.Name, *d)
	return d, nil
}

// CreatePlan validates in and creates a plan under the named direction.
func (s *DirectionService) CreatePlan(ctx context.Context, userID uint, direction string, in DirectionPlanInput) (*domain.HealthDirectionPlan, error) {
	dir, err := s.Direction(ctx, direction)
	if err != nil {
		return nil, err
	}
	title, err := requiredText("title", in.Title, maxTitleRunes)
	if err != nil {
		return nil, err
	}
	start, err := parseOptionalDate("start_date", in.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseOptionalDate("end_date", in.EndDate)
	if err != nil {
		return nil, err
	}
	if err := checkRange("plan", start, end); err != nil {
		return nil, err
	}
	status := domain.PlanStatusActive
	if in.Status != nil && *in.Status != "" {
		status = strings.ToLower(strings.TrimSpace(*in.Status))
		if _, ok := planStatuses[status]; !ok {
			return nil, invalid("status", "must be active, completed or paused")
		}
	}
	if err := ensureUser(ctx, s.DB, userID); err != nil {
		return nil, err
	}

	p := &domain.HealthDirectionPlan{
		UserID:      userID,
		DirectionID: dir.ID,
		Title:       title,
		Description: optionalText(in.Description),
		StartDate:   start,
		EndDate:     end,
		Status:      status,
	}
	if err := repo.CreateDirectionPlan(ctx, s.DB, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Plans lists the user's plans in the named direction.
func (s *DirectionService) Plans(ctx context.Context, userID uint, direction string) ([]domain.HealthDirectionPlan, error) {
	dir, err := s.Direction(ctx, direction)
	if err != nil {
		return nil, err
	}
	return repo.FindDirectionPlansByUserID(ctx, s.DB, userID, &dir.ID)
}

// AddTask adds a task to one of the user's plans.
func (s *DirectionService) AddTask(ctx context.Context, userID, planID uint, in TaskInput) (*domain.HealthDirectionTask, error) {
	title, err := requiredText("title", in.Title, maxTitleRunes)
	if err != nil {
		return nil, err
	}
	due, err := parseOptionalDate("due_date", in.DueDate)
	if err != nil {
		return nil, err
	}
	if err := s.ensurePlan(ctx, userID, planID); err != nil {
		return nil, err
	}
	t := &domain.HealthDirectionTask{
		UserID:      userID,
		PlanID:      planID,
		Title:       title,
		Description: optionalText(in.Description),
		DueDate:     due,
	}
	if err := repo.CreateDirectionTask(ctx, s.DB, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Tasks lists the tasks of one of the user's plans.
func (s *DirectionService) Tasks(ctx context.Context, userID, planID uint) ([]domain.HealthDirectionTask, error) {
	if err := s.ensurePlan(ctx, userID, planID); err != nil {
		return nil, err
	}
	return repo.FindDirectionTasksByPlanID(ctx, s.DB, userID, planID)
}

// SetTaskCompleted toggles a task's completion flag.
func (s *DirectionService) SetTaskCompleted(ctx context.Context, userID, planID, taskID uint, completed bool) error {
	if err := s.ensurePlan(ctx, userID, planID); err != nil {
		return err
	}
	err := repo.SetDirectionTaskCompleted(ctx, s.DB, userID, planID, taskID, completed)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrTaskNotFound
	}
	return err
}

// RecordMetric appends a measurement under the named direction.
func (s *DirectionService) RecordMetric(ctx context.Context, userID uint, direction string, in DirectionMetricInput) (*domain.HealthDirectionMetric, error) {
	dir, err := s.Direction(ctx, direction)
	if err != nil {
		return nil, err
	}
	name := metricKey(in.Name)
	if name == "" {
		return nil, invalid("metric_name", "is required")
	}
	if err := finite("value", in.Value); err != nil {
		return nil, err
	}
	if err := ensureUser(ctx, s.DB, userID); err != nil {
		return nil, err
	}
	var meta domain.MetricMetadata
	if in.Metadata != nil {
		meta = *in.Metadata
	}
	m := &domain.HealthDirectionMetric{
		UserID:      userID,
		DirectionID: dir.ID,
		MetricName:  name,
		Value:       in.Value,
		Unit:        optionalText(in.Unit),
		Metadata:    datatypes.NewJSONType(meta),
	}
	if in.RecordedAt != nil {
		m.RecordedAt = in.RecordedAt.UTC()
	}
	if err := repo.CreateDirectionMetric(ctx, s.DB, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Metrics lists the user's measurements in the named direction, newest first.
func (s *DirectionService) Metrics(ctx context.Context, userID uint, direction string, limit int) ([]domain.HealthDirectionMetric, error) {
	dir, err := s.Direction(ctx, direction)
	if err != nil {
		return nil, err
	}
	return repo.FindDirectionMetrics(ctx, s.DB, userID, dir.ID, clampLimit(limit, s.DefaultMetricLimit, s.MaxMetricLimit))
}

// CreateReport stores a report for the named direction.
func (s *DirectionService) CreateReport(ctx context.Context, userID uint, direction string, in ReportInput) (*domain.HealthDirectionReport, error) {
	dir, err := s.Direction(ctx, direction)
	if err != nil {
		return nil, err
	}
	title, err := requiredText("title", in.Title, maxTitleRunes)
	if err != nil {
		return nil, err
	}
	start, err := parseOptionalDate("period_start", in.PeriodStart)
	if err != nil {
		return nil, err
	}
	end, err := parseOptionalDate("period_end", in.PeriodEnd)
	if err != nil {
		return nil, err
	}
	if err := checkRange("period", start, end); err != nil {
		return nil, err
	}
	if err := ensureUser(ctx, s.DB, userID); err != nil {
		return nil, err
	}

	var summary domain.ReportSummary
	if in.Summary != nil {
		summary = *in.Summary
	} else {
		summary, err = s.summarize(ctx, userID, dir.ID, start, end)
		if err != nil {
			return nil, err
		}
	}
	r := &domain.HealthDirectionReport{
		UserID:      userID,
		DirectionID: dir.ID,
		Title:       title,
		PeriodStart: start,
		PeriodEnd:   end,
		Summary:     datatypes.NewJSONType(summary),
	}
	if err := repo.CreateDirectionReport(ctx, s.DB, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Reports lists the user's reports for the named direction.
func (s *DirectionService) Reports(ctx context.Context, userID uint, direction string) ([]domain.HealthDirectionReport, error) {
	dir, err := s.Direction(ctx, direction)
	if err != nil {
		return nil, err
	}
	return repo.FindDirectionReports(ctx, s.DB, userID, dir.ID)
}

// summarize counts the direction's metrics recorded within the period and
// the completed tasks of the user's plans in that direction that are due
// within it. Undated tasks always count. Open bounds are unbounded.
func (s *DirectionService) summarize(ctx context.Context, userID, directionID uint, start, end *domain.Date) (domain.ReportSummary, error) {
	var sum domain.ReportSummary

	metrics, err := repo.CountDirectionMetrics(ctx, s.DB, userID, directionID, start, end)
	if err != nil {
		return sum, err
	}
	tasks, err := repo.CountCompletedDirectionTasks(ctx, s.DB, userID, directionID, start, end)
	if err != nil {
		return sum, err
	}
	sum.MetricsCount = int(metrics)
	sum.TasksCompleted = int(tasks)
	return sum, nil
}

func (s *DirectionService) ensurePlan(ctx context.Context, userID, planID uint) error {
	p, err := repo.FindDirectionPlanByID(ctx, s.DB, userID, planID)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrPlanNotFound
	}
	return nil
}
