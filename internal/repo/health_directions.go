package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-health-backend/internal/domain"
)

// ListHealthDirections returns the seeded directions in insertion order.
func ListHealthDirections(ctx context.Context, db *gorm.DB) ([]domain.HealthDirection, error) {
	out := []domain.HealthDirection{}
	return out, db.WithContext(ctx).Order("id asc").Find(&out).Error
}

// FindHealthDirectionByName returns the direction or nil.
func FindHealthDirectionByName(ctx context.Context, db *gorm.DB, name string) (*domain.HealthDirection, error) {
	return findOne[domain.HealthDirection](db.WithContext(ctx).Where("name = ?", name))
}

// FindHealthDirectionByID returns the direction or nil.
func FindHealthDirectionByID(ctx context.Context, db *gorm.DB, id uint) (*domain.HealthDirection, error) {
	return findOne[domain.HealthDirection](db.WithContext(ctx).Where("id = ?", id))
}

// CreateDirectionPlan inserts p with status "active" unless set.
func CreateDirectionPlan(ctx context.Context, db *gorm.DB, p *domain.HealthDirectionPlan) error {
	if p.Status == "" {
		p.Status = domain.PlanStatusActive
	}
	return db.WithContext(ctx).Create(p).Error
}

// FindDirectionPlanByID returns the user's plan or nil.
func FindDirectionPlanByID(ctx context.Context, db *gorm.DB, userID, id uint) (*domain.HealthDirectionPlan, error) {
	return findOne[domain.HealthDirectionPlan](db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID))
}

// FindDirectionPlansByUserID lists the user's plans newest first, optionally
// restricted to one direction.
func FindDirectionPlansByUserID(ctx context.Context, db *gorm.DB, userID uint, directionID *uint) ([]domain.HealthDirectionPlan, error) {
	out := []domain.HealthDirectionPlan{}
	q := db.WithContext(ctx).Where("user_id = ?", userID)
	if directionID != nil {
		q = q.Where("direction_id = ?", *directionID)
	}
	return out, q.Order("created_at desc").Order("id desc").Find(&out).Error
}

// CreateDirectionTask inserts a task under an existing plan.
func CreateDirectionTask(ctx context.Context, db *gorm.DB, t *domain.HealthDirectionTask) error {
	return db.WithContext(ctx).Create(t).Error
}

// FindDirectionTasksByPlanID lists the plan's tasks in creation order.
func FindDirectionTasksByPlanID(ctx context.Context, db *gorm.DB, userID, planID uint) ([]domain.HealthDirectionTask, error) {
	out := []domain.HealthDirectionTask{}
	err := db.WithContext(ctx).
		Where("user_id = ? AND plan_id = ?", userID, planID).
		Order("id asc").
		Find(&out).Error
	return out, err
}

// SetDirectionTaskCompleted flips a task's completion flag. Returns
// ErrNotFound if the task is not in planID or belongs to someone else.
func SetDirectionTaskCompleted(ctx context.Context, db *gorm.DB, userID, planID, id uint, completed bool) error {
	res := db.WithContext(ctx).
		Model(&domain.HealthDirectionTask{}).
		Where("id = ? AND plan_id = ? AND user_id = ?", id, planID, userID).
		Update("completed", completed)
	return affectedOrNotFound(res)
}

// CreateDirectionMetric appends a direction-scoped sample. RecordedAt
// defaults to now.
func CreateDirectionMetric(ctx context.Context, db *gorm.DB, m *domain.HealthDirectionMetric) error {
	if m.RecordedAt.IsZero() {
		m.RecordedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(m).Error
}

// FindDirectionMetrics lists samples newest first. limit <= 0 means no cap.
func FindDirectionMetrics(ctx context.Context, db *gorm.DB, userID, directionID uint, limit int) ([]domain.HealthDirectionMetric, error) {
	out := []domain.HealthDirectionMetric{}
	q := db.WithContext(ctx).
		Where("user_id = ? AND direction_id = ?", userID, directionID).
		Order("recorded_at desc").Order("id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return out, q.Find(&out).Error
}

// CountDirectionMetrics counts the user's samples for the direction recorded
// on UTC days within [start, end]. Nil bounds are open.
func CountDirectionMetrics(ctx context.Context, db *gorm.DB, userID, directionID uint, start, end *domain.Date) (int64, error) {
	q := db.WithContext(ctx).
		Model(&domain.HealthDirectionMetric{}).
		Where("user_id = ? AND direction_id = ?", userID, directionID)
	if start != nil {
		from, err := start.Time()
		if err != nil {
			return 0, err
		}
		q = q.Where("recorded_at >= ?", from)
	}
	if end != nil {
		to, err := end.Time()
		if err != nil {
			return 0, err
		}
		q = q.Where("recorded_at < ?", to.AddDate(0, 0, 1))
	}
	var n int64
	return n, q.Count(&n).Error
}

// CountCompletedDirectionTasks counts completed tasks across the user's plans
// in the direction. A task is placed in the period by its due date; tasks
// without one always count.
func CountCompletedDirectionTasks(ctx context.Context, db *gorm.DB, userID, directionID uint, start, end *domain.Date) (int64, error) {
	q := db.WithContext(ctx).
		Model(&domain.HealthDirectionTask{}).
		Joins("JOIN health_direction_plans ON health_direction_plans.id = health_direction_tasks.plan_id").
		Where("health_direction_tasks.user_id = ? AND health_direction_plans.direction_id = ?", userID, directionID).
		Where("health_direction_tasks.completed = ?", true)
	if start != nil {
		q = q.Where("(health_direction_tasks.due_date IS NULL OR health_direction_tasks.due_date >= ?)", *start)
	}
	if end != nil {
		q = q.Where("(health_direction_tasks.due_date IS NULL OR health_direction_tasks.due_date <= ?)", *end)
	}
	var n int64
	return n, q.Count(&n).Error
}

// CreateDirectionReport stores a periodic summary.
func CreateDirectionReport(ctx context.Context, db *gorm.DB, r *domain.HealthDirectionReport) error {
	return db.WithContext(ctx).Create(r).Error
}

// FindDirectionReports lists the user's reports for one direction, newest
// first.
func FindDirectionReports(ctx context.Context, db *gorm.DB, userID, directionID uint) ([]domain.HealthDirectionReport, error) {
	out := []domain.HealthDirectionReport{}
	err := db.WithContext(ctx).
		Where("user_id = ? AND direction_id = ?", userID, directionID).
		Order("created_at desc").Order("id desc").
		Find(&out).Error
	return out, err
}
