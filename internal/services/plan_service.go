package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-health-backend/internal/domain"
	"github.com/tbourn/go-health-backend/internal/repo"
)

const maxTitleRunes = 255

// PlanQuery selects daily plans either by a single date or by an inclusive
// range. With neither set, today's plans (UTC) are returned.
type PlanQuery struct {
	Date      string
	StartDate string
	EndDate   string
}

// PlanInput is the payload of a new daily plan item.
type PlanInput struct {
	Date        string
	Time        *string
	Title       string
	Description *string
	Category    *string
}

// PlanService manages daily plan items.
type PlanService struct {
	DB  *gorm.DB
	now func() time.Time
}

// NewPlanService constructs a PlanService.
func NewPlanService(db *gorm.DB) *PlanService {
	return &PlanService{DB: db, now: time.Now}
}

// List returns the user's plans for q, ordered by date then time.
func (s *PlanService) List(ctx context.Context, userID uint, q PlanQuery) ([]domain.DailyPlan, error) {
	switch {
	case q.Date != "":
		d, err := parseDate("date", q.Date)
		if err != nil {
			return nil, err
		}
		return repo.FindDailyPlansByUserIDAndDate(ctx, s.DB, userID, d)
	case q.StartDate != "" || q.EndDate != "":
		if q.StartDate == "" || q.EndDate == "" {
			return nil, invalid("startDate/endDate", "must be given together")
		}
		start, err := parseDate("startDate", q.StartDate)
		if err != nil {
			return nil, err
		}
		end, err := parseDate("endDate", q.EndDate)
		if err != nil {
			return nil, err
		}
		if err := checkRange("date range", &start, &end); err != nil {
			return nil, err
		}
		return repo.FindDailyPlansByUserIDAndDateRange(ctx, s.DB, userID, start, end)
	default:
		return repo.FindDailyPlansByUserIDAndDate(ctx, s.DB, userID, domain.DateOf(s.now().UTC()))
	}
}

// Create validates in and inserts a plan item. The same user, date, time and
// title twice yields ErrDuplicatePlan.
func (s *PlanService) Create(ctx context.Context, userID uint, in PlanInput) (*domain.DailyPlan, error) {
	date := domain.DateOf(s.now().UTC())
	if in.Date != "" {
		d, err := parseDate("date", in.Date)
		if err != nil {
			return nil, err
		}
		date = d
	}
	title, err := requiredText("title", in.Title, maxTitleRunes)
	if err != nil {
		return nil, err
	}
	var at *string
	if in.Time != nil && *in.Time != "" {
		t, err := parseClock("time", *in.Time)
		if err != nil {
			return nil, err
		}
		at = &t
	}
	if err := ensureUser(ctx, s.DB, userID); err != nil {
		return nil, err
	}

	p := &domain.DailyPlan{
		UserID:      userID,
		Date:        date,
		Time:        at,
		Title:       title,
		Description: optionalText(in.Description),
		Category:    optionalText(in.Category),
	}
	if err := repo.CreateDailyPlan(ctx, s.DB, p); err != nil {
		if repo.IsDuplicate(err) {
			return nil, ErrDuplicatePlan
		}
		return nil, err
	}
	return p, nil
}

// SetCompleted toggles the completed flag and returns the updated item.
func (s *PlanService) SetCompleted(ctx context.Context, userID, planID uint, completed bool) (*domain.DailyPlan, error) {
	if err := repo.SetDailyPlanCompleted(ctx, s.DB, userID, planID, completed); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	p, err := repo.FindDailyPlanByID(ctx, s.DB, userID, planID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPlanNotFound
	}
	return p, nil
}

// Delete removes a plan item owned by userID.
func (s *PlanService) Delete(ctx context.Context, userID, planID uint) error {
	if err := repo.DeleteDailyPlan(ctx, s.DB, userID, planID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	return nil
}
