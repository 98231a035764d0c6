package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-health-backend/internal/domain"
	"github.com/tbourn/go-health-backend/internal/repo"
)

// GoalInput is the payload of a new goal.
type GoalInput struct {
	Title        string
	Category     *string
	TargetValue  *float64
	CurrentValue *float64
	Unit         *string
	Deadline     *string
}

// GoalService creates and lists goals. Goals have no update path.
type GoalService struct {
	DB *gorm.DB
}

// Create validates in and inserts a goal.
func (s *GoalService) Create(ctx context.Context, userID uint, in GoalInput) (*domain.Goal, error) {
	title, err := requiredText("title", in.Title, maxTitleRunes)
	if err != nil {
		return nil, err
	}
	deadline, err := parseOptionalDate("deadline", in.Deadline)
	if err != nil {
		return nil, err
	}
	if in.TargetValue != nil {
		if err := finite("target_value", *in.TargetValue); err != nil {
			return nil, err
		}
	}
	g := &domain.Goal{
		UserID:      userID,
		Title:       title,
		Category:    optionalText(in.Category),
		TargetValue: in.TargetValue,
		Unit:        optionalText(in.Unit),
		Deadline:    deadline,
	}
	if in.CurrentValue != nil {
		if err := finite("current_value", *in.CurrentValue); err != nil {
			return nil, err
		}
		g.CurrentValue = *in.CurrentValue
	}
	if err := ensureUser(ctx, s.DB, userID); err != nil {
		return nil, err
	}
	if err := repo.CreateGoal(ctx, s.DB, g); err != nil {
		return nil, err
	}
	return g, nil
}

// List returns the user's goals.
func (s *GoalService) List(ctx context.Context, userID uint) ([]domain.Goal, error) {
	return repo.FindGoalsByUserID(ctx, s.DB, userID)
}

// Stats fingerprints the user's goals for conditional responses.
func (s *GoalService) Stats(ctx context.Context, userID uint) (repo.CollectionStats, error) {
	return repo.GoalsStats(ctx, s.DB, userID)
}
