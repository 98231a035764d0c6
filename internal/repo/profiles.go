package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-health-backend/internal/domain"
)

// ProfilePatch carries the profile fields a caller wants to set. A nil field
// keeps the stored value (or the column default on first insert).
type ProfilePatch struct {
	DateOfBirth         *domain.Date
	Height              *float64
	Weight              *float64
	Gender              *string
	BloodType           *string
	OnboardingCompleted *bool
}

// columns returns the row to insert and the columns the patch touches.
func (p ProfilePatch) columns(userID uint) (domain.Profile, []string) {
	row := domain.Profile{UserID: userID}
	var cols []string
	if p.DateOfBirth != nil {
		row.DateOfBirth = p.DateOfBirth
		cols = append(cols, "date_of_birth")
	}
	if p.Height != nil {
		row.Height = p.Height
		cols = append(cols, "height")
	}
	if p.Weight != nil {
		row.Weight = p.Weight
		cols = append(cols, "weight")
	}
	if p.Gender != nil {
		row.Gender = p.Gender
		cols = append(cols, "gender")
	}
	if p.BloodType != nil {
		row.BloodType = p.BloodType
		cols = append(cols, "blood_type")
	}
	if p.OnboardingCompleted != nil {
		row.OnboardingCompleted = *p.OnboardingCompleted
		cols = append(cols, "onboarding_completed")
	}
	return row, cols
}

// FindProfileByUserID returns the user's profile or nil when none exists.
func FindProfileByUserID(ctx context.Context, db *gorm.DB, userID uint) (*domain.Profile, error) {
	return findOne[domain.Profile](db.WithContext(ctx).Where("user_id = ?", userID))
}

// UpsertProfile creates the user's profile or merges patch into the
// existing one in a single INSERT ... ON CONFLICT (user_id) DO UPDATE
// statement, then reads the row back. Only fields present in patch are
// overwritten, so concurrent upserts for the same user never produce a
// second row and never lose fields the other writer did not touch.
func UpsertProfile(ctx context.Context, db *gorm.DB, userID uint, patch ProfilePatch) (*domain.Profile, error) {
	if err := upsertProfile(db.WithContext(ctx), userID, patch).Error; err != nil {
		return nil, err
	}
	return FindProfileByUserID(ctx, db, userID)
}

func upsertProfile(tx *gorm.DB, userID uint, patch ProfilePatch) *gorm.DB {
	row, cols := patch.columns(userID)
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(append(cols, "updated_at")),
	}).Create(&row)
}
