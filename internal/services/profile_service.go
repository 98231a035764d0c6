package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-health-backend/internal/domain"
	"github.com/tbourn/go-health-backend/internal/repo"
)

var bloodTypes = map[string]struct{}{
	"A+": {}, "A-": {}, "B+": {}, "B-": {}, "AB+": {}, "AB-": {}, "O+": {}, "O-": {},
}

var genders = map[string]struct{}{
	"male": {}, "female": {}, "other": {}, "prefer_not_to_say": {},
}

// ProfileInput is a partial profile update. Nil fields keep their stored
// value.
type ProfileInput struct {
	DateOfBirth         *string
	Height              *float64
	Weight              *float64
	Gender              *string
	BloodType           *string
	OnboardingCompleted *bool
}

// ProfileService reads and merges user profiles.
type ProfileService struct {
	DB  *gorm.DB
	now func() time.Time
}

// NewProfileService constructs a ProfileService.
func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{DB: db, now: time.Now}
}

// Get returns the user's profile, or nil when the user never saved one.
func (s *ProfileService) Get(ctx context.Context, userID uint) (*domain.Profile, error) {
	if err := ensureUser(ctx, s.DB, userID); err != nil {
		return nil, err
	}
	return repo.FindProfileByUserID(ctx, s.DB, userID)
}

// Update validates in and merges it into the stored profile, creating the
// row on first write.
func (s *ProfileService) Update(ctx context.Context, userID uint, in ProfileInput) (*domain.Profile, error) {
	patch, err := s.patch(in)
	if err != nil {
		return nil, err
	}
	if err := ensureUser(ctx, s.DB, userID); err != nil {
		return nil, err
	}
	return repo.UpsertProfile(ctx, s.DB, userID, patch)
}

func (s *ProfileService) patch(in ProfileInput) (repo.ProfilePatch, error) {
	var p repo.ProfilePatch

	dob, err := parseOptionalDate("date_of_birth", in.DateOfBirth)
	if err != nil {
		return p, err
	}
	if dob != nil && *dob > domain.DateOf(s.now().UTC()) {
		return p, invalid("date_of_birth", "is in the future")
	}
	p.DateOfBirth = dob

	if in.Height != nil {
		if err := finite("height", *in.Height); err != nil {
			return p, err
		}
		if *in.Height <= 0 || *in.Height > 300 {
			return p, invalid("height", "must be between 0 and 300 cm")
		}
		p.Height = in.Height
	}
	if in.Weight != nil {
		if err := finite("weight", *in.Weight); err != nil {
			return p, err
		}
		if *in.Weight <= 0 || *in.Weight > 700 {
			return p, invalid("weight", "must be between 0 and 700 kg")
		}
		p.Weight = in.Weight
	}
	if in.Gender != nil {
		g := strings.ToLower(normalizeText(*in.Gender))
		if _, ok := genders[g]; !ok {
			return p, invalid("gender", "must be one of male, female, other, prefer_not_to_say")
		}
		p.Gender = &g
	}
	if in.BloodType != nil {
		bt := strings.ToUpper(strings.ReplaceAll(*in.BloodType, " ", ""))
		if _, ok := bloodTypes[bt]; !ok {
			return p, invalid("blood_type", "is not a known ABO/Rh group")
		}
		p.BloodType = &bt
	}
	p.OnboardingCompleted = in.OnboardingCompleted
	return p, nil
}
