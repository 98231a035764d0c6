package repo

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-health-backend/internal/domain"
)

// healthDirectionSeed is the fixed reference data inserted at every start.
var healthDirectionSeed = []domain.HealthDirection{
	{Name: "nutrition", DisplayName: "Nutrition", Description: "Diet quality, meal planning and hydration", Icon: "apple", Color: "#22c55e"},
	{Name: "activity", DisplayName: "Physical Activity", Description: "Movement, training and daily steps", Icon: "activity", Color: "#3b82f6"},
	{Name: "sleep", DisplayName: "Sleep", Description: "Sleep duration, regularity and recovery", Icon: "moon", Color: "#8b5cf6"},
	{Name: "mental_health", DisplayName: "Mental Health", Description: "Stress, mood and mindfulness", Icon: "brain", Color: "#f59e0b"},
	{Name: "longevity", DisplayName: "Longevity", Description: "Preventive checkups and biomarkers", Icon: "heart", Color: "#ef4444"},
}

// HealthDirectionSeed returns a copy of the directions Bootstrap inserts.
func HealthDirectionSeed() []domain.HealthDirection {
	out := make([]domain.HealthDirection, len(healthDirectionSeed))
	copy(out, healthDirectionSeed)
	return out
}

// Bootstrap brings the schema up to date and seeds reference data. It is
// safe to run on every start: tables are created in foreign-key order when
// missing, columns added to models since the table was created are added in
// place, and the seed skips directions that already exist.
//
// There is no versioning and no rollback. Any error aborts startup.
func Bootstrap(ctx context.Context, db *gorm.DB) error {
	tx := db.WithContext(ctx)
	for _, m := range domain.AllModels() {
		if err := tx.AutoMigrate(m); err != nil {
			return fmt.Errorf("migrate %T: %w", m, err)
		}
	}
	if err := seedHealthDirections(ctx, db); err != nil {
		return fmt.Errorf("seed health directions: %w", err)
	}
	log.Info().Int("tables", len(domain.AllModels())).Msg("schema bootstrap complete")
	return nil
}

func seedHealthDirections(ctx context.Context, db *gorm.DB) error {
	rows := HealthDirectionSeed()
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&rows).Error
}
