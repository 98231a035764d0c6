package repo

import (
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-health-backend/internal/domain"
)

// DashboardPatch carries dashboard fields to replace. Nil keeps the current
// value.
type DashboardPatch struct {
	Layout  *domain.DashboardLayout
	Widgets []domain.Widget // nil keeps
	Theme   *string
}

func defaultDashboard(userID uint) domain.DashboardSettings {
	return domain.DashboardSettings{
		UserID:  userID,
		Layout:  datatypes.NewJSONType(domain.DefaultLayout()),
		Widgets: datatypes.NewJSONSlice(domain.DefaultWidgets()),
		Theme:   domain.ThemeLight,
	}
}

// FindOrCreateDashboardSettings returns the user's dashboard, writing the
// default layout first if none exists. Concurrent first reads converge on a
// single row.
func FindOrCreateDashboardSettings(ctx context.Context, db *gorm.DB, userID uint) (*domain.DashboardSettings, error) {
	row := defaultDashboard(userID)
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&row).Error
	if err != nil {
		return nil, err
	}
	return findOne[domain.DashboardSettings](db.WithContext(ctx).Where("user_id = ?", userID))
}

// UpsertDashboardSettings applies patch over the defaults on first write, or
// over the stored row otherwise, in one statement.
func UpsertDashboardSettings(ctx context.Context, db *gorm.DB, userID uint, patch DashboardPatch) (*domain.DashboardSettings, error) {
	row := defaultDashboard(userID)
	var cols []string
	if patch.Layout != nil {
		row.Layout = datatypes.NewJSONType(*patch.Layout)
		cols = append(cols, "layout")
	}
	if patch.Widgets != nil {
		row.Widgets = datatypes.NewJSONSlice(patch.Widgets)
		cols = append(cols, "widgets")
	}
	if patch.Theme != nil {
		row.Theme = *patch.Theme
		cols = append(cols, "theme")
	}
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(append(cols, "updated_at")),
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}
	return findOne[domain.DashboardSettings](db.WithContext(ctx).Where("user_id = ?", userID))
}
