package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-health-backend/internal/domain"
	"github.com/tbourn/go-health-backend/internal/repo"
)

const maxWidgets = 32

var themes = map[string]struct{}{
	domain.ThemeLight:  {},
	domain.ThemeDark:   {},
	domain.ThemeSystem: {},
}

// DashboardInput replaces dashboard fields. Nil fields keep their stored
// value; a non-nil Widgets replaces the whole list.
type DashboardInput struct {
	Layout  *domain.DashboardLayout
	Widgets *[]domain.Widget
	Theme   *string
}

// DashboardService reads and updates per-user dashboard settings.
type DashboardService struct {
	DB *gorm.DB
}

// Get returns the user's dashboard, creating the default one on first read.
func (s *DashboardService) Get(ctx context.Context, userID uint) (*domain.DashboardSettings, error) {
	if err := ensureUser(ctx, s.DB, userID); err != nil {
		return nil, err
	}
	return repo.FindOrCreateDashboardSettings(ctx, s.DB, userID)
}

// Update validates in and upserts it.
func (s *DashboardService) Update(ctx context.Context, userID uint, in DashboardInput) (*domain.DashboardSettings, error) {
	var patch repo.DashboardPatch
	if in.Layout != nil {
		if in.Layout.Columns < 1 || in.Layout.Columns > 12 {
			return nil, invalid("layout.columns", "must be between 1 and 12")
		}
		if in.Layout.RowHeight < 0 {
			return nil, invalid("layout.row_height", "must not be negative")
		}
		patch.Layout = in.Layout
	}
	if in.Widgets != nil {
		widgets, err := validWidgets(*in.Widgets)
		if err != nil {
			return nil, err
		}
		patch.Widgets = widgets
	}
	if in.Theme != nil {
		t := strings.ToLower(strings.TrimSpace(*in.Theme))
		if _, ok := themes[t]; !ok {
			return nil, invalid("theme", "must be light, dark or system")
		}
		patch.Theme = &t
	}
	if err := ensureUser(ctx, s.DB, userID); err != nil {
		return nil, err
	}
	return repo.UpsertDashboardSettings(ctx, s.DB, userID, patch)
}

func validWidgets(in []domain.Widget) ([]domain.Widget, error) {
	if len(in) > maxWidgets {
		return nil, invalid("widgets", "has too many entries")
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]domain.Widget, 0, len(in))
	for _, w := range in {
		w.ID = strings.TrimSpace(w.ID)
		if w.ID == "" {
			return nil, invalid("widgets.id", "is required")
		}
		if _, dup := seen[w.ID]; dup {
			return nil, invalid("widgets.id", "must be unique")
		}
		seen[w.ID] = struct{}{}
		if _, ok := domain.WidgetTypes[w.Type]; !ok {
			return nil, invalid("widgets.type", "is not a known widget type")
		}
		p := w.Position
		if p.X < 0 || p.Y < 0 || p.W < 1 || p.H < 1 {
			return nil, invalid("widgets.position", "must have non-negative x/y and positive w/h")
		}
		out = append(out, w)
	}
	return out, nil
}
