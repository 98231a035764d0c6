// Dashboard HTTP handlers.
//
//   - GET /users/{userId}/dashboard   (creates the default layout on first read)
//   - PUT /users/{userId}/dashboard
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-health-backend/internal/domain"
	"github.com/tbourn/go-health-backend/internal/services"
)

// UpdateDashboardRequest replaces dashboard fields. A present widgets list
// replaces the stored one wholesale.
type UpdateDashboardRequest struct {
	Layout  *domain.DashboardLayout `json:"layout"`
	Widgets *[]domain.Widget        `json:"widgets"`
	Theme   *string                 `json:"theme" example:"dark" enums:"light,dark,system"`
}

// DashboardResponse wraps the dashboard settings.
type DashboardResponse struct {
	Dashboard *domain.DashboardSettings `json:"dashboard"`
}

// GetDashboard godoc
// @ID          getDashboard
// @Summary     Dashboard layout, widgets and theme
// @Tags        Dashboard
// @Produce     json
// @Param       userId  path      int  true  "User ID"
// @Success     200     {object}  handlers.DashboardResponse
// @Failure     404     {object}  handlers.ErrorResponse  "User not found"
// @Router      /users/{userId}/dashboard [get]
func (h *Handlers) GetDashboard(c *gin.Context) {
	uid, valid := pathUserID(c)
	if !valid {
		return
	}
	d, err := h.svc.Dashboard.Get(c.Request.Context(), uid)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, DashboardResponse{Dashboard: d})
}

// UpdateDashboard godoc
// @ID          updateDashboard
// @Summary     Update dashboard settings
// @Tags        Dashboard
// @Accept      json
// @Produce     json
// @Param       userId  path      int                              true  "User ID"
// @Param       body    body      handlers.UpdateDashboardRequest  true  "Fields to replace"
// @Success     200     {object}  handlers.DashboardResponse
// @Failure     400     {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     404     {object}  handlers.ErrorResponse  "User not found"
// @Router      /users/{userId}/dashboard [put]
func (h *Handlers) UpdateDashboard(c *gin.Context) {
	uid, valid := pathUserID(c)
	if !valid {
		return
	}
	var req UpdateDashboardRequest
	if !bindJSON(c, &req) {
		return
	}
	d, err := h.svc.Dashboard.Update(c.Request.Context(), uid, services.DashboardInput{
		Layout:  req.Layout,
		Widgets: req.Widgets,
		Theme:   req.Theme,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, DashboardResponse{Dashboard: d})
}
