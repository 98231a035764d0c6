// Daily plan HTTP handlers.
//
//   - GET    /users/{userId}/plans?date=|startDate=&endDate=
//   - POST   /users/{userId}/plans
//   - PATCH  /users/{userId}/plans/{planId}   ({"completed": bool})
//   - DELETE /users/{userId}/plans/{planId}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-health-backend/internal/domain"
	"github.com/tbourn/go-health-backend/internal/services"
)

// CreatePlanRequest is the payload of a new plan item. Date defaults to
// today (UTC).
type CreatePlanRequest struct {
	Date        string  `json:"date" example:"2024-05-01"`
	Time        *string `json:"time" example:"08:30"`
	Title       string  `json:"title" example:"Morning run"`
	Description *string `json:"description" example:"5 km easy pace"`
	Category    *string `json:"category" example:"activity"`
}

// UpdatePlanRequest toggles completion.
type UpdatePlanRequest struct {
	Completed *bool `json:"completed" example:"true"`
}

// PlansResponse wraps a plan listing.
type PlansResponse struct {
	Plans []domain.DailyPlan `json:"plans"`
}

// PlanResponse wraps one plan.
type PlanResponse struct {
	Plan *domain.DailyPlan `json:"plan"`
}

// ListPlans godoc
// @ID          listPlans
// @Summary     List daily plans
// @Description Filters by one date, or by an inclusive startDate..endDate range; defaults to today.
// @Tags        Plans
// @Produce     json
// @Param       userId     path   int     true   "User ID"
// @Param       date       query  string  false  "Single day (YYYY-MM-DD)"
// @Param       startDate  query  string  false  "Range start (inclusive)"
// @Param       endDate    query  string  false  "Range end (inclusive)"
// @Success     200  {object}  handlers.PlansResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid date or range"
// @Failure     404  {object}  handlers.ErrorResponse  "User not found"
// @Router      /users/{userId}/plans [get]
func (h *Handlers) ListPlans(c *gin.Context) {
	uid, valid := pathUserID(c)
	if !valid {
		return
	}
	plans, err := h.svc.Plans.List(c.Request.Context(), uid, services.PlanQuery{
		Date:      c.Query("date"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, PlansResponse{Plans: plans})
}

// CreatePlan godoc
// @ID          createPlan
// @Summary     Add a daily plan item
// @Tags        Plans
// @Accept      json
// @Produce     json
// @Param       userId  path      int                         true  "User ID"
// @Param       body    body      handlers.CreatePlanRequest  true  "Plan item"
// @Success     201     {object}  handlers.PlanResponse
// @Failure     400     {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     409     {object}  handlers.ErrorResponse  "Same date, time and title already planned"
// @Router      /users/{userId}/plans [post]
func (h *Handlers) CreatePlan(c *gin.Context) {
	uid, valid := pathUserID(c)
	if !valid {
		return
	}
	var req CreatePlanRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.svc.Plans.Create(c.Request.Context(), uid, services.PlanInput{
		Date:        req.Date,
		Time:        req.Time,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, PlanResponse{Plan: p})
}

// UpdatePlan godoc
// @ID          updatePlan
// @Summary     Mark a plan item done or not done
// @Tags        Plans
// @Accept      json
// @Produce     json
// @Param       userId  path      int                         true  "User ID"
// @Param       planId  path      int                         true  "Plan ID"
// @Param       body    body      handlers.UpdatePlanRequest  true  "Completion flag"
// @Success     200     {object}  handlers.PlanResponse
// @Failure     400     {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404     {object}  handlers.ErrorResponse  "Plan not found"
// @Router      /users/{userId}/plans/{planId} [patch]
func (h *Handlers) UpdatePlan(c *gin.Context) {
	uid, valid := pathUserID(c)
	if !valid {
		return
	}
	planID, valid := pathID(c, "planId")
	if !valid {
		return
	}
	var req UpdatePlanRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Completed == nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "completed is required")
		return
	}
	p, err := h.svc.Plans.SetCompleted(c.Request.Context(), uid, planID, *req.Completed)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, PlanResponse{Plan: p})
}

// DeletePlan godoc
// @ID          deletePlan
// @Summary     Delete a plan item
// @Tags        Plans
// @Param       userId  path  int  true  "User ID"
// @Param       planId  path  int  true  "Plan ID"
// @Success     204  {string}  string  "No Content"
// @Failure     404  {object}  handlers.ErrorResponse  "Plan not found"
// @Router      /users/{userId}/plans/{planId} [delete]
func (h *Handlers) DeletePlan(c *gin.Context) {
	uid, valid := pathUserID(c)
	if !valid {
		return
	}
	planID, valid := pathID(c, "planId")
	if !valid {
		return
	}
	if err := h.svc.Plans.Delete(c.Request.Context(), uid, planID); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}
