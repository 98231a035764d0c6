// Goal HTTP handlers.
//
//   - GET  /users/{userId}/goals   (weak ETag, 304 on If-None-Match)
//   - POST /users/{userId}/goals
//
// Goals have no update endpoint; current_value is set only at creation.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-health-backend/internal/domain"
	"github.com/tbourn/go-health-backend/internal/services"
)

// CreateGoalRequest is the payload of a new goal.
type CreateGoalRequest struct {
	Title        string   `json:"title" example:"Lose 5 kg"`
	Category     *string  `json:"category" example:"weight"`
	TargetValue  *float64 `json:"target_value" example:"70"`
	CurrentValue *float64 `json:"current_value" example:"75"`
	Unit         *string  `json:"unit" example:"kg"`
	Deadline     *string  `json:"deadline" example:"2024-12-31"`
}

// GoalsResponse wraps a goal listing.
type GoalsResponse struct {
	Goals []domain.Goal `json:"goals"`
}

// GoalResponse wraps one goal.
type GoalResponse struct {
	Goal *domain.Goal `json:"goal"`
}

// ListGoals godoc
// @ID          listGoals
// @Summary     List goals
// @Tags        Goals
// @Produce     json
// @Param       userId         path    int     true   "User ID"
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"
// @Success     200  {object}  handlers.GoalsResponse
// @Header      200  {string}  ETag  "Weak ETag for current result"
// @Success     304  {string}  string "Not Modified"
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Router      /users/{userId}/goals [get]
func (h *Handlers) ListGoals(c *gin.Context) {
	uid, valid := pathUserID(c)
	if !valid {
		return
	}
	ctx := c.Request.Context()

	// Best effort: a stats failure only costs the conditional response.
	if st, err := h.svc.Goals.Stats(ctx, uid); err == nil && notModified(c, "goals", uid, st) {
		return
	}

	goals, err := h.svc.Goals.List(ctx, uid)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, GoalsResponse{Goals: goals})
}

// CreateGoal godoc
// @ID          createGoal
// @Summary     Create a goal
// @Tags        Goals
// @Accept      json
// @Produce     json
// @Param       userId  path      int                         true  "User ID"
// @Param       body    body      handlers.CreateGoalRequest  true  "Goal"
// @Success     201     {object}  handlers.GoalResponse
// @Failure     400     {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     404     {object}  handlers.ErrorResponse  "User not found"
// @Router      /users/{userId}/goals [post]
func (h *Handlers) CreateGoal(c *gin.Context) {
	uid, valid := pathUserID(c)
	if !valid {
		return
	}
	var req CreateGoalRequest
	if !bindJSON(c, &req) {
		return
	}
	g, err := h.svc.Goals.Create(c.Request.Context(), uid, services.GoalInput{
		Title:        req.Title,
		Category:     req.Category,
		TargetValue:  req.TargetValue,
		CurrentValue: req.CurrentValue,
		Unit:         req.Unit,
		Deadline:     req.Deadline,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, GoalResponse{Goal: g})
}
