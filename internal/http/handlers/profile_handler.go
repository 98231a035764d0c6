// Profile HTTP handlers.
//
//   - GET /users/{userId}/profile
//   - PUT /users/{userId}/profile   (partial merge; omitted fields are kept)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-health-backend/internal/domain"
	"github.com/tbourn/go-health-backend/internal/services"
)

// UpdateProfileRequest is a partial profile. Only present keys change.
type UpdateProfileRequest struct {
	DateOfBirth         *string  `json:"date_of_birth" example:"1990-04-21"`
	Height              *float64 `json:"height" example:"178.5"`
	Weight              *float64 `json:"weight" example:"72.4"`
	Gender              *string  `json:"gender" example:"female"`
	BloodType           *string  `json:"blood_type" example:"A+"`
	OnboardingCompleted *bool    `json:"onboarding_completed" example:"true"`
}

// ProfileResponse wraps a profile; Profile is null when none was saved.
type ProfileResponse struct {
	Profile *domain.Profile `json:"profile"`
}

// GetProfile godoc
// @ID          getProfile
// @Summary     Get a user's profile
// @Tags        Profile
// @Produce     json
// @Param       userId  path      int  true  "User ID"
// @Success     200     {object}  handlers.ProfileResponse
// @Failure     400     {object}  handlers.ErrorResponse  "Bad request"
// @Failure     403     {object}  handlers.ErrorResponse  "Token is for another user"
// @Failure     404     {object}  handlers.ErrorResponse  "User not found"
// @Router      /users/{userId}/profile [get]
func (h *Handlers) GetProfile(c *gin.Context) {
	uid, valid := pathUserID(c)
	if !valid {
		return
	}
	p, err := h.svc.Profiles.Get(c.Request.Context(), uid)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, ProfileResponse{Profile: p})
}

// UpdateProfile godoc
// @ID          updateProfile
// @Summary     Create or merge a user's profile
// @Tags        Profile
// @Accept      json
// @Produce     json
// @Param       userId  path      int                            true  "User ID"
// @Param       body    body      handlers.UpdateProfileRequest  true  "Fields to change"
// @Success     200     {object}  handlers.ProfileResponse
// @Failure     400     {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     404     {object}  handlers.ErrorResponse  "User not found"
// @Router      /users/{userId}/profile [put]
func (h *Handlers) UpdateProfile(c *gin.Context) {
	uid, valid := pathUserID(c)
	if !valid {
		return
	}
	var req UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.svc.Profiles.Update(c.Request.Context(), uid, services.ProfileInput{
		DateOfBirth:         req.DateOfBirth,
		Height:              req.Height,
		Weight:              req.Weight,
		Gender:              req.Gender,
		BloodType:           req.BloodType,
		OnboardingCompleted: req.OnboardingCompleted,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, ProfileResponse{Profile: p})
}
