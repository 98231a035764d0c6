// Auth HTTP handlers.
//
//   - POST /auth/register
//   - POST /auth/login
//   - POST /auth/telegram-auth
//   - POST /auth/connect-telegram
//
// All four answer {"user": ..., "token": ...}.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-health-backend/internal/domain"
	"github.com/tbourn/go-health-backend/internal/http/middleware"
	"github.com/tbourn/go-health-backend/internal/services"
)

//
// DTOs
//

// RegisterRequest is the payload of an email registration.
type RegisterRequest struct {
	Email    string `json:"email" example:"a@b.com"`
	Password string `json:"password" example:"secret"`
	Name     string `json:"name" example:"A"`
}

// LoginRequest is the payload of an email login.
type LoginRequest struct {
	Email    string `json:"email" example:"a@b.com"`
	Password string `json:"password" example:"secret"`
}

// TelegramAuthRequest carries the Telegram identity of the caller.
type TelegramAuthRequest struct {
	TelegramID int64  `json:"telegram_id" example:"123456789"`
	Username   string `json:"username" example:"jdoe"`
	FirstName  string `json:"first_name" example:"John"`
	LastName   string `json:"last_name" example:"Doe"`
}

func (r TelegramAuthRequest) identity() services.TelegramIdentity {
	return services.TelegramIdentity{
		ID:        r.TelegramID,
		Username:  r.Username,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}
}

// ConnectTelegramRequest links a Telegram identity to the bearer token's
// user. UserID is optional; when set it must name that user.
type ConnectTelegramRequest struct {
	UserID uint `json:"user_id" example:"1"`
	TelegramAuthRequest
}

// AuthResponse is returned by every auth endpoint.
type AuthResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

func authResponse(res *services.AuthResult) AuthResponse {
	return AuthResponse{User: res.User, Token: res.Token}
}

//
// Handlers
//

// Register godoc
// @ID          register
// @Summary     Register with email and password
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.RegisterRequest  true  "Registration"
// @Success     201   {object}  handlers.AuthResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Invalid input or user already exists"
// @Failure     500   {object}  handlers.ErrorResponse  "Internal error"
// @Router      /auth/register [post]
func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.svc.Auth.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, authResponse(res))
}

// Login godoc
// @ID          login
// @Summary     Log in with email and password
// @Description Unknown email and wrong password both answer 401 "Invalid credentials".
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.LoginRequest  true  "Credentials"
// @Success     200   {object}  handlers.AuthResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401   {object}  handlers.ErrorResponse  "Invalid credentials"
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.svc.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, authResponse(res))
}

// TelegramAuth godoc
// @ID          telegramAuth
// @Summary     Sign in with a Telegram identity
// @Description Finds the user linked to telegram_id or creates one (201).
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.TelegramAuthRequest  true  "Telegram identity"
// @Success     200   {object}  handlers.AuthResponse  "Existing user"
// @Success     201   {object}  handlers.AuthResponse  "User created"
// @Failure     400   {object}  handlers.ErrorResponse "Bad request"
// @Router      /auth/telegram-auth [post]
func (h *Handlers) TelegramAuth(c *gin.Context) {
	var req TelegramAuthRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.svc.Auth.TelegramAuth(c.Request.Context(), req.identity())
	if err != nil {
		failErr(c, err)
		return
	}
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	ok(c, status, authResponse(res))
}

// ConnectTelegram godoc
// @ID          connectTelegram
// @Summary     Link a Telegram account to the authenticated user
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       Authorization  header    string                           true  "Bearer token of the user being linked"
// @Param       body           body      handlers.ConnectTelegramRequest  true  "Telegram identity; user_id is optional and must match the token"
// @Success     200            {object}  handlers.AuthResponse
// @Failure     400            {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401            {object}  handlers.ErrorResponse  "Missing bearer token"
// @Failure     403            {object}  handlers.ErrorResponse  "user_id differs from the token subject"
// @Failure     404            {object}  handlers.ErrorResponse  "User not found"
// @Failure     409            {object}  handlers.ErrorResponse  "Telegram account linked to another user"
// @Router      /auth/connect-telegram [post]
func (h *Handlers) ConnectTelegram(c *gin.Context) {
	var req ConnectTelegramRequest
	if !bindJSON(c, &req) {
		return
	}

	// telegram-auth mints tokens for linked ids, so linking needs the
	// account owner's token.
	uid, authed := middleware.UserIDFrom(c)
	if !authed {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "bearer token required")
		return
	}
	if req.UserID != 0 && req.UserID != uid {
		fail(c, http.StatusForbidden, ErrCodeForbidden, "user_id does not match the token")
		return
	}

	res, err := h.svc.Auth.ConnectTelegram(c.Request.Context(), uid, req.identity())
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, authResponse(res))
}
