// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file resolves an optional bearer token to the caller's user ID. The
// API does not require a token; when one is sent it must be valid, and the
// resolved ID is stored under the "userID" context key where the access log,
// the rate limiter and the handlers pick it up.
package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// UserIDKey is the Gin context key holding the authenticated user ID as a
// decimal string.
const UserIDKey = "userID"

// TokenParser resolves a raw access token to the user it was issued for.
type TokenParser interface {
	ParseToken(raw string) (uint, error)
}

// OptionalAuth returns a middleware that reads "Authorization: Bearer <jwt>".
//
// Without the header the request continues anonymously. A header with any
// other scheme, or a token p rejects, ends the request with 401.
func OptionalAuth(p TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := strings.TrimSpace(c.GetHeader("Authorization"))
		if h == "" {
			c.Next()
			return
		}

		scheme, raw, found := strings.Cut(h, " ")
		raw = strings.TrimSpace(raw)
		if !found || !strings.EqualFold(scheme, "Bearer") || raw == "" {
			unauthorized(c, "authorization header must be a bearer token")
			return
		}

		uid, err := p.ParseToken(raw)
		if err != nil || uid == 0 {
			unauthorized(c, "invalid or expired token")
			return
		}

		sid := strconv.FormatUint(uint64(uid), 10)
		c.Set(UserIDKey, sid)
		withLoggerField(c, "user_id", sid)
		c.Next()
	}
}

// UserIDFrom returns the user ID stored by OptionalAuth.
func UserIDFrom(c *gin.Context) (uint, bool) {
	v, _ := c.Get(UserIDKey)
	s := asString(v)
	if s == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(s, 10, 0)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func unauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", `Bearer realm="api"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": c.Writer.Header().Get(requestIDHeader),
		"code":       "unauthorized",
		"message":    msg,
		"error":      msg,
	})
}
