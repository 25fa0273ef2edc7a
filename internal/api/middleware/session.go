package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/russiantown/portal/internal/core/domain"
)

// UserKey is the echo context key holding the signed-in *domain.User.
const UserKey = "user"

// CurrentUserer reports the signed-in user, or nil.
type CurrentUserer interface {
	CurrentUser() *domain.User
}

// Session injects the signed-in user, if any, into the request context.
// It never rejects; use RequireUser or RequirePanel for that.
//
// The portal holds a single process-wide session: every request acts as the
// one signed-in user. The API is an adapter for one local viewer and must
// not be exposed beyond it (the listen address defaults to loopback).
func Session(session CurrentUserer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if u := session.CurrentUser(); u != nil {
				c.Set(UserKey, u)
			}
			return next(c)
		}
	}
}

// RequireUser rejects requests made without a session.
func RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if UserFrom(c) == nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
			}
			return next(c)
		}
	}
}

// UserFrom returns the user injected by Session, or nil.
func UserFrom(c echo.Context) *domain.User {
	u, _ := c.Get(UserKey).(*domain.User)
	return u
}
