package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/russiantown/portal/internal/core/domain"
)

// Panel is a moderation surface with its own visibility rule.
type Panel int

const (
	// AdminPanel is open to every staff role.
	AdminPanel Panel = iota
	// OwnerPanel is open to the owner only.
	OwnerPanel
)

func (p Panel) allows(u *domain.User) bool {
	switch p {
	case AdminPanel:
		return u.CanAccessAdminPanel()
	case OwnerPanel:
		return u.IsOwner()
	default:
		return false
	}
}

// RequirePanel admits only users allowed to see panel. Requests without a
// session get 401, signed-in users without the privilege get 403.
func RequirePanel(panel Panel) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u := UserFrom(c)
			if u == nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
			}
			if !panel.allows(u) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
