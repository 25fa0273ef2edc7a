package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/russiantown/portal/internal/core/domain"
	"github.com/russiantown/portal/internal/core/service"
	"github.com/russiantown/portal/internal/core/state"
)

// StatusFor maps an error to the HTTP status the portal answers with.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrAuth):
		// A banned account is refused with 403 by the backend; keep it.
		var re *domain.RequestError
		if errors.As(err, &re) && re.Status == http.StatusForbidden {
			return http.StatusForbidden
		}
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRegistration):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUpdate),
		errors.Is(err, domain.ErrRequest),
		errors.Is(err, domain.ErrReload):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respond renders an action outcome together with the state it left behind.
func respond(c echo.Context, store *state.Store, out service.Outcome) error {
	return c.JSON(StatusFor(out.Err()), actionResponse{
		OK:      out.OK,
		Notices: out.Notices,
		State:   newStateResponse(store.Snapshot()),
	})
}

// bindAndValidate decodes the request body into req and validates it.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}
