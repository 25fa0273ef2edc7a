package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/russiantown/portal/internal/core/ports"
	"github.com/russiantown/portal/internal/core/service"
	"github.com/russiantown/portal/internal/core/state"
)

// SessionHandler serves the identity routes and the shared state snapshot.
type SessionHandler struct {
	actions *service.Actions
	store   *state.Store
}

func NewSessionHandler(actions *service.Actions, store *state.Store) *SessionHandler {
	return &SessionHandler{actions: actions, store: store}
}

// State handles GET /api/state.
//
// @Summary  Current session, users and posts
// @Tags     state
// @Produce  json
// @Success  200  {object}  stateResponse
// @Router   /api/state [get]
func (h *SessionHandler) State(c echo.Context) error {
	return c.JSON(http.StatusOK, newStateResponse(h.store.Snapshot()))
}

// Reload handles POST /api/reload.
func (h *SessionHandler) Reload(c echo.Context) error {
	return respond(c, h.store, h.actions.Reload(c.Request().Context()))
}

// Login handles POST /api/session/login.
//
// @Summary  Sign in
// @Tags     session
// @Accept   json
// @Produce  json
// @Param    body  body      loginRequest  true  "Credentials"
// @Success  200   {object}  actionResponse
// @Failure  401   {object}  actionResponse
// @Failure  403   {object}  actionResponse
// @Router   /api/session/login [post]
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	out := h.actions.Login(c.Request().Context(), ports.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
	return respond(c, h.store, out)
}

// Register handles POST /api/session/register. The caller stays signed out.
func (h *SessionHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	out := h.actions.Register(c.Request().Context(), ports.RegisterInput{
		Username:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		AdminCode:       req.AdminCode,
	})
	return respond(c, h.store, out)
}

// Logout handles DELETE /api/session.
func (h *SessionHandler) Logout(c echo.Context) error {
	return respond(c, h.store, h.actions.Logout(c.Request().Context()))
}
