package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/russiantown/portal/internal/core/domain"
	"github.com/russiantown/portal/internal/core/service"
	"github.com/russiantown/portal/internal/core/state"
)

// ModerationHandler serves the admin and owner panels. Which panel a route
// belongs to is decided by the router's middleware, not here.
type ModerationHandler struct {
	actions *service.Actions
	store   *state.Store
}

func NewModerationHandler(actions *service.Actions, store *state.Store) *ModerationHandler {
	return &ModerationHandler{actions: actions, store: store}
}

// AdminTargets handles GET /api/admin/targets: everyone but the viewer and
// the owner.
func (h *ModerationHandler) AdminTargets(c echo.Context) error {
	return c.JSON(http.StatusOK, targetsResponse{Users: orEmpty(service.AdminPanelTargets(h.store.Snapshot()))})
}

// OwnerTargets handles GET /api/owner/targets: everyone but the viewer.
func (h *ModerationHandler) OwnerTargets(c echo.Context) error {
	return c.JSON(http.StatusOK, targetsResponse{Users: orEmpty(service.OwnerPanelTargets(h.store.Snapshot()))})
}

// SetRole handles PUT /api/users/:id/role.
//
// @Summary  Assign a role
// @Tags     moderation
// @Accept   json
// @Produce  json
// @Param    id    path      int          true  "Target user id"
// @Param    body  body      roleRequest  true  "New role"
// @Success  200   {object}  actionResponse
// @Failure  422   {object}  errorResponse
// @Failure  502   {object}  actionResponse
// @Router   /api/users/{id}/role [put]
func (h *ModerationHandler) SetRole(c echo.Context) error {
	id, err := targetID(c)
	if err != nil {
		return err
	}
	var req roleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return respond(c, h.store, h.actions.SetRole(c.Request().Context(), id, domain.Role(req.Role)))
}

// SetFaction handles PUT /api/users/:id/faction.
func (h *ModerationHandler) SetFaction(c echo.Context) error {
	id, err := targetID(c)
	if err != nil {
		return err
	}
	var req factionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return respond(c, h.store, h.actions.SetFaction(c.Request().Context(), id, req.Faction))
}

// ToggleBan handles PUT /api/users/:id/ban.
func (h *ModerationHandler) ToggleBan(c echo.Context) error {
	id, err := targetID(c)
	if err != nil {
		return err
	}
	return respond(c, h.store, h.actions.ToggleBan(c.Request().Context(), id))
}

// ToggleMute handles PUT /api/users/:id/mute.
func (h *ModerationHandler) ToggleMute(c echo.Context) error {
	id, err := targetID(c)
	if err != nil {
		return err
	}
	return respond(c, h.store, h.actions.ToggleMute(c.Request().Context(), id))
}

// Remove handles DELETE /api/users/:id.
func (h *ModerationHandler) Remove(c echo.Context) error {
	id, err := targetID(c)
	if err != nil {
		return err
	}
	return respond(c, h.store, h.actions.RemoveUser(c.Request().Context(), id))
}

func orEmpty(users []domain.User) []domain.User {
	if users == nil {
		return []domain.User{}
	}
	return users
}
