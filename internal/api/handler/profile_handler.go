package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/russiantown/portal/internal/core/service"
	"github.com/russiantown/portal/internal/core/state"
)

// ProfileHandler serves what any signed-in user may do for themselves.
type ProfileHandler struct {
	actions *service.Actions
	store   *state.Store
}

func NewProfileHandler(actions *service.Actions, store *state.Store) *ProfileHandler {
	return &ProfileHandler{actions: actions, store: store}
}

// CreatePost handles POST /api/posts.
func (h *ProfileHandler) CreatePost(c echo.Context) error {
	var req createPostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return respond(c, h.store, h.actions.CreatePost(c.Request().Context(), req.Title, req.Content))
}

// SetAvatar handles PUT /api/me/avatar.
func (h *ProfileHandler) SetAvatar(c echo.Context) error {
	var req avatarRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return respond(c, h.store, h.actions.SetAvatar(c.Request().Context(), req.Avatar))
}
