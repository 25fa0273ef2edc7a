package backend

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/russiantown/portal/internal/core/domain"
)

type errorBody struct {
	Error string `json:"error"`
}

type successBody struct {
	Success bool `json:"success"`
}

// --- Request types ---

type credentialsRequest struct {
	Username  string `json:"username"  validate:"required,max=64"`
	Password  string `json:"password"  validate:"required"`
	AdminCode string `json:"adminCode"`
}

type createPostRequest struct {
	UserID  int64  `json:"userId"  validate:"required,gt=0"`
	Title   string `json:"title"   validate:"required"`
	Content string `json:"content" validate:"required"`
}

type roleRequest struct {
	UserID int64  `json:"userId" validate:"required,gt=0"`
	Role   string `json:"role"   validate:"required"`
}

type factionRequest struct {
	UserID  int64  `json:"userId"  validate:"required,gt=0"`
	Faction string `json:"faction"`
}

type banRequest struct {
	UserID   int64 `json:"userId"   validate:"required,gt=0"`
	IsBanned *bool `json:"isBanned" validate:"required"`
}

type muteRequest struct {
	UserID  int64 `json:"userId"  validate:"required,gt=0"`
	IsMuted *bool `json:"isMuted" validate:"required"`
}

type avatarRequest struct {
	UserID int64  `json:"userId" validate:"required,gt=0"`
	Avatar string `json:"avatar"`
}

type createPostResponse struct {
	ID      int64 `json:"id"`
	Success bool  `json:"success"`
}

// route is one (method, action) pair of the single endpoint.
type route struct {
	method string
	action string
}

// Handler serves the single backend endpoint and dispatches on ?action=.
type Handler struct {
	svc      *Service
	validate *validator.Validate
	routes   map[route]echo.HandlerFunc
	log      zerolog.Logger
}

func NewHandler(svc *Service, log zerolog.Logger) *Handler {
	h := &Handler{svc: svc, validate: validator.New(), log: log}
	h.routes = map[route]echo.HandlerFunc{
		{http.MethodGet, "users"}:          h.users,
		{http.MethodGet, "posts"}:          h.posts,
		{http.MethodPost, "register"}:      h.register,
		{http.MethodPost, "login"}:         h.login,
		{http.MethodPost, "create-post"}:   h.createPost,
		{http.MethodPut, "update-role"}:    h.updateRole,
		{http.MethodPut, "update-faction"}: h.updateFaction,
		{http.MethodPut, "ban"}:            h.ban,
		{http.MethodPut, "mute"}:           h.mute,
		{http.MethodPut, "update-avatar"}:  h.updateAvatar,
		{http.MethodDelete, "delete"}:      h.remove,
	}
	return h
}

// Handle is the endpoint. DELETE accepts any action, as only one exists.
// Preflights that reach it are answered with an empty 200.
func (h *Handler) Handle(c echo.Context) error {
	method := c.Request().Method
	action := c.QueryParam("action")
	switch method {
	case http.MethodOptions:
		return c.NoContent(http.StatusOK)
	case http.MethodDelete:
		action = "delete"
	}

	fn, ok := h.routes[route{method, action}]
	if !ok {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "Unknown action"})
	}
	return fn(c)
}

func (h *Handler) users(c echo.Context) error {
	users, err := h.svc.Users(c.Request().Context())
	if err != nil {
		return h.fail(c, "users", err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *Handler) posts(c echo.Context) error {
	posts, err := h.svc.Posts(c.Request().Context())
	if err != nil {
		return h.fail(c, "posts", err)
	}
	return c.JSON(http.StatusOK, posts)
}

func (h *Handler) register(c echo.Context) error {
	var req credentialsRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, "register", err)
	}
	user, err := h.svc.Register(c.Request().Context(), req.Username, req.Password, strings.TrimSpace(req.AdminCode))
	if err != nil {
		return h.fail(c, "register", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) login(c echo.Context) error {
	var req credentialsRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, "login", err)
	}
	user, err := h.svc.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return h.fail(c, "login", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) createPost(c echo.Context) error {
	var req createPostRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, "create-post", err)
	}
	id, err := h.svc.CreatePost(c.Request().Context(), req.UserID, req.Title, req.Content)
	if err != nil {
		return h.fail(c, "create-post", err)
	}
	return c.JSON(http.StatusOK, createPostResponse{ID: id, Success: true})
}

func (h *Handler) updateRole(c echo.Context) error {
	var req roleRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, "update-role", err)
	}
	return h.done(c, "update-role", h.svc.UpdateRole(c.Request().Context(), req.UserID, domain.Role(req.Role)))
}

func (h *Handler) updateFaction(c echo.Context) error {
	var req factionRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, "update-faction", err)
	}
	return h.done(c, "update-faction", h.svc.UpdateFaction(c.Request().Context(), req.UserID, req.Faction))
}

func (h *Handler) ban(c echo.Context) error {
	var req banRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, "ban", err)
	}
	return h.done(c, "ban", h.svc.SetBanned(c.Request().Context(), req.UserID, *req.IsBanned))
}

func (h *Handler) mute(c echo.Context) error {
	var req muteRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, "mute", err)
	}
	return h.done(c, "mute", h.svc.SetMuted(c.Request().Context(), req.UserID, *req.IsMuted))
}

func (h *Handler) updateAvatar(c echo.Context) error {
	var req avatarRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, "update-avatar", err)
	}
	return h.done(c, "update-avatar", h.svc.UpdateAvatar(c.Request().Context(), req.UserID, req.Avatar))
}

func (h *Handler) remove(c echo.Context) error {
	id, err := strconv.ParseInt(c.QueryParam("userId"), 10, 64)
	if err != nil || id <= 0 {
		return h.fail(c, "delete", ErrInvalidInput)
	}
	return h.done(c, "delete", h.svc.Delete(c.Request().Context(), id))
}

// bind decodes and validates the JSON body.
func (h *Handler) bind(c echo.Context, req any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, req); err != nil {
		return ErrInvalidInput
	}
	if err := h.validate.Struct(req); err != nil {
		return errors.Join(ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) done(c echo.Context, action string, err error) error {
	if err != nil {
		return h.fail(c, action, err)
	}
	return c.JSON(http.StatusOK, successBody{Success: true})
}

// fail renders err as {"error": ...}. Unexpected errors are logged and
// reported without detail.
func (h *Handler) fail(c echo.Context, action string, err error) error {
	status, msg := http.StatusInternalServerError, "internal error"
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		status, msg = http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, ErrBanned):
		status, msg = http.StatusForbidden, "account banned"
	case errors.Is(err, ErrUserExists):
		status, msg = http.StatusConflict, "username already taken"
	case errors.Is(err, domain.ErrUserNotFound):
		status, msg = http.StatusNotFound, "user not found"
	case errors.Is(err, ErrInvalidInput):
		status, msg = http.StatusBadRequest, "invalid input"
	default:
		h.log.Error().Err(err).Str("action", action).Msg("backend action failed")
	}
	return c.JSON(status, errorBody{Error: msg})
}
