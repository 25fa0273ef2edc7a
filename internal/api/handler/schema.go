package handler

import (
	"github.com/russiantown/portal/internal/core/domain"
	"github.com/russiantown/portal/internal/core/service"
	"github.com/russiantown/portal/internal/core/state"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

// loginRequest is forwarded as-is; the backend judges the credentials.
type loginRequest struct {
	Username string `json:"username" validate:"max=64"`
	Password string `json:"password"`
}

// registerRequest leaves the confirmation check to the session service so
// that a mismatch is reported the same way from every entry point.
type registerRequest struct {
	Username        string `json:"username"        validate:"required,max=64"`
	Password        string `json:"password"        validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
	AdminCode       string `json:"adminCode"       validate:"max=64"`
}

type createPostRequest struct {
	Title   string `json:"title"   validate:"required,max=200"`
	Content string `json:"content" validate:"required,max=10000"`
}

type avatarRequest struct {
	Avatar string `json:"avatar" validate:"required,url,max=2048"`
}

type roleRequest struct {
	Role string `json:"role" validate:"required,role"`
}

type factionRequest struct {
	// Empty clears the affiliation.
	Faction string `json:"faction" validate:"max=100"`
}

// --- Response types ---

type stateResponse struct {
	state.State
	CanAccessAdminPanel bool `json:"canAccessAdminPanel"`
	IsOwner             bool `json:"isOwner"`
}

func newStateResponse(s state.State) stateResponse {
	return stateResponse{
		State:               s,
		CanAccessAdminPanel: s.CurrentUser.CanAccessAdminPanel(),
		IsOwner:             s.CurrentUser.IsOwner(),
	}
}

type actionResponse struct {
	OK      bool             `json:"ok"`
	Notices []service.Notice `json:"notices"`
	State   stateResponse    `json:"state"`
}

type targetsResponse struct {
	Users []domain.User `json:"users"`
}

type factionsResponse struct {
	Factions []domain.Faction `json:"factions"`
}

type administrationResponse struct {
	Staff []domain.StaffMember `json:"staff"`
}
