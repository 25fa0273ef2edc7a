package service

import (
	"github.com/russiantown/portal/internal/core/domain"
	"github.com/russiantown/portal/internal/core/state"
)

// AdminPanelTargets lists the accounts the admin panel offers for moderation:
// everyone except the viewer and the owner. These filters are display
// conventions; the mutation operations do not depend on them.
func AdminPanelTargets(s state.State) []domain.User {
	return filterTargets(s, func(u domain.User) bool {
		return !u.Role.IsOwner()
	})
}

// OwnerPanelTargets lists every account except the viewer.
func OwnerPanelTargets(s state.State) []domain.User {
	return filterTargets(s, func(domain.User) bool { return true })
}

func filterTargets(s state.State, keep func(domain.User) bool) []domain.User {
	if s.CurrentUser == nil {
		return nil
	}
	out := make([]domain.User, 0, len(s.Users))
	for _, u := range s.Users {
		if u.ID == s.CurrentUser.ID || !keep(u) {
			continue
		}
		out = append(out, u)
	}
	return out
}
