package domain

import "fmt"

// Role is the privilege level of an account.
type Role string

const (
	RoleUser        Role = "user"
	RoleAdminJunior Role = "admin_junior"
	RoleAdmin       Role = "admin"
	RoleAdminSenior Role = "admin_senior"
	RoleOwner       Role = "owner"
)

// roleRank orders the roles from least to most privileged.
var roleRank = map[Role]int{
	RoleUser:        0,
	RoleAdminJunior: 1,
	RoleAdmin:       2,
	RoleAdminSenior: 3,
	RoleOwner:       4,
}

// Roles returns every role in ascending order of privilege.
func Roles() []Role {
	return []Role{RoleUser, RoleAdminJunior, RoleAdmin, RoleAdminSenior, RoleOwner}
}

// ParseRole converts a wire value into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
	}
	return r, nil
}

func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// Rank returns the position of r in the privilege order, or -1 for unknown roles.
func (r Role) Rank() int {
	if rank, ok := roleRank[r]; ok {
		return rank
	}
	return -1
}

// IsStaff reports whether r opens the admin panel.
func (r Role) IsStaff() bool {
	switch r {
	case RoleAdminJunior, RoleAdmin, RoleAdminSenior, RoleOwner:
		return true
	}
	return false
}

func (r Role) IsOwner() bool {
	return r == RoleOwner
}
