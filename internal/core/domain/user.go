package domain

// User is one registered account as reported by the backend.
type User struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Role       Role      `json:"role"`
	Faction    string    `json:"faction,omitempty"`
	CustomRole string    `json:"custom_role,omitempty"`
	Status     string    `json:"status,omitempty"`
	Avatar     string    `json:"avatar,omitempty"`
	IsBanned   bool      `json:"is_banned"`
	IsMuted    bool      `json:"is_muted"`
	CreatedAt  Timestamp `json:"created_at,omitzero"`
}

// CanAccessAdminPanel reports whether the account may open the admin panel.
func (u *User) CanAccessAdminPanel() bool {
	return u != nil && u.Role.IsStaff()
}

// IsOwner reports whether the account holds the owner role.
func (u *User) IsOwner() bool {
	return u != nil && u.Role.IsOwner()
}

// Post is a forum entry. Posts are created once and never edited.
type Post struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Author       string    `json:"author"`
	AuthorAvatar string    `json:"author_avatar,omitempty"`
	CreatedAt    Timestamp `json:"created_at,omitzero"`
}
