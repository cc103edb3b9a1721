package models

// User represents a stored user account.
type User struct {
	ID       int64          `json:"id" badgerhold:"key"`
	Name     string         `json:"name"`
	Email    string         `json:"email" badgerhold:"index"`
	Password string         `json:"-"`
	Role     string         `json:"role"`
	Config   map[string]any `json:"config,omitempty"`
}

// UserProfile is the public snapshot of a user embedded in session records.
// It is captured at login time and served on every authenticated request
// without re-reading the user store.
type UserProfile struct {
	ID     int64          `json:"id"`
	Name   string         `json:"name"`
	Email  string         `json:"email"`
	Role   string         `json:"role"`
	Config map[string]any `json:"config,omitempty"`
}

// Profile returns the public snapshot of the user.
func (u *User) Profile() *UserProfile {
	return &UserProfile{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
		Config: u.Config,
	}
}

// IsAdmin returns true if the user holds the admin role.
func (p *UserProfile) IsAdmin() bool {
	return p.Role == "admin"
}
