package entity

import "time"

// Role constants for users
const (
	RoleMaker   = "MAKER"
	RoleChecker = "CHECKER"
	RoleManager = "MANAGER"
)

// User represents an authenticated principal. The password field is never
// serialized into API responses.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// APIToken is an opaque bearer token issued at signup/login
type APIToken struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
