package model

import (
	"strings"
	"time"
)

// UserRole represents the role of a user in the system
type UserRole string

const (
	UserRoleUser  UserRole = "user"  // Default role
	UserRoleAdmin UserRole = "admin" // Full access including site settings and menus
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	return r == UserRoleUser || r == UserRoleAdmin
}

// User represents a user account
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name,omitempty"`
	Hash      *string    `json:"-"` // Never expose password hash
	Role      UserRole   `json:"role"`
	CreatedOn time.Time  `json:"created_on"`
	UpdatedOn time.Time  `json:"updated_on"`
	LoginOn   *time.Time `json:"login_on,omitempty"`
}

// IsAdmin returns true if the user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// Identity returns the authorization view of the user.
func (u *User) Identity() *Identity {
	return &Identity{ID: u.ID, Role: u.Role}
}

// Summary returns the public author projection of the user.
func (u *User) Summary() *AuthorSummary {
	name := u.Name
	if name == "" {
		name, _, _ = strings.Cut(u.Email, "@")
	}
	return &AuthorSummary{ID: u.ID, Name: name}
}

// Identity is the authenticated actor making a request. A nil *Identity
// means the request carried no valid credential.
type Identity struct {
	ID   string   `json:"id"`
	Role UserRole `json:"role"`
}

// IsAdmin is safe to call on a nil identity.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == UserRoleAdmin
}

// AuthorSummary is the populated form of an author_id reference.
type AuthorSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UpdateUserRoleRequest represents a request to change a user's role
type UpdateUserRoleRequest struct {
	Role string `json:"role"`
}

// Validate checks if the request is valid
func (r *UpdateUserRoleRequest) Validate() []FieldError {
	if !UserRole(r.Role).Valid() {
		return []FieldError{{Field: "role", Message: "role must be 'admin' or 'user'"}}
	}
	return nil
}
