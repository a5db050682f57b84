package domain

import "time"

// Role is the access level attached to a user account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents a registered account
type User struct {
	ID           string    `json:"id"` // UUID
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Bcrypt hash, never serialized
	FullName     string    `json:"full_name"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserListOptions bounds and filters admin user listings.
type UserListOptions struct {
	Skip  int
	Limit int
	Query string // case-insensitive substring over email and full name
}

// UserStats holds the aggregate user counts shown on the admin dashboard.
type UserStats struct {
	Total  int
	Active int
	Admins int
}

// UserRepository defines data access for users. Emails are stored and looked
// up case-folded; Create must fail with ErrConflict on a duplicate.
type UserRepository interface {
	Create(user *User) error
	GetByID(id string) (*User, error)
	GetByEmail(email string) (*User, error)
	Update(user *User) error
	Delete(id string) error
	List(opts UserListOptions) ([]*User, error)
	Stats() (*UserStats, error)
	CountCreatedSince(since time.Time) (int, error)
}
