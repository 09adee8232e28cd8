package domain

// UserRole is the platform-level role carried on a user's session.
type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleUser  UserRole = "user"
)

// User mirrors the identity owned by the external auth subsystem. Only ID is
// guaranteed to be present on every provider session.
type User struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Role  UserRole `json:"role"`
}
