package models

// Role distinguishes the two actors of the tracker.
type Role string

const (
	RoleDeveloper Role = "developer"
	RoleManager   Role = "manager"
)

// User represents an entry of the static credential list. Users are not
// persisted; tasks reference them by username only.
type User struct {
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"-" mapstructure:"password"`
	Role     Role   `json:"role" mapstructure:"role"`
}
