package model

// Role is the closed set of user roles. Any other stored value is treated
// as no role at all.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User represents a row of the `users` table.
//
// Fields:
//  ID       – primary key identifier of the user.
//  UserName – display name, 1 to 25 characters.
//  Role     – admin or user.
type User struct {
	ID       uint64 `json:"id"`       // users.id
	UserName string `json:"userName"` // users.user_name
	Role     Role   `json:"role"`     // users.role
}

// NewUser holds the insertable fields of a user.
type NewUser struct {
	UserName string `json:"userName"`
	Role     Role   `json:"role"`
}
