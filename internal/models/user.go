// internal/models/user.go
package models

// Role is stored by member name; Value is what API responses show.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
	RoleEmployee Role = "EMPLOYEE"
)

func (r Role) Value() string {
	if r == RoleManager {
		return "PROJECT_MANAGER"
	}
	return string(r)
}

// ParseRole accepts a member name only.
func ParseRole(name string) (Role, bool) {
	switch Role(name) {
	case RoleAdmin, RoleManager, RoleEmployee:
		return Role(name), true
	}
	return "", false
}

type User struct {
	EID          string
	FirstName    string
	LastName     string
	PasswordHash string
	Role         Role
}

// UserView is the public shape of a user; the password hash never leaves the store.
type UserView struct {
	EID       string `json:"eid"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

func (u *User) View() UserView {
	return UserView{
		EID:       u.EID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role.Value(),
	}
}
