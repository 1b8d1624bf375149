// Package models defines server-side data models persisted in the database.
package models

import "time"

// Role is a user's privilege level.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Roles lists every valid role, lowest privilege first.
var Roles = []Role{RoleUser, RoleModerator, RoleAdmin}

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	default:
		return false
	}
}

type User struct {
	ID          int64      `json:"-"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Bio         string     `json:"bio"`
	Role        Role       `json:"role"`
	IsSuperuser bool       `json:"-"`
	LastLogin   *time.Time `json:"-"`
	DateJoined  time.Time  `json:"-"`
}

// IsAdmin is true for the admin role and for superusers regardless of role.
func (u *User) IsAdmin() bool {
	return u != nil && (u.Role == RoleAdmin || u.IsSuperuser)
}

func (u *User) IsModerator() bool {
	return u != nil && u.Role == RoleModerator
}

// IsStaff is true for moderators and admins.
func (u *User) IsStaff() bool {
	return u.IsModerator() || u.IsAdmin()
}

// UserPatch is a partial update; nil fields are left unchanged.
type UserPatch struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Role      *Role   `json:"role"`
}

// Apply copies the set fields of p onto u.
func (p UserPatch) Apply(u *User) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
}
