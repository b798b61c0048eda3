package model

type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleModerator      = "MODERATOR"
	RoleMember         = "MEMBER"
)

// CanModerate reports whether the role grants hide/unhide/delete rights
// within its space.
func (r Role) CanModerate() bool {
	return r == RoleAdmin || r == RoleModerator
}

type Membership struct {
	UserId  string `db:"user_id" json:"userId"`
	SpaceId string `db:"space_id" json:"spaceId"`
	Role    Role   `db:"role" json:"role"`
}

// RolesBySpace indexes a user's memberships by space for visibility checks.
func RolesBySpace(memberships []*Membership) map[string]Role {
	roles := make(map[string]Role, len(memberships))
	for _, membership := range memberships {
		roles[membership.SpaceId] = membership.Role
	}
	return roles
}
