package model

// User holds the local user data relevant to the application (outside of firebase)
type User struct {
	Id           string `db:"firebase_id" json:"id"`
	DisplayName  string `db:"display_name" json:"displayName"`
	IsSuperAdmin bool   `db:"is_super_admin" json:"isSuperAdmin"`
	Avatar       string `db:"avatar" json:"avatar"`
}

type AnonymousUser struct {
	DisplayName string `json:"displayName"`
	Avatar      string `json:"avatar"`
}

type DisplayableUser struct {
	*AnonymousUser `json:"anonymousUser,omitempty"`
	*User          `json:"user,omitempty"`
}
