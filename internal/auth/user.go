package auth

import (
	"github.com/bwmarrin/discordgo"
)

// RoleRef is a guild role as shown to the dashboard.
type RoleRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// User is the logged in dashboard user kept in the session.
// JSON names match what the dashboard script reads.
type User struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	GlobalName    string    `json:"global_name,omitempty"`
	Avatar        string    `json:"avatar"`
	Roles         []RoleRef `json:"allRoles"`
	IsHighCommand bool      `json:"isZarzad"`
	IsMIA         bool      `json:"isMIA"`
}

// LoggedIn reports whether u carries an identity.
func (u User) LoggedIn() bool {
	return u.ID != ""
}

// IsStaff reports whether u may issue actions when staff roles are enforced.
func (u User) IsStaff() bool {
	return u.IsHighCommand || u.IsMIA
}

// Name is the preferred display name.
func (u User) Name() string {
	if u.GlobalName != "" {
		return u.GlobalName
	}

	return u.Username
}

func newUser(du *discordgo.User) User {
	return User{
		ID:         du.ID,
		Username:   du.Username,
		GlobalName: du.GlobalName,
		Avatar:     du.AvatarURL("128"),
		Roles:      []RoleRef{},
	}
}
