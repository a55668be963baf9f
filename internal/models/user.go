package models

import (
	"time"
)

// Faction values. The empty string means the user has not completed
// registration yet (legacy rows imported from the pre-faction era).
const (
	FactionNone     = ""
	FactionAlliance = "Alliance"
	FactionHorde    = "Horde"
)

// Role values for the explicit role attribute on User.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Avatar extensions accepted for uploaded images.
const (
	AvatarNone = ""
	AvatarPNG  = "png"
	AvatarGIF  = "gif"
)

// User represents a registered board member.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"registered_at"`
	UpdatedAt time.Time `json:"-"`

	UserName     string `gorm:"uniqueIndex;size:50;not null" json:"user_name"`
	PasswordHash string `gorm:"size:255;not null" json:"-"` // bcrypt, never exposed
	Faction      string `gorm:"size:20;default:''" json:"faction"`
	Role         string `gorm:"size:20;not null;default:'user'" json:"role"`
	// AvatarExt records which uploaded image (if any) belongs to this user.
	// Empty means no upload; the faction default is served instead.
	AvatarExt string `gorm:"size:10;default:''" json:"-"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// FactionBadge returns the badge key shown next to the user's posts.
func (u *User) FactionBadge() string {
	switch u.Faction {
	case FactionAlliance:
		return "alliance"
	case FactionHorde:
		return "horde"
	}
	return "none"
}

// ThemeColor returns the display color derived from the user's faction.
func (u *User) ThemeColor() string {
	switch u.Faction {
	case FactionAlliance:
		return "#1d4e89"
	case FactionHorde:
		return "#8c1d18"
	}
	return "#444444"
}

// GuildLink is one direction of the mutual guild relation.
// The symmetric row (member, user) must exist whenever (user, member)
// does; both rows are written and removed in the same transaction.
type GuildLink struct {
	ID       uint `gorm:"primaryKey"`
	UserID   uint `gorm:"not null;index:idx_guild_user_member,unique"`
	MemberID uint `gorm:"not null;index:idx_guild_user_member,unique"`
}

// TableName keeps the legacy table name.
func (GuildLink) TableName() string { return "guild_links" }
