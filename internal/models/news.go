package models

import (
	"time"
)

// News is a single board post. Author identity fields are denormalized
// at posting time so that a post's display does not change when the
// author later renames or switches faction.
type News struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Title string `gorm:"size:100;not null" json:"title"`
	Body  string `gorm:"size:1000;not null" json:"content"`

	AuthorID     uint   `gorm:"index;not null" json:"user_id"`
	AuthorName   string `gorm:"size:50;not null" json:"author_name"`
	FactionBadge string `gorm:"size:20" json:"faction_badge"`
	ThemeColor   string `gorm:"size:20" json:"theme_color"`
}

// TableName specifies the table name for the News model.
func (News) TableName() string { return "news" }

// GetUserID implements the Ownable interface used by policy checks.
func (n *News) GetUserID() uint { return n.AuthorID }

// CreatedDisplay is the timestamp string shown on the board.
func (n *News) CreatedDisplay() string {
	return n.CreatedAt.Format("2006-01-02 15:04")
}

// HiddenNews marks a news item as hidden from one viewer's feed.
// The composite unique index gives the pair set semantics: hiding an
// already-hidden item is a no-op.
type HiddenNews struct {
	ID     uint `gorm:"primaryKey"`
	UserID uint `gorm:"not null;index:idx_hidden_user_news,unique"`
	NewsID uint `gorm:"not null;index:idx_hidden_user_news,unique"`
}

// TableName specifies the table name for hidden marks.
func (HiddenNews) TableName() string { return "hidden_news" }
