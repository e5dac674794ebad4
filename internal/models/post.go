package models

import "time"

// Post represents a post inside a circle. When IsAnonymous is set the post is
// displayed under Nickname instead of the author's username; the nickname must
// be bound to the author at creation time.
type Post struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	User          *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CircleID      uint      `gorm:"not null;index" json:"circle_id"`
	Circle        *Circle   `gorm:"foreignKey:CircleID;constraint:OnDelete:CASCADE" json:"circle,omitempty"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	IsAnonymous   bool      `gorm:"not null;default:false" json:"is_anonymous"`
	Nickname      string    `gorm:"size:50" json:"nickname,omitempty"`
	Location      string    `gorm:"size:100" json:"location,omitempty"`
	Likes         int       `gorm:"not null;default:0" json:"likes"`
	Dislikes      int       `gorm:"not null;default:0" json:"dislikes"`
	IsPinned      bool      `gorm:"not null;default:false" json:"is_pinned"`
	IsRecommended bool      `gorm:"not null;default:false" json:"is_recommended"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
}

// DisplayName returns the name a post is attributed to in views.
func (p *Post) DisplayName() string {
	if p.IsAnonymous && p.Nickname != "" {
		return p.Nickname
	}
	if p.User != nil {
		return p.User.Username
	}
	return ""
}
