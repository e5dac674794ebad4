package models

import "time"

// Comment belongs to exactly one post. Anonymous comments follow the same
// nickname-binding rule as posts.
type Comment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PostID      uint      `gorm:"not null;index" json:"post_id"`
	Post        *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"post,omitempty"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	IsAnonymous bool      `gorm:"not null;default:false" json:"is_anonymous"`
	Nickname    string    `gorm:"size:50" json:"nickname,omitempty"`
	Likes       int       `gorm:"not null;default:0" json:"likes"`
	Dislikes    int       `gorm:"not null;default:0" json:"dislikes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
