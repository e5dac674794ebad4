package models

import "time"

// Report is a user-submitted flag of a post awaiting admin resolution.
// IsResolved only ever moves from false to true.
type Report struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PostID     uint      `gorm:"not null;index" json:"post_id"`
	Post       *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"post,omitempty"`
	Reason     string    `gorm:"type:text;not null" json:"reason"`
	IsResolved bool      `gorm:"not null;default:false" json:"is_resolved"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
