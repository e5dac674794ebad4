package models

import "time"

// Circle represents a named topical community container for posts.
type Circle struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"size:100;unique;not null" json:"name"`
	Description     string    `gorm:"type:text" json:"description"`
	CreatedByUserID *uint     `json:"created_by_user_id"`
	CreatedByUser   *User     `gorm:"foreignKey:CreatedByUserID" json:"created_by_user,omitempty"`
	IsActive        bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	// PostsCount is not persisted; computed at query time
	PostsCount int `gorm:"->" json:"posts_count,omitempty"`
}

// TableName specifies the table name for GORM.
func (Circle) TableName() string {
	return "circles"
}

// CircleFollow marks a user following a circle. One row per (user, circle).
type CircleFollow struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_circle_follow" json:"user_id"`
	CircleID  uint      `gorm:"not null;uniqueIndex:idx_circle_follow" json:"circle_id"`
	Circle    *Circle   `gorm:"foreignKey:CircleID" json:"circle,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (CircleFollow) TableName() string {
	return "circle_follows"
}
