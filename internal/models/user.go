// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"
)

// User represents a registered forum account.
type User struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	Username  string       `gorm:"unique;not null" json:"username"`
	Email     string       `gorm:"unique;not null" json:"email"`
	Password  string       `gorm:"not null" json:"-"`
	IsAdmin   bool         `gorm:"not null;default:false" json:"is_admin"`
	Nicknames NicknameList `gorm:"serializer:json" json:"nicknames"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// NicknameList is the ordered set of pseudonyms a user may post under.
// Order is insertion order; matching is case-sensitive exact match.
type NicknameList []string

// Add appends a nickname. Empty or whitespace-only input and exact
// duplicates are rejected.
func (l *NicknameList) Add(nickname string) error {
	if strings.TrimSpace(nickname) == "" {
		return NewValidationError("Nickname must not be empty")
	}
	for _, existing := range *l {
		if existing == nickname {
			return NewValidationError("Nickname is already bound")
		}
	}
	*l = append(*l, nickname)
	return nil
}

// Remove deletes a nickname, erroring when it is not bound.
func (l *NicknameList) Remove(nickname string) error {
	for i, existing := range *l {
		if existing == nickname {
			*l = append((*l)[:i], (*l)[i+1:]...)
			return nil
		}
	}
	return NewValidationError("Nickname is not bound")
}

// Contains reports whether the nickname is currently bound.
func (l NicknameList) Contains(nickname string) bool {
	for _, existing := range l {
		if existing == nickname {
			return true
		}
	}
	return false
}
