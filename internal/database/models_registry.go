package database

import "ourcircle/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Circle{},
		&models.CircleFollow{},
		&models.Post{},
		&models.Comment{},
		&models.Report{},
		&models.Announcement{},
	}
}
