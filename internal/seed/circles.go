package seed

import (
	"context"

	"ourcircle/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BuiltInCircle is a permanent system circle created at startup.
type BuiltInCircle struct {
	Name        string
	Description string
}

// BuiltInCircles defines the circles every fresh deployment starts with.
var BuiltInCircles = []BuiltInCircle{
	{Name: "Town Square", Description: "General discussion for everyone."},
	{Name: "Introductions", Description: "Say hello and meet your neighbours."},
	{Name: "Help Desk", Description: "Questions about using the forum."},
	{Name: "Movies", Description: "Film discussion and recommendations."},
	{Name: "Books", Description: "Books, writing, and reading lists."},
	{Name: "Music", Description: "Music discovery and discussion."},
	{Name: "Gaming", Description: "Gaming across all platforms."},
	{Name: "Technology", Description: "Hardware, software, and everything between."},
	{Name: "Fitness", Description: "Training programs and progress logs."},
	{Name: "Food", Description: "Food, cooking, and nutrition."},
	{Name: "Travel", Description: "Trip reports and destination advice."},
	{Name: "Pets", Description: "Companion animals of every kind."},
}

// Circles upserts the built-in circles by name. Existing rows keep their
// description and active flag; deactivated built-ins stay deactivated.
func Circles(ctx context.Context, db *gorm.DB) error {
	for _, c := range BuiltInCircles {
		circle := models.Circle{
			Name:        c.Name,
			Description: c.Description,
			IsActive:    true,
		}
		err := db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoNothing: true,
			}).
			Create(&circle).Error
		if err != nil {
			return err
		}
	}
	return nil
}
