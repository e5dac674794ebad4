package repository

import (
	"context"
	"testing"
	"time"

	"ourcircle/internal/database"
	"ourcircle/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory database per test so tests stay
// independent and parallel-safe.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed-password",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestCircle(t *testing.T, db *gorm.DB, name string, active bool) *models.Circle {
	t.Helper()
	circle := &models.Circle{Name: name, Description: "about " + name, IsActive: active}
	require.NoError(t, db.Create(circle).Error)
	// GORM refuses zero-value overrides through Create (is_active defaults to
	// true), set the flag directly.
	require.NoError(t, db.Model(circle).UpdateColumn("is_active", active).Error)
	circle.IsActive = active
	return circle
}

func createTestPost(t *testing.T, db *gorm.DB, userID, circleID uint, content string, createdAt time.Time, likes int) *models.Post {
	t.Helper()
	post := &models.Post{UserID: userID, CircleID: circleID, Content: content, Likes: likes}
	require.NoError(t, db.Create(post).Error)
	// GORM refuses zero-value overrides through Create, set timestamps directly.
	require.NoError(t, db.Model(post).UpdateColumn("created_at", createdAt).Error)
	post.CreatedAt = createdAt
	return post
}

func testCtx() context.Context {
	return context.Background()
}
