package seed

import (
	"context"
	"testing"

	"ourcircle/internal/database"
	"ourcircle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

func TestCircles_UpsertIsRepeatable(t *testing.T) {
	db := newSeedDB(t)
	ctx := context.Background()

	require.NoError(t, Circles(ctx, db))
	require.NoError(t, Circles(ctx, db))

	var count int64
	require.NoError(t, db.Model(&models.Circle{}).Count(&count).Error)
	assert.EqualValues(t, len(BuiltInCircles), count)
}

func TestCircles_KeepsDeactivatedState(t *testing.T) {
	db := newSeedDB(t)
	ctx := context.Background()

	require.NoError(t, Circles(ctx, db))
	require.NoError(t, db.Model(&models.Circle{}).
		Where("name = ?", "Town Square").
		Update("is_active", false).Error)

	require.NoError(t, Circles(ctx, db))

	var circle models.Circle
	require.NoError(t, db.Where("name = ?", "Town Square").First(&circle).Error)
	assert.False(t, circle.IsActive)
}

func TestRun(t *testing.T) {
	db := newSeedDB(t)
	ctx := context.Background()

	err := Run(ctx, db, Options{NumUsers: 10, NumPosts: 40, ShouldClean: true})
	require.NoError(t, err)

	var users, posts, announcements int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	require.NoError(t, db.Model(&models.Announcement{}).Count(&announcements).Error)

	assert.EqualValues(t, 11, users, "ten fake users plus the admin")
	assert.EqualValues(t, 40, posts)
	assert.EqualValues(t, 3, announcements)

	var admin models.User
	require.NoError(t, db.Where("username = ?", "admin").First(&admin).Error)
	assert.True(t, admin.IsAdmin)

	// Anonymous seeded posts must carry a nickname.
	var orphaned int64
	require.NoError(t, db.Model(&models.Post{}).
		Where("is_anonymous = ? AND (nickname IS NULL OR nickname = '')", true).
		Count(&orphaned).Error)
	assert.Zero(t, orphaned)
}

func TestRun_CleanRemovesPriorData(t *testing.T) {
	db := newSeedDB(t)
	ctx := context.Background()

	stale := models.User{Username: "leftover", Email: "old@example.com", Password: "x"}
	require.NoError(t, db.Create(&stale).Error)

	require.NoError(t, Run(ctx, db, Options{NumUsers: 2, NumPosts: 5, ShouldClean: true}))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("username = ?", "leftover").Count(&count).Error)
	assert.Zero(t, count)
}
