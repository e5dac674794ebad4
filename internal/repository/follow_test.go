package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowRepository_FollowIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := testCtx()

	user := createTestUser(t, db, "alice")
	circle := createTestCircle(t, db, "books", true)

	require.NoError(t, repo.Follow(ctx, user.ID, circle.ID))
	require.NoError(t, repo.Follow(ctx, user.ID, circle.ID))

	count, err := repo.CountFollowers(ctx, circle.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestFollowRepository_UnfollowAndIsFollowing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := testCtx()

	user := createTestUser(t, db, "alice")
	circle := createTestCircle(t, db, "books", true)

	require.NoError(t, repo.Follow(ctx, user.ID, circle.ID))
	following, err := repo.IsFollowing(ctx, user.ID, circle.ID)
	require.NoError(t, err)
	assert.True(t, following)

	require.NoError(t, repo.Unfollow(ctx, user.ID, circle.ID))
	following, err = repo.IsFollowing(ctx, user.ID, circle.ID)
	require.NoError(t, err)
	assert.False(t, following)

	err = repo.Unfollow(ctx, user.ID, circle.ID)
	require.Error(t, err, "unfollowing a circle that is not followed errors")
}

func TestFollowRepository_ListCirclesSkipsInactive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := testCtx()

	user := createTestUser(t, db, "alice")
	active := createTestCircle(t, db, "alive", true)
	inactive := createTestCircle(t, db, "dead", false)

	require.NoError(t, repo.Follow(ctx, user.ID, active.ID))
	require.NoError(t, repo.Follow(ctx, user.ID, inactive.ID))

	circles, err := repo.ListCircles(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, circles, 1)
	assert.Equal(t, "alive", circles[0].Name)
}
