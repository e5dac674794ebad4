package repository

import (
	"context"

	"ourcircle/internal/models"

	"gorm.io/gorm"
)

// FollowRepository defines persistence operations for circle follows.
type FollowRepository interface {
	Follow(ctx context.Context, userID, circleID uint) error
	Unfollow(ctx context.Context, userID, circleID uint) error
	IsFollowing(ctx context.Context, userID, circleID uint) (bool, error)
	ListCircles(ctx context.Context, userID uint) ([]models.Circle, error)
	CountFollowers(ctx context.Context, circleID uint) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository returns a new FollowRepository implementation.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// Follow is idempotent: a second follow of the same circle is a no-op.
func (r *followRepository) Follow(ctx context.Context, userID, circleID uint) error {
	follow := models.CircleFollow{UserID: userID, CircleID: circleID}
	if err := r.db.WithContext(ctx).Create(&follow).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil
		}
		return models.NewInternalError(err)
	}
	return nil
}

// Unfollow removes the follow row. Unlike Follow it is not idempotent:
// unfollowing a circle the user never followed is a client error.
func (r *followRepository) Unfollow(ctx context.Context, userID, circleID uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND circle_id = ?", userID, circleID).
		Delete(&models.CircleFollow{})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewValidationError("You are not following this circle")
	}
	return nil
}

func (r *followRepository) IsFollowing(ctx context.Context, userID, circleID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CircleFollow{}).
		Where("user_id = ? AND circle_id = ?", userID, circleID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// ListCircles returns the active circles the user follows, most recently
// followed first.
func (r *followRepository) ListCircles(ctx context.Context, userID uint) ([]models.Circle, error) {
	var circles []models.Circle
	err := r.db.WithContext(ctx).
		Model(&models.Circle{}).
		Select("circles.*, (SELECT COUNT(*) FROM posts WHERE posts.circle_id = circles.id) as posts_count").
		Joins("JOIN circle_follows ON circle_follows.circle_id = circles.id").
		Where("circle_follows.user_id = ? AND circles.is_active = ?", userID, true).
		Order("circle_follows.created_at DESC").
		Find(&circles).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return circles, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, circleID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CircleFollow{}).
		Where("circle_id = ?", circleID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
