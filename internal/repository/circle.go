package repository

import (
	"context"
	"errors"
	"strings"

	"ourcircle/internal/cache"
	"ourcircle/internal/models"

	"gorm.io/gorm"
)

// CircleRepository defines persistence operations for topic circles.
type CircleRepository interface {
	Create(ctx context.Context, circle *models.Circle) error
	GetByID(ctx context.Context, id uint) (*models.Circle, error)
	Update(ctx context.Context, circle *models.Circle) error
	Delete(ctx context.Context, id uint) error
	ListActive(ctx context.Context, limit, offset int) ([]models.Circle, error)
	CountActive(ctx context.Context) (int64, error)
	ListAll(ctx context.Context, limit, offset int) ([]models.Circle, error)
	Search(ctx context.Context, query string, limit, offset int) ([]models.Circle, error)
	CountSearch(ctx context.Context, query string) (int64, error)
	SetActive(ctx context.Context, id uint, active bool) error
}

type circleRepository struct {
	db *gorm.DB
}

// NewCircleRepository returns a new CircleRepository implementation.
func NewCircleRepository(db *gorm.DB) CircleRepository {
	return &circleRepository{db: db}
}

// withPostsCount annotates each circle with its post count in a single query.
func (r *circleRepository) withPostsCount(db *gorm.DB) *gorm.DB {
	return db.Select("circles.*, (SELECT COUNT(*) FROM posts WHERE posts.circle_id = circles.id) as posts_count")
}

func (r *circleRepository) Create(ctx context.Context, circle *models.Circle) error {
	if err := r.db.WithContext(ctx).Create(circle).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Circle name already in use")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *circleRepository) GetByID(ctx context.Context, id uint) (*models.Circle, error) {
	var circle models.Circle
	key := cache.CircleKey(id)

	err := cache.Aside(ctx, key, &circle, cache.CircleTTL, func() error {
		if err := r.withPostsCount(r.db.WithContext(ctx)).First(&circle, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Circle", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &circle, nil
}

func (r *circleRepository) Update(ctx context.Context, circle *models.Circle) error {
	if err := r.db.WithContext(ctx).Save(circle).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Circle name already in use")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateCircle(ctx, circle.ID)
	return nil
}

// Delete removes the circle and everything hanging off it. Posts carry
// comments and reports, so the cascade runs inside one transaction.
func (r *circleRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var postIDs []uint
		if err := tx.Model(&models.Post{}).Where("circle_id = ?", id).Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		if len(postIDs) > 0 {
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Report{}).Error; err != nil {
				return err
			}
			if err := tx.Where("circle_id = ?", id).Delete(&models.Post{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("circle_id = ?", id).Delete(&models.CircleFollow{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Circle{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCircle(ctx, id)
	return nil
}

func (r *circleRepository) ListActive(ctx context.Context, limit, offset int) ([]models.Circle, error) {
	var circles []models.Circle
	err := r.withPostsCount(r.db.WithContext(ctx)).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&circles).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return circles, nil
}

func (r *circleRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Circle{}).Where("is_active = ?", true).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *circleRepository) ListAll(ctx context.Context, limit, offset int) ([]models.Circle, error) {
	var circles []models.Circle
	err := r.withPostsCount(r.db.WithContext(ctx)).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&circles).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return circles, nil
}

// Search matches active circles whose name or description contains the query,
// case-insensitively. LOWER/LIKE keeps the query portable across drivers.
func (r *circleRepository) Search(ctx context.Context, query string, limit, offset int) ([]models.Circle, error) {
	var circles []models.Circle
	like := "%" + strings.ToLower(query) + "%"
	err := r.withPostsCount(r.db.WithContext(ctx)).
		Where("is_active = ?", true).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&circles).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return circles, nil
}

func (r *circleRepository) CountSearch(ctx context.Context, query string) (int64, error) {
	var count int64
	like := "%" + strings.ToLower(query) + "%"
	err := r.db.WithContext(ctx).
		Model(&models.Circle{}).
		Where("is_active = ?", true).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *circleRepository) SetActive(ctx context.Context, id uint, active bool) error {
	result := r.db.WithContext(ctx).Model(&models.Circle{}).Where("id = ?", id).UpdateColumn("is_active", active)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Circle", id)
	}
	cache.InvalidateCircle(ctx, id)
	return nil
}
