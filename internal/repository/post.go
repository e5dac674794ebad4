package repository

import (
	"context"
	"errors"
	"strings"

	"ourcircle/internal/cache"
	"ourcircle/internal/models"
	"ourcircle/internal/observability"

	"gorm.io/gorm"
)

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	ListByCircle(ctx context.Context, circleID uint, sort string, limit, offset int) ([]*models.Post, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error)
	ListPopular(ctx context.Context, limit int) ([]*models.Post, error)
	ListRecommended(ctx context.Context, limit int) ([]*models.Post, error)
	Search(ctx context.Context, query string, limit, offset int) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	IncrementLikes(ctx context.Context, id uint) error
	IncrementDislikes(ctx context.Context, id uint) error
	SetPinned(ctx context.Context, id uint, pinned bool) error
	SetRecommended(ctx context.Context, id uint, recommended bool) error
	CountByCircle(ctx context.Context, circleID uint) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// sortOrders maps the public sort token to an ORDER BY clause.
// Unknown tokens fall back to DefaultSort.
var sortOrders = map[string]string{
	"created_at_desc": "posts.created_at DESC",
	"created_at_asc":  "posts.created_at ASC",
	"likes_desc":      "posts.likes DESC, posts.created_at DESC",
	"dislikes_desc":   "posts.dislikes DESC, posts.created_at DESC",
	"comments_desc":   "comments_count DESC, posts.created_at DESC",
}

// DefaultSort is the sort token applied when none (or an unknown one) is given.
const DefaultSort = "created_at_desc"

// ResolveSort returns the ORDER BY clause for a sort token.
func ResolveSort(token string) string {
	if order, ok := sortOrders[token]; ok {
		return order
	}
	return sortOrders[DefaultSort]
}

// withCommentsCount annotates each post with its comment count in a single query.
func (r *postRepository) withCommentsCount(db *gorm.DB) *gorm.DB {
	return db.Select("posts.*, (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) as comments_count")
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCircle(ctx, post.CircleID)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	key := cache.PostKey(id)

	err := cache.Aside(ctx, key, &post, cache.PostTTL, func() error {
		if err := r.withCommentsCount(r.db.WithContext(ctx)).
			Preload("User").
			Preload("Circle").
			First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListByCircle returns a page of a circle's posts, pinned posts first, then
// ordered by the resolved sort token.
func (r *postRepository) ListByCircle(ctx context.Context, circleID uint, sort string, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.withCommentsCount(r.db.WithContext(ctx)).
		Preload("User").
		Where("circle_id = ?", circleID).
		Order("posts.is_pinned DESC").
		Order(ResolveSort(sort)).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.withCommentsCount(r.db.WithContext(ctx)).
		Preload("Circle").
		Where("user_id = ?", userID).
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// ListPopular returns the most-liked posts across all active circles.
func (r *postRepository) ListPopular(ctx context.Context, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.withCommentsCount(r.db.WithContext(ctx)).
		Preload("User").
		Preload("Circle").
		Joins("JOIN circles ON circles.id = posts.circle_id").
		Where("circles.is_active = ?", true).
		Order("posts.likes DESC, posts.created_at DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListRecommended(ctx context.Context, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.withCommentsCount(r.db.WithContext(ctx)).
		Preload("User").
		Preload("Circle").
		Joins("JOIN circles ON circles.id = posts.circle_id").
		Where("posts.is_recommended = ? AND circles.is_active = ?", true, true).
		Order("posts.created_at DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// Search matches post content case-insensitively within active circles.
func (r *postRepository) Search(ctx context.Context, query string, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	like := "%" + strings.ToLower(query) + "%"
	err := r.withCommentsCount(r.db.WithContext(ctx)).
		Preload("User").
		Preload("Circle").
		Joins("JOIN circles ON circles.id = posts.circle_id").
		Where("circles.is_active = ?", true).
		Where("LOWER(posts.content) LIKE ?", like).
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

// Delete removes the post with its comments and reports in one transaction.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	var circleID uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id", "circle_id").First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return err
		}
		circleID = post.CircleID
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Report{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, id)
	cache.InvalidateCircle(ctx, circleID)
	return nil
}

// IncrementLikes adds one to the counter unconditionally. There is no
// per-user reaction record, so repeat reactions keep counting.
func (r *postRepository) IncrementLikes(ctx context.Context, id uint) error {
	return r.bumpCounter(ctx, id, "likes")
}

func (r *postRepository) IncrementDislikes(ctx context.Context, id uint) error {
	return r.bumpCounter(ctx, id, "dislikes")
}

func (r *postRepository) bumpCounter(ctx context.Context, id uint, column string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	observability.ReactionsTotal.WithLabelValues("post", column).Inc()
	cache.InvalidatePost(ctx, id)
	return nil
}

func (r *postRepository) SetPinned(ctx context.Context, id uint, pinned bool) error {
	return r.setFlag(ctx, id, "is_pinned", pinned)
}

func (r *postRepository) SetRecommended(ctx context.Context, id uint, recommended bool) error {
	return r.setFlag(ctx, id, "is_recommended", recommended)
}

func (r *postRepository) setFlag(ctx context.Context, id uint, column string, value bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn(column, value)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

func (r *postRepository) CountByCircle(ctx context.Context, circleID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("circle_id = ?", circleID).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
