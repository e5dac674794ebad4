package repository

import (
	"context"
	"errors"

	"ourcircle/internal/cache"
	"ourcircle/internal/models"

	"gorm.io/gorm"
)

// AnnouncementRepository defines persistence operations for announcements.
type AnnouncementRepository interface {
	Create(ctx context.Context, announcement *models.Announcement) error
	GetByID(ctx context.Context, id uint) (*models.Announcement, error)
	List(ctx context.Context) ([]models.Announcement, error)
	Update(ctx context.Context, announcement *models.Announcement) error
	Delete(ctx context.Context, id uint) error
	SetPinned(ctx context.Context, id uint, pinned bool) error
	Count(ctx context.Context) (int64, error)
}

type announcementRepository struct {
	db *gorm.DB
}

// NewAnnouncementRepository returns a new AnnouncementRepository implementation.
func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	if err := r.db.WithContext(ctx).Create(announcement).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateAnnouncements(ctx)
	return nil
}

func (r *announcementRepository) GetByID(ctx context.Context, id uint) (*models.Announcement, error) {
	var announcement models.Announcement
	if err := r.db.WithContext(ctx).Preload("CreatedByUser").First(&announcement, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Announcement", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &announcement, nil
}

// List returns all announcements, pinned first, newest first within each group.
// The full list is cached as one entry since it is small and read on every
// home view.
func (r *announcementRepository) List(ctx context.Context) ([]models.Announcement, error) {
	var announcements []models.Announcement

	err := cache.Aside(ctx, cache.AnnouncementsKey, &announcements, cache.AnnouncementsTTL, func() error {
		if err := r.db.WithContext(ctx).
			Order("is_pinned DESC, created_at DESC").
			Find(&announcements).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return announcements, nil
}

func (r *announcementRepository) Update(ctx context.Context, announcement *models.Announcement) error {
	if err := r.db.WithContext(ctx).Save(announcement).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateAnnouncements(ctx)
	return nil
}

func (r *announcementRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Announcement{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Announcement", id)
	}
	cache.InvalidateAnnouncements(ctx)
	return nil
}

func (r *announcementRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Announcement{}).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *announcementRepository) SetPinned(ctx context.Context, id uint, pinned bool) error {
	result := r.db.WithContext(ctx).Model(&models.Announcement{}).Where("id = ?", id).UpdateColumn("is_pinned", pinned)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Announcement", id)
	}
	cache.InvalidateAnnouncements(ctx)
	return nil
}
