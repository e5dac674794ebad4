package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"ourcircle/internal/models"
	"ourcircle/internal/repository"
)

const maxAnnouncementTitleLen = 200

type AnnouncementService struct {
	announcementRepo repository.AnnouncementRepository
}

type CreateAnnouncementInput struct {
	CreatedByUserID uint
	Title           string
	Content         string
}

type UpdateAnnouncementInput struct {
	AnnouncementID uint
	Title          string
	Content        string
}

func NewAnnouncementService(announcementRepo repository.AnnouncementRepository) *AnnouncementService {
	return &AnnouncementService{announcementRepo: announcementRepo}
}

func validateAnnouncementTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return models.NewValidationError("Title is required")
	}
	if utf8.RuneCountInString(title) > maxAnnouncementTitleLen {
		return models.NewValidationError("Title too long (max 200 characters)")
	}
	return nil
}

func (s *AnnouncementService) Create(ctx context.Context, in CreateAnnouncementInput) (*models.Announcement, error) {
	if err := validateAnnouncementTitle(in.Title); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}

	createdBy := in.CreatedByUserID
	announcement := &models.Announcement{
		Title:           in.Title,
		Content:         in.Content,
		CreatedByUserID: &createdBy,
	}
	if err := s.announcementRepo.Create(ctx, announcement); err != nil {
		return nil, err
	}
	return announcement, nil
}

func (s *AnnouncementService) Get(ctx context.Context, id uint) (*models.Announcement, error) {
	return s.announcementRepo.GetByID(ctx, id)
}

// List returns the board: pinned first, then newest.
func (s *AnnouncementService) List(ctx context.Context) ([]models.Announcement, error) {
	return s.announcementRepo.List(ctx)
}

func (s *AnnouncementService) Update(ctx context.Context, in UpdateAnnouncementInput) (*models.Announcement, error) {
	announcement, err := s.announcementRepo.GetByID(ctx, in.AnnouncementID)
	if err != nil {
		return nil, err
	}

	if in.Title != "" {
		if err := validateAnnouncementTitle(in.Title); err != nil {
			return nil, err
		}
		announcement.Title = in.Title
	}
	if in.Content != "" {
		announcement.Content = in.Content
	}

	if err := s.announcementRepo.Update(ctx, announcement); err != nil {
		return nil, err
	}
	return announcement, nil
}

func (s *AnnouncementService) Delete(ctx context.Context, id uint) error {
	return s.announcementRepo.Delete(ctx, id)
}

func (s *AnnouncementService) TogglePin(ctx context.Context, id uint) (*models.Announcement, error) {
	announcement, err := s.announcementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.announcementRepo.SetPinned(ctx, id, !announcement.IsPinned); err != nil {
		return nil, err
	}
	announcement.IsPinned = !announcement.IsPinned
	return announcement, nil
}
