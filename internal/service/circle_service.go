package service

import (
	"context"
	"strings"

	"ourcircle/internal/models"
	"ourcircle/internal/repository"
	"ourcircle/internal/validation"
)

// CirclesPerPage is the fixed page size of the all-circles directory.
const CirclesPerPage = 10

type CircleService struct {
	circleRepo repository.CircleRepository
	followRepo repository.FollowRepository
	isAdmin    func(ctx context.Context, userID uint) (bool, error)
}

type CreateCircleInput struct {
	CreatedByUserID uint
	Name            string
	Description     string
}

type UpdateCircleInput struct {
	CircleID    uint
	Name        string
	Description string
}

// CircleDirectory is one page of the all-circles listing. Page is the clamped
// page actually served, which may differ from the one requested.
type CircleDirectory struct {
	Circles    []models.Circle `json:"circles"`
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
	TotalCount int64           `json:"total_count"`
}

func NewCircleService(
	circleRepo repository.CircleRepository,
	followRepo repository.FollowRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *CircleService {
	return &CircleService{
		circleRepo: circleRepo,
		followRepo: followRepo,
		isAdmin:    isAdmin,
	}
}

func (s *CircleService) CreateCircle(ctx context.Context, in CreateCircleInput) (*models.Circle, error) {
	if err := validation.ValidateCircleName(in.Name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if s.isAdmin != nil {
		admin, err := s.isAdmin(ctx, in.CreatedByUserID)
		if err != nil {
			return nil, err
		}
		if !admin {
			return nil, models.NewForbiddenError("Only administrators can create circles")
		}
	}

	createdBy := in.CreatedByUserID
	circle := &models.Circle{
		Name:            strings.TrimSpace(in.Name),
		Description:     in.Description,
		CreatedByUserID: &createdBy,
		IsActive:        true,
	}
	if err := s.circleRepo.Create(ctx, circle); err != nil {
		return nil, err
	}
	return circle, nil
}

func (s *CircleService) UpdateCircle(ctx context.Context, in UpdateCircleInput) (*models.Circle, error) {
	circle, err := s.getAnyState(ctx, in.CircleID)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		if err := validation.ValidateCircleName(in.Name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		circle.Name = strings.TrimSpace(in.Name)
	}
	if in.Description != "" {
		circle.Description = in.Description
	}

	if err := s.circleRepo.Update(ctx, circle); err != nil {
		return nil, err
	}
	return circle, nil
}

func (s *CircleService) DeleteCircle(ctx context.Context, id uint) error {
	if _, err := s.getAnyState(ctx, id); err != nil {
		return err
	}
	return s.circleRepo.Delete(ctx, id)
}

func (s *CircleService) SetActive(ctx context.Context, id uint, active bool) error {
	return s.circleRepo.SetActive(ctx, id, active)
}

// GetCircle returns an active circle. Inactive circles are not found for
// every caller, admins included.
func (s *CircleService) GetCircle(ctx context.Context, id uint) (*models.Circle, error) {
	circle, err := s.circleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !circle.IsActive {
		return nil, models.NewNotFoundError("Circle", id)
	}
	return circle, nil
}

// getAnyState fetches a circle regardless of its active flag, for admin
// management operations.
func (s *CircleService) getAnyState(ctx context.Context, id uint) (*models.Circle, error) {
	return s.circleRepo.GetByID(ctx, id)
}

// ListAllForAdmin returns every circle including deactivated ones.
func (s *CircleService) ListAllForAdmin(ctx context.Context, limit, offset int) ([]models.Circle, error) {
	return s.circleRepo.ListAll(ctx, limit, offset)
}

// AllCircles serves the public directory: active circles, ten per page,
// optionally filtered by a search query. An empty query returns the full
// active set. Out-of-range pages clamp to the nearest valid page.
func (s *CircleService) AllCircles(ctx context.Context, page int, search string) (*CircleDirectory, error) {
	search = strings.TrimSpace(search)

	var total int64
	var err error
	if search == "" {
		total, err = s.circleRepo.CountActive(ctx)
	} else {
		total, err = s.circleRepo.CountSearch(ctx, search)
	}
	if err != nil {
		return nil, err
	}

	totalPages := int((total + CirclesPerPage - 1) / CirclesPerPage)
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	offset := (page - 1) * CirclesPerPage

	var circles []models.Circle
	if search == "" {
		circles, err = s.circleRepo.ListActive(ctx, CirclesPerPage, offset)
	} else {
		circles, err = s.circleRepo.Search(ctx, search, CirclesPerPage, offset)
	}
	if err != nil {
		return nil, err
	}

	return &CircleDirectory{
		Circles:    circles,
		Page:       page,
		TotalPages: totalPages,
		TotalCount: total,
	}, nil
}

// SearchCircles is the circle half of the dedicated search view. Unlike the
// directory, an empty query here returns nothing.
func (s *CircleService) SearchCircles(ctx context.Context, query string, limit, offset int) ([]models.Circle, error) {
	if strings.TrimSpace(query) == "" {
		return []models.Circle{}, nil
	}
	return s.circleRepo.Search(ctx, query, limit, offset)
}

// Follow subscribes the user to an active circle. Following twice is a no-op.
func (s *CircleService) Follow(ctx context.Context, userID, circleID uint) error {
	if _, err := s.GetCircle(ctx, circleID); err != nil {
		return err
	}
	return s.followRepo.Follow(ctx, userID, circleID)
}

func (s *CircleService) Unfollow(ctx context.Context, userID, circleID uint) error {
	return s.followRepo.Unfollow(ctx, userID, circleID)
}

func (s *CircleService) IsFollowing(ctx context.Context, userID, circleID uint) (bool, error) {
	return s.followRepo.IsFollowing(ctx, userID, circleID)
}

func (s *CircleService) FollowedCircles(ctx context.Context, userID uint) ([]models.Circle, error) {
	return s.followRepo.ListCircles(ctx, userID)
}
