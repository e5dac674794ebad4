package service

import (
	"context"
	"strings"

	"ourcircle/internal/geo"
	"ourcircle/internal/models"
	"ourcircle/internal/repository"
)

const maxPostContentLen = 50000

type PostService struct {
	postRepo   repository.PostRepository
	circleRepo repository.CircleRepository
	userRepo   repository.UserRepository
	geocoder   geo.Geocoder
	isAdmin    func(ctx context.Context, userID uint) (bool, error)
}

type CreatePostInput struct {
	UserID      uint
	CircleID    uint
	Content     string
	IsAnonymous bool
	Nickname    string
	// Location is client-supplied display text. When empty and coordinates
	// are present, the location is resolved through the geocoder.
	Location  string
	Latitude  *float64
	Longitude *float64
}

type UpdatePostInput struct {
	UserID  uint
	PostID  uint
	Content string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

type ListCirclePostsInput struct {
	CircleID uint
	Sort     string
	Limit    int
	Offset   int
}

func NewPostService(
	postRepo repository.PostRepository,
	circleRepo repository.CircleRepository,
	userRepo repository.UserRepository,
	geocoder geo.Geocoder,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *PostService {
	return &PostService{
		postRepo:   postRepo,
		circleRepo: circleRepo,
		userRepo:   userRepo,
		geocoder:   geocoder,
		isAdmin:    isAdmin,
	}
}

// requireActiveCircle treats missing and deactivated circles identically.
func (s *PostService) requireActiveCircle(ctx context.Context, circleID uint) (*models.Circle, error) {
	circle, err := s.circleRepo.GetByID(ctx, circleID)
	if err != nil {
		return nil, err
	}
	if !circle.IsActive {
		return nil, models.NewNotFoundError("Circle", circleID)
	}
	return circle, nil
}

// checkNickname enforces the pseudonym-binding rule: an anonymous write must
// carry a pseudonym currently bound to the author. The check always reads
// current state, so unbinding later leaves old content intact.
func (s *PostService) checkNickname(ctx context.Context, userID uint, nickname string) error {
	if strings.TrimSpace(nickname) == "" {
		return models.NewValidationError("Nickname is required for anonymous posting")
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.Nicknames.Contains(nickname) {
		return models.NewValidationError("Nickname is not bound to your account")
	}
	return nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if _, err := s.requireActiveCircle(ctx, in.CircleID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxPostContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}
	if in.IsAnonymous {
		if err := s.checkNickname(ctx, in.UserID, in.Nickname); err != nil {
			return nil, err
		}
	}

	location := strings.TrimSpace(in.Location)
	if location == "" && in.Latitude != nil && in.Longitude != nil {
		location = geo.ResolveLocation(ctx, s.geocoder, *in.Latitude, *in.Longitude)
	}

	post := &models.Post{
		UserID:      in.UserID,
		CircleID:    in.CircleID,
		Content:     in.Content,
		IsAnonymous: in.IsAnonymous,
		Location:    location,
	}
	if in.IsAnonymous {
		post.Nickname = in.Nickname
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID)
}

// GetPost hides posts whose circle has been deactivated.
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireActiveCircle(ctx, post.CircleID); err != nil {
		return nil, models.NewNotFoundError("Post", id)
	}
	return post, nil
}

func (s *PostService) ListCirclePosts(ctx context.Context, in ListCirclePostsInput) ([]*models.Post, error) {
	if _, err := s.requireActiveCircle(ctx, in.CircleID); err != nil {
		return nil, err
	}
	limit := in.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.postRepo.ListByCircle(ctx, in.CircleID, in.Sort, limit, in.Offset)
}

func (s *PostService) GetUserPosts(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.ListByUser(ctx, userID, limit, offset)
}

func (s *PostService) PopularPosts(ctx context.Context, limit int) ([]*models.Post, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.postRepo.ListPopular(ctx, limit)
}

func (s *PostService) RecommendedPosts(ctx context.Context, limit int) ([]*models.Post, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.postRepo.ListRecommended(ctx, limit)
}

// SearchPosts is the dedicated search entry point: an empty query returns an
// empty result set rather than everything.
func (s *PostService) SearchPosts(ctx context.Context, query string, limit, offset int) ([]*models.Post, error) {
	if strings.TrimSpace(query) == "" {
		return []*models.Post{}, nil
	}
	return s.postRepo.Search(ctx, query, limit, offset)
}

// Like adds one to the post's like counter. Each call counts: there is no
// per-user dedup.
func (s *PostService) Like(ctx context.Context, postID uint) (*models.Post, error) {
	if err := s.postRepo.IncrementLikes(ctx, postID); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID)
}

func (s *PostService) Dislike(ctx context.Context, postID uint) (*models.Post, error) {
	if err := s.postRepo.IncrementDislikes(ctx, postID); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only edit your own posts")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxPostContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}

	post.Content = in.Content
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost allows the owner or an admin to delete.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return err
	}

	if post.UserID != in.UserID {
		if s.isAdmin == nil {
			return models.NewUnauthorizedError("You can only delete your own posts")
		}
		admin, err := s.isAdmin(ctx, in.UserID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewUnauthorizedError("You can only delete your own posts")
		}
	}

	return s.postRepo.Delete(ctx, in.PostID)
}

// TogglePin flips the pinned flag. Admin enforcement happens at the route
// guard; the service only flips state.
func (s *PostService) TogglePin(ctx context.Context, postID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := s.postRepo.SetPinned(ctx, postID, !post.IsPinned); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID)
}

func (s *PostService) ToggleRecommend(ctx context.Context, postID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := s.postRepo.SetRecommended(ctx, postID, !post.IsRecommended); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID)
}
