package service

import (
	"context"

	"ourcircle/internal/models"
	"ourcircle/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
}

// Profile bundles a user with their recent posts for the profile view.
type Profile struct {
	User  *models.User   `json:"user"`
	Posts []*models.Post `json:"posts"`
}

func NewUserService(userRepo repository.UserRepository, postRepo repository.PostRepository) *UserService {
	return &UserService{userRepo: userRepo, postRepo: postRepo}
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) GetProfile(ctx context.Context, userID uint, postLimit, postOffset int) (*Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	posts, err := s.postRepo.ListByUser(ctx, userID, postLimit, postOffset)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, Posts: posts}, nil
}

// AddNickname binds a new pseudonym to the user. The list rejects empty
// input and case-sensitive duplicates.
func (s *UserService) AddNickname(ctx context.Context, userID uint, nickname string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := user.Nicknames.Add(nickname); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// RemoveNickname unbinds a pseudonym. Removing one that is not bound is an
// error. Content already posted under the pseudonym is untouched.
func (s *UserService) RemoveNickname(ctx context.Context, userID uint, nickname string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := user.Nicknames.Remove(nickname); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) SetAdmin(ctx context.Context, targetID uint, isAdmin bool) (*models.User, error) {
	if err := s.userRepo.SetAdmin(ctx, targetID, isAdmin); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, targetID)
}
