package service

import (
	"context"
	"strings"

	"ourcircle/internal/models"
	"ourcircle/internal/repository"
)

const maxCommentLen = 10000

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
	isAdmin     func(ctx context.Context, userID uint) (bool, error)
}

type CreateCommentInput struct {
	UserID      uint
	PostID      uint
	Content     string
	IsAnonymous bool
	Nickname    string
}

type DeleteCommentInput struct {
	UserID    uint
	CommentID uint
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		isAdmin:     isAdmin,
	}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	if in.IsAnonymous {
		if strings.TrimSpace(in.Nickname) == "" {
			return nil, models.NewValidationError("Nickname is required for anonymous commenting")
		}
		user, err := s.userRepo.GetByID(ctx, in.UserID)
		if err != nil {
			return nil, err
		}
		if !user.Nicknames.Contains(in.Nickname) {
			return nil, models.NewValidationError("Nickname is not bound to your account")
		}
	}

	comment := &models.Comment{
		UserID:      in.UserID,
		PostID:      in.PostID,
		Content:     in.Content,
		IsAnonymous: in.IsAnonymous,
	}
	if in.IsAnonymous {
		comment.Nickname = in.Nickname
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) ListComments(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	return s.commentRepo.ListByPost(ctx, postID, limit, offset)
}

func (s *CommentService) Like(ctx context.Context, commentID uint) (*models.Comment, error) {
	if err := s.commentRepo.IncrementLikes(ctx, commentID); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, commentID)
}

func (s *CommentService) Dislike(ctx context.Context, commentID uint) (*models.Comment, error) {
	if err := s.commentRepo.IncrementDislikes(ctx, commentID); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, commentID)
}

// DeleteComment is admin-only; unlike posts there is no owner-delete path.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	if _, err := s.commentRepo.GetByID(ctx, in.CommentID); err != nil {
		return err
	}
	if s.isAdmin == nil {
		return models.NewForbiddenError("Only administrators can delete comments")
	}
	admin, err := s.isAdmin(ctx, in.UserID)
	if err != nil {
		return err
	}
	if !admin {
		return models.NewForbiddenError("Only administrators can delete comments")
	}
	return s.commentRepo.Delete(ctx, in.CommentID)
}
