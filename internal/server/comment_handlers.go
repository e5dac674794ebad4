package server

import (
	"fmt"

	"ourcircle/internal/models"
	"ourcircle/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/posts/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content     string `json:"content"`
		IsAnonymous bool   `json:"is_anonymous"`
		Nickname    string `json:"nickname"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(ctx, service.CreateCommentInput{
		UserID:      userID,
		PostID:      postID,
		Content:     req.Content,
		IsAnonymous: req.IsAnonymous,
		Nickname:    req.Nickname,
	})
	if err != nil {
		return respondError(c, err)
	}

	return respondMutation(c, fiber.StatusCreated,
		fmt.Sprintf("/api/posts/%d", postID), comment)
}

// GetComments handles GET /api/posts/:id/comments
// Comments are returned oldest first.
func (s *Server) GetComments(c *fiber.Ctx) error {
	ctx := c.Context()
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	page := parsePagination(c, 50)
	comments, err := s.commentService.ListComments(ctx, postID, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(comments)
}

// LikeComment handles POST /api/comments/:id/like
func (s *Server) LikeComment(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comment, err := s.commentService.Like(ctx, id)
	if err != nil {
		return respondError(c, err)
	}

	return respondMutation(c, fiber.StatusOK,
		fmt.Sprintf("/api/posts/%d", comment.PostID), comment)
}

// DislikeComment handles POST /api/comments/:id/dislike
func (s *Server) DislikeComment(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comment, err := s.commentService.Dislike(ctx, id)
	if err != nil {
		return respondError(c, err)
	}

	return respondMutation(c, fiber.StatusOK,
		fmt.Sprintf("/api/posts/%d", comment.PostID), comment)
}

// DeleteComment handles DELETE /api/admin/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.commentService.DeleteComment(ctx, service.DeleteCommentInput{
		UserID:    userID,
		CommentID: id,
	}); err != nil {
		return respondError(c, err)
	}

	if isAJAX(c) {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.Redirect("/api/home", fiber.StatusSeeOther)
}
