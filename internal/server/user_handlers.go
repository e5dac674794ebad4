package server

import (
	"ourcircle/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
// Returns the caller's account, recent posts, and followed circles.
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	page := parsePagination(c, 20)
	profile, err := s.userService.GetProfile(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}

	followed, err := s.circleService.FollowedCircles(ctx, userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"user":             profile.User,
		"posts":            profile.Posts,
		"followed_circles": followed,
	})
}

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUserByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(user)
}

// GetUserPosts handles GET /api/users/:id/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	page := parsePagination(c, 20)
	if _, err := s.userService.GetUserByID(ctx, id); err != nil {
		return respondError(c, err)
	}

	posts, err := s.postService.GetUserPosts(ctx, id, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(posts)
}

// AddNickname handles POST /api/users/me/nicknames
func (s *Server) AddNickname(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req struct {
		Nickname string `json:"nickname"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.AddNickname(ctx, userID, req.Nickname)
	if err != nil {
		return respondError(c, err)
	}

	return respondMutation(c, fiber.StatusCreated, "/api/users/me", user)
}

// RemoveNickname handles DELETE /api/users/me/nicknames
func (s *Server) RemoveNickname(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req struct {
		Nickname string `json:"nickname"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.RemoveNickname(ctx, userID, req.Nickname)
	if err != nil {
		return respondError(c, err)
	}

	return respondMutation(c, fiber.StatusOK, "/api/users/me", user)
}

// GetAllUsers handles GET /api/admin/users
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 50)

	users, err := s.userService.ListUsers(ctx, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(users)
}

// PromoteToAdmin handles POST /api/admin/users/:id/promote
func (s *Server) PromoteToAdmin(c *fiber.Ctx) error {
	return s.setAdminStatus(c, true)
}

// DemoteFromAdmin handles POST /api/admin/users/:id/demote
func (s *Server) DemoteFromAdmin(c *fiber.Ctx) error {
	return s.setAdminStatus(c, false)
}

func (s *Server) setAdminStatus(c *fiber.Ctx, isAdmin bool) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.SetAdmin(ctx, id, isAdmin)
	if err != nil {
		return respondError(c, err)
	}

	return respondMutation(c, fiber.StatusOK, "/api/admin/users", user)
}
