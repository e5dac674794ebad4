package server

import (
	"fmt"

	"ourcircle/internal/models"
	"ourcircle/internal/repository"
	"ourcircle/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetCircles handles GET /api/circles?page=&search=
// @Summary Browse circles
// @Description Paged directory of active circles, optionally filtered by a search term
// @Tags circles
// @Produce json
// @Param page query int false "1-based page, clamped to the valid range"
// @Param search query string false "case-insensitive name/description filter"
// @Success 200 {object} service.CircleDirectory
// @Router /circles [get]
func (s *Server) GetCircles(c *fiber.Ctx) error {
	ctx := c.Context()
	page := c.QueryInt("page", 1)
	search := c.Query("search")

	directory, err := s.circleService.AllCircles(ctx, page, search)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(directory)
}

// GetCircle handles GET /api/circles/:id
// Deactivated circles are indistinguishable from missing ones, for admins too.
func (s *Server) GetCircle(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	circle, err := s.circleService.GetCircle(ctx, id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(circle)
}

// GetCirclePosts handles GET /api/circles/:id/posts?sort=&limit=&offset=
// @Summary List posts in a circle
// @Description Pinned posts first, then ordered by the sort token (created_at_desc default)
// @Tags circles
// @Produce json
// @Param id path int true "circle ID"
// @Param sort query string false "created_at_desc | created_at_asc | likes_desc | dislikes_desc | comments_desc"
// @Success 200 {array} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /circles/{id}/posts [get]
func (s *Server) GetCirclePosts(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	page := parsePagination(c, 20)
	posts, err := s.postService.ListCirclePosts(ctx, service.ListCirclePostsInput{
		CircleID: id,
		Sort:     c.Query("sort", repository.DefaultSort),
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(posts)
}

// CreateCircle handles POST /api/admin/circles
func (s *Server) CreateCircle(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	circle, err := s.circleService.CreateCircle(ctx, service.CreateCircleInput{
		CreatedByUserID: userID,
		Name:            req.Name,
		Description:     req.Description,
	})
	if err != nil {
		return respondError(c, err)
	}

	return respondMutation(c, fiber.StatusCreated,
		fmt.Sprintf("/api/circles/%d", circle.ID), circle)
}

// UpdateCircle handles PUT /api/admin/circles/:id
func (s *Server) UpdateCircle(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	circle, err := s.circleService.UpdateCircle(ctx, service.UpdateCircleInput{
		CircleID:    id,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return respondError(c, err)
	}

	return respondMutation(c, fiber.StatusOK,
		fmt.Sprintf("/api/circles/%d", circle.ID), circle)
}

// DeleteCircle handles DELETE /api/admin/circles/:id
// The circle's posts, their comments and reports, and follow rows go with it.
func (s *Server) DeleteCircle(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.circleService.DeleteCircle(ctx, id); err != nil {
		return respondError(c, err)
	}

	if isAJAX(c) {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.Redirect("/api/circles", fiber.StatusSeeOther)
}

// GetAllCirclesForAdmin handles GET /api/admin/circles
// Unlike the public directory this includes deactivated circles.
func (s *Server) GetAllCirclesForAdmin(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 50)

	circles, err := s.circleService.ListAllForAdmin(ctx, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(circles)
}

// ActivateCircle handles POST /api/admin/circles/:id/activate
func (s *Server) ActivateCircle(c *fiber.Ctx) error {
	return s.setCircleActive(c, true)
}

// DeactivateCircle handles POST /api/admin/circles/:id/deactivate
func (s *Server) DeactivateCircle(c *fiber.Ctx) error {
	return s.setCircleActive(c, false)
}

func (s *Server) setCircleActive(c *fiber.Ctx, active bool) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.circleService.SetActive(ctx, id, active); err != nil {
		return respondError(c, err)
	}

	return respondMutation(c, fiber.StatusOK, "/api/admin/circles",
		fiber.Map{"id": id, "is_active": active})
}

// FollowCircle handles POST /api/circles/:id/follow
// Following twice is a no-op.
func (s *Server) FollowCircle(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.circleService.Follow(ctx, userID, id); err != nil {
		return respondError(c, err)
	}

	return respondMutation(c, fiber.StatusOK,
		fmt.Sprintf("/api/circles/%d", id), fiber.Map{"following": true})
}

// UnfollowCircle handles DELETE /api/circles/:id/follow
func (s *Server) UnfollowCircle(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.circleService.Unfollow(ctx, userID, id); err != nil {
		return respondError(c, err)
	}

	return respondMutation(c, fiber.StatusOK,
		fmt.Sprintf("/api/circles/%d", id), fiber.Map{"following": false})
}

// GetFollowedCircles handles GET /api/circles/followed
func (s *Server) GetFollowedCircles(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	circles, err := s.circleService.FollowedCircles(ctx, userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(circles)
}
