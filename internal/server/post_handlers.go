package server

import (
	"fmt"

	"ourcircle/internal/models"
	"ourcircle/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts
// @Summary Create a post
// @Description Creates a post in an active circle; anonymous posts require a bound nickname
// @Tags posts
// @Accept json
// @Produce json
// @Param request body object{circle_id=int,content=string,is_anonymous=bool,nickname=string,location=string,latitude=number,longitude=number} true "Post"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req struct {
		CircleID    uint     `json:"circle_id"`
		Content     string   `json:"content"`
		IsAnonymous bool     `json:"is_anonymous"`
		Nickname    string   `json:"nickname"`
		Location    string   `json:"location"`
		Latitude    *float64 `json:"latitude"`
		Longitude   *float64 `json:"longitude"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(ctx, service.CreatePostInput{
		UserID:      userID,
		CircleID:    req.CircleID,
		Content:     req.Content,
		IsAnonymous: req.IsAnonymous,
		Nickname:    req.Nickname,
		Location:    req.Location,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	})
	if err != nil {
		return respondError(c, err)
	}

	return respondMutation(c, fiber.StatusCreated,
		fmt.Sprintf("/api/posts/%d", post.ID), post)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(ctx, id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(post)
}

// GetPopularPosts handles GET /api/posts/popular
func (s *Server) GetPopularPosts(c *fiber.Ctx) error {
	ctx := c.Context()
	posts, err := s.postService.PopularPosts(ctx, c.QueryInt("limit", 5))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(posts)
}

// GetRecommendedPosts handles GET /api/posts/recommended
func (s *Server) GetRecommendedPosts(c *fiber.Ctx) error {
	ctx := c.Context()
	posts, err := s.postService.RecommendedPosts(ctx, c.QueryInt("limit", 10))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(posts)
}

// LikePost handles POST /api/posts/:id/like
// Every call adds one; the counter is deliberately not deduplicated.
func (s *Server) LikePost(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.Like(ctx, id)
	if err != nil {
		return respondError(c, err)
	}

	return respondMutation(c, fiber.StatusOK,
		fmt.Sprintf("/api/posts/%d", id), post)
}

// DislikePost handles POST /api/posts/:id/dislike
func (s *Server) DislikePost(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.Dislike(ctx, id)
	if err != nil {
		return respondError(c, err)
	}

	return respondMutation(c, fiber.StatusOK,
		fmt.Sprintf("/api/posts/%d", id), post)
}

// UpdatePost handles PUT /api/posts/:id
// Only the author may edit; admins delete but never edit others' posts.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(ctx, service.UpdatePostInput{
		UserID:  userID,
		PostID:  id,
		Content: req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}

	return respondMutation(c, fiber.StatusOK,
		fmt.Sprintf("/api/posts/%d", id), post)
}

// DeletePost handles DELETE /api/posts/:id (owner or admin)
func (s *Server) DeletePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(ctx, service.DeletePostInput{
		UserID: userID,
		PostID: id,
	}); err != nil {
		return respondError(c, err)
	}

	if isAJAX(c) {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.Redirect("/api/home", fiber.StatusSeeOther)
}

// AdminDeletePost handles DELETE /api/admin/posts/:id
// Same removal as DeletePost; the route guard already proved the caller is
// an admin, so ownership is irrelevant here.
func (s *Server) AdminDeletePost(c *fiber.Ctx) error {
	return s.DeletePost(c)
}

// TogglePinPost handles POST /api/admin/posts/:id/pin
func (s *Server) TogglePinPost(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.TogglePin(ctx, id)
	if err != nil {
		return respondError(c, err)
	}

	return respondMutation(c, fiber.StatusOK,
		fmt.Sprintf("/api/posts/%d", id), post)
}

// ToggleRecommendPost handles POST /api/admin/posts/:id/recommend
func (s *Server) ToggleRecommendPost(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.ToggleRecommend(ctx, id)
	if err != nil {
		return respondError(c, err)
	}

	return respondMutation(c, fiber.StatusOK,
		fmt.Sprintf("/api/posts/%d", id), post)
}
