package server

import (
	"fmt"

	"ourcircle/internal/models"
	"ourcircle/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ReportPost handles POST /api/posts/:id/report
// Every submission files a fresh report; duplicates are not collapsed.
func (s *Server) ReportPost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	report, err := s.moderationService.ReportPost(ctx, service.ReportPostInput{
		UserID: userID,
		PostID: postID,
		Reason: req.Reason,
	})
	if err != nil {
		return respondError(c, err)
	}

	return respondMutation(c, fiber.StatusCreated,
		fmt.Sprintf("/api/posts/%d", postID), report)
}

// GetReports handles GET /api/admin/reports?resolved=
func (s *Server) GetReports(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 50)

	var resolved *bool
	if raw := c.Query("resolved"); raw != "" {
		v := raw == "true" || raw == "1"
		resolved = &v
	}

	reports, err := s.moderationService.ListReports(ctx, resolved, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(reports)
}

// ResolveReport handles POST /api/admin/reports/:id/resolve
// Resolving an already-resolved report succeeds without effect.
func (s *Server) ResolveReport(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	report, err := s.moderationService.ResolveReport(ctx, id)
	if err != nil {
		return respondError(c, err)
	}

	return respondMutation(c, fiber.StatusOK, "/api/admin/reports", report)
}

// GetDashboard handles GET /api/admin/dashboard
func (s *Server) GetDashboard(c *fiber.Ctx) error {
	ctx := c.Context()

	counts, err := s.moderationService.Dashboard(ctx)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(counts)
}
