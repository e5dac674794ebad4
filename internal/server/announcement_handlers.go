package server

import (
	"fmt"

	"ourcircle/internal/models"
	"ourcircle/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetAnnouncements handles GET /api/announcements
// Pinned announcements come first, then newest.
func (s *Server) GetAnnouncements(c *fiber.Ctx) error {
	ctx := c.Context()

	announcements, err := s.announcementService.List(ctx)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(announcements)
}

// GetAnnouncement handles GET /api/announcements/:id
// Admin callers are sent to the management view for the same announcement;
// everyone else gets the read view.
func (s *Server) GetAnnouncement(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if userID, ok := s.optionalUserID(c); ok && !isAJAX(c) {
		admin, adminErr := s.isAdminByUserID(ctx, userID)
		if adminErr == nil && admin {
			return c.Redirect(fmt.Sprintf("/api/admin/announcements/%d", id), fiber.StatusSeeOther)
		}
	}

	announcement, err := s.announcementService.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(announcement)
}

// GetAnnouncementForAdmin handles GET /api/admin/announcements/:id
func (s *Server) GetAnnouncementForAdmin(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	announcement, err := s.announcementService.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(announcement)
}

// CreateAnnouncement handles POST /api/admin/announcements
func (s *Server) CreateAnnouncement(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	announcement, err := s.announcementService.Create(ctx, service.CreateAnnouncementInput{
		CreatedByUserID: userID,
		Title:           req.Title,
		Content:         req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}

	return respondMutation(c, fiber.StatusCreated,
		fmt.Sprintf("/api/announcements/%d", announcement.ID), announcement)
}

// UpdateAnnouncement handles PUT /api/admin/announcements/:id
func (s *Server) UpdateAnnouncement(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	announcement, err := s.announcementService.Update(ctx, service.UpdateAnnouncementInput{
		AnnouncementID: id,
		Title:          req.Title,
		Content:        req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}

	return respondMutation(c, fiber.StatusOK,
		fmt.Sprintf("/api/announcements/%d", id), announcement)
}

// DeleteAnnouncement handles DELETE /api/admin/announcements/:id
func (s *Server) DeleteAnnouncement(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.announcementService.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}

	if isAJAX(c) {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.Redirect("/api/announcements", fiber.StatusSeeOther)
}

// TogglePinAnnouncement handles POST /api/admin/announcements/:id/pin
func (s *Server) TogglePinAnnouncement(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	announcement, err := s.announcementService.TogglePin(ctx, id)
	if err != nil {
		return respondError(c, err)
	}

	return respondMutation(c, fiber.StatusOK,
		fmt.Sprintf("/api/announcements/%d", id), announcement)
}
