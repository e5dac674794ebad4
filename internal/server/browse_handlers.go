package server

import (
	"errors"
	"strconv"

	"ourcircle/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetHome handles GET /api/home
// The landing feed: first page of active circles, the five most liked posts,
// and current announcements.
func (s *Server) GetHome(c *fiber.Ctx) error {
	ctx := c.Context()

	directory, err := s.circleService.AllCircles(ctx, 1, "")
	if err != nil {
		return respondError(c, err)
	}

	popular, err := s.postService.PopularPosts(ctx, 5)
	if err != nil {
		return respondError(c, err)
	}

	announcements, err := s.announcementService.List(ctx)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"circles":       directory,
		"popular_posts": popular,
		"announcements": announcements,
	})
}

// Search handles GET /api/search?q=
// The dedicated search view. An empty query yields empty result sets for
// both kinds; it does not degrade into a full listing.
func (s *Server) Search(c *fiber.Ctx) error {
	ctx := c.Context()
	q := c.Query("q")
	page := parsePagination(c, 20)

	circles, err := s.circleService.SearchCircles(ctx, q, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}

	posts, err := s.postService.SearchPosts(ctx, q, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"query":   q,
		"circles": circles,
		"posts":   posts,
	})
}

// GetWeather handles GET /api/weather?lat=&lon=
// Unlike geocoding, weather failures are surfaced to the caller.
func (s *Server) GetWeather(c *fiber.Ctx) error {
	ctx := c.Context()

	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.Query("lon"), 64)
	if latErr != nil || lonErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("lat and lon are required"))
	}

	if s.weather == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewUpstreamError("weather", errors.New("no weather provider configured")))
	}

	report, err := s.weather.Current(ctx, lat, lon)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(report)
}
