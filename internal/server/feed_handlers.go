package server

import (
	"feedgraph/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// GetFeed handles GET /api/feed
// @Summary Home feed
// @Description The caller's messages and those of followed users, newest first.
// @Tags feed
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.MessageView
// @Failure 403 {object} models.ErrorResponse "home_feed flag disabled"
// @Router /feed [get]
func (s *Server) GetFeed(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	feed, err := s.feedService.ListFeed(ctx, middleware.ViewerFromCtx(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(feed)
}

// GetFeatureFlags returns configured feature flags and evaluated state for current user.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	if s.featureFlags == nil {
		return c.JSON(fiber.Map{
			"raw":       map[string]string{},
			"evaluated": map[string]bool{},
		})
	}

	viewer := middleware.ViewerFromCtx(c)
	return c.JSON(fiber.Map{
		"raw":       s.featureFlags.Raw(),
		"evaluated": s.featureFlags.Snapshot(viewer.UserID),
	})
}
