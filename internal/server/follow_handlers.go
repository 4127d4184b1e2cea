package server

import (
	"feedgraph/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// FollowUser handles POST /api/users/:id/follow
// @Summary Follow a user
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 201 {object} service.FollowStatus
// @Failure 400 {object} models.ErrorResponse "self-follow"
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "already following"
// @Router /users/{id}/follow [post]
func (s *Server) FollowUser(c *fiber.Ctx) error {
	targetID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	viewer := middleware.ViewerFromCtx(c)
	if err := s.followService.Follow(ctx, viewer, targetID); err != nil {
		return respondServiceError(c, err)
	}

	status, err := s.followService.Status(ctx, viewer, targetID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(status)
}

// UnfollowUser handles DELETE /api/users/:id/follow
// @Summary Unfollow a user
// @Description Removing an edge that does not exist succeeds.
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} service.FollowStatus
// @Router /users/{id}/follow [delete]
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	targetID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	viewer := middleware.ViewerFromCtx(c)
	if err := s.followService.Unfollow(ctx, viewer, targetID); err != nil {
		return respondServiceError(c, err)
	}

	status, err := s.followService.Status(ctx, viewer, targetID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(status)
}

// GetFollowStatus handles GET /api/users/:id/follow
// @Summary Whether the caller follows a user, with that user's counts
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} service.FollowStatus
// @Router /users/{id}/follow [get]
func (s *Server) GetFollowStatus(c *fiber.Ctx) error {
	targetID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	status, err := s.followService.Status(ctx, middleware.ViewerFromCtx(c), targetID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(status)
}
