package server

import (
	"feedgraph/internal/middleware"
	"feedgraph/internal/models"
	"feedgraph/internal/service"

	"github.com/gofiber/fiber/v2"
)

type syncProfileRequest struct {
	Name   string  `json:"name"`
	Avatar *string `json:"avatar,omitempty"`
}

type updateProfileRequest struct {
	Name   *string `json:"name,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

// GetMyProfile handles GET /api/users/me
// @Summary Current user's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.UserView
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	viewer := middleware.ViewerFromCtx(c)
	user, err := s.userService.GetUserProfile(ctx, viewer, viewer.UserID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// SyncMyProfile handles PUT /api/users/me
// @Summary Create or refresh the current user's row
// @Description The first call after sign-in creates the user; later calls update name and avatar. The email comes from the token.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body syncProfileRequest true "Profile"
// @Success 200 {object} models.UserView
// @Success 201 {object} models.UserView
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /users/me [put]
func (s *Server) SyncMyProfile(c *fiber.Ctx) error {
	var req syncProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, created, err := s.userService.SyncViewer(ctx, middleware.ViewerFromCtx(c), service.SyncViewerInput{
		Name:   req.Name,
		Avatar: req.Avatar,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	if created {
		return c.Status(fiber.StatusCreated).JSON(user)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PATCH /api/users/me
// @Summary Update name or avatar
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body updateProfileRequest true "Fields to change"
// @Success 200 {object} models.UserView
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/me [patch]
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := s.userService.UpdateProfile(ctx, middleware.ViewerFromCtx(c), service.UpdateProfileInput{
		Name:   req.Name,
		Avatar: req.Avatar,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// DeleteMyAccount handles DELETE /api/users/me
// @Summary Delete the current user and everything they own
// @Tags users
// @Security BearerAuth
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /users/me [delete]
func (s *Server) DeleteMyAccount(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := s.userService.DeleteUser(ctx, middleware.ViewerFromCtx(c)); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListUsers handles GET /api/users?q=
// @Summary User directory
// @Description Everyone except the caller, newest first, optionally filtered by name or email.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param q query string false "Case-insensitive name or email fragment"
// @Success 200 {array} models.UserView
// @Router /users [get]
func (s *Server) ListUsers(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	users, err := s.userService.ListUsers(ctx, middleware.ViewerFromCtx(c), c.Query("q"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(users)
}

// GetUserProfile handles GET /api/users/:id
// @Summary User profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} models.UserView
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := s.userService.GetUserProfile(ctx, middleware.ViewerFromCtx(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// ListFollowers handles GET /api/users/:id/followers
// @Summary Users following a user
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {array} models.UserView
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/followers [get]
func (s *Server) ListFollowers(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	users, err := s.userService.ListFollowers(ctx, middleware.ViewerFromCtx(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(users)
}

// ListFollowing handles GET /api/users/:id/following
// @Summary Users a user follows
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {array} models.UserView
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/following [get]
func (s *Server) ListFollowing(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	users, err := s.userService.ListFollowing(ctx, middleware.ViewerFromCtx(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(users)
}

// ListUserMessages handles GET /api/users/:id/messages
// @Summary A user's messages, newest first
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param limit query int false "Maximum messages (1-100)"
// @Success 200 {array} models.MessageView
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/messages [get]
func (s *Server) ListUserMessages(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 50)

	ctx, cancel := requestContext(c)
	defer cancel()

	messages, err := s.messageService.ListUserMessages(ctx, middleware.ViewerFromCtx(c), id, page.Limit)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(messages)
}
