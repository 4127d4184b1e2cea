package server

import (
	"feedgraph/internal/middleware"
	"feedgraph/internal/models"
	"feedgraph/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createMessageRequest struct {
	Content   string   `json:"content"`
	ReplyToID *string  `json:"replyToId,omitempty"`
	Image     *string  `json:"image,omitempty"`
	Images    []string `json:"images,omitempty"`
}

// CreateMessage handles POST /api/messages
// @Summary Post a message or a reply
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createMessageRequest true "Message"
// @Success 201 {object} models.MessageView
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse "author has no profile"
// @Router /messages [post]
func (s *Server) CreateMessage(c *fiber.Ctx) error {
	var req createMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	message, err := s.messageService.CreateMessage(ctx, middleware.ViewerFromCtx(c), service.CreateMessageInput{
		Content:   req.Content,
		ReplyToID: req.ReplyToID,
		Image:     req.Image,
		Images:    req.Images,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}

// GetMessage handles GET /api/messages/:id
// @Summary A single message
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 200 {object} models.MessageView
// @Failure 404 {object} models.ErrorResponse
// @Router /messages/{id} [get]
func (s *Server) GetMessage(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	message, err := s.messageService.GetMessage(ctx, middleware.ViewerFromCtx(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(message)
}

// DeleteMessage handles DELETE /api/messages/:id
// @Summary Delete one of your messages
// @Tags messages
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /messages/{id} [delete]
func (s *Server) DeleteMessage(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := s.messageService.DeleteMessage(ctx, middleware.ViewerFromCtx(c), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetReplies handles GET /api/messages/:id/replies
// @Summary Direct replies, oldest first
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 200 {array} models.MessageView
// @Router /messages/{id}/replies [get]
func (s *Server) GetReplies(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	replies, err := s.messageService.GetReplies(ctx, middleware.ViewerFromCtx(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(replies)
}

// ToggleLike handles POST /api/messages/:id/like
// @Summary Like or unlike a message
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 200 {object} models.MessageView
// @Failure 404 {object} models.ErrorResponse
// @Router /messages/{id}/like [post]
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	message, err := s.messageService.ToggleLike(ctx, middleware.ViewerFromCtx(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(message)
}
