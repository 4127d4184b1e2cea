package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"feedgraph/internal/models"
	"feedgraph/internal/observability"
	"feedgraph/internal/repository"
	"feedgraph/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// DefaultMessageMaxLength bounds message content in runes when no limit is configured.
const DefaultMessageMaxLength = 500

// MessageService creates, threads, likes and formats messages.
type MessageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	maxLength   int
	now         func() time.Time
}

// CreateMessageInput is the author-supplied part of a new message.
type CreateMessageInput struct {
	Content   string
	ReplyToID *string
	Image     *string
	Images    []string
}

// NewMessageService returns a new MessageService.
func NewMessageService(messageRepo repository.MessageRepository, userRepo repository.UserRepository, maxLength int) *MessageService {
	if maxLength <= 0 {
		maxLength = DefaultMessageMaxLength
	}
	return &MessageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		maxLength:   maxLength,
		now:         time.Now,
	}
}

// CreateMessage stores a message by the viewer. A reply to a message that no longer
// exists is still created, without a reply_to_author snapshot.
func (s *MessageService) CreateMessage(ctx context.Context, viewer models.Viewer, in CreateMessageInput) (view *models.MessageView, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "MessageService", "CreateMessage")
	defer func() { observability.EndSpan(span, err) }()

	if err := requireViewer(viewer); err != nil {
		return nil, err
	}

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewEmptyContentError()
	}
	if err := validation.ValidateContent(content, s.maxLength); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if in.Image != nil {
		if err := validation.ValidateMediaURL(*in.Image); err != nil {
			return nil, models.NewValidationError("image: " + err.Error())
		}
	}
	if err := validation.ValidateImages(in.Images); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	if _, err := s.userRepo.GetByID(ctx, viewer.UserID); err != nil {
		return nil, err
	}

	message := &models.Message{
		Content:   content,
		AuthorID:  viewer.UserID,
		Image:     in.Image,
		Images:    in.Images,
		CreatedAt: s.now().UTC(),
	}

	kind := "post"
	if in.ReplyToID != nil && strings.TrimSpace(*in.ReplyToID) != "" {
		kind = "reply"
		parentID := strings.TrimSpace(*in.ReplyToID)
		message.ReplyToID = &parentID
		span.SetAttributes(attribute.String("message.reply_to", parentID))

		parent, err := s.messageRepo.GetByID(ctx, parentID, "")
		switch {
		case err == nil:
			author := parent.AuthorName
			message.ReplyToAuthor = &author
		case errors.Is(err, models.ErrMessageNotFound):
		default:
			return nil, err
		}
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}
	observability.MessagesCreated.WithLabelValues(kind).Inc()

	return s.GetMessage(ctx, viewer, message.ID)
}

// GetMessage loads and formats one message for the viewer.
func (s *MessageService) GetMessage(ctx context.Context, viewer models.Viewer, id string) (*models.MessageView, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}
	message, err := s.messageRepo.GetByID(ctx, id, viewer.UserID)
	if err != nil {
		return nil, err
	}
	view := FormatMessage(message)
	return &view, nil
}

// GetReplies returns the direct replies to id, oldest first.
func (s *MessageService) GetReplies(ctx context.Context, viewer models.Viewer, id string) (views []models.MessageView, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "MessageService", "GetReplies", attribute.String("message.id", id))
	defer func() { observability.EndSpan(span, err) }()

	if err := requireViewer(viewer); err != nil {
		return nil, err
	}
	replies, err := s.messageRepo.ListReplies(ctx, id, viewer.UserID)
	if err != nil {
		return nil, err
	}
	return formatMessages(replies), nil
}

// ToggleLike flips the viewer's like on a message and returns the message as seen
// right after the toggle.
func (s *MessageService) ToggleLike(ctx context.Context, viewer models.Viewer, id string) (view *models.MessageView, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "MessageService", "ToggleLike", attribute.String("message.id", id))
	defer func() { observability.EndSpan(span, err) }()

	if err := requireViewer(viewer); err != nil {
		return nil, err
	}
	liked, likes, err := s.messageRepo.ToggleLike(ctx, viewer.UserID, id)
	if err != nil {
		return nil, err
	}
	state := "unliked"
	if liked {
		state = "liked"
	}
	observability.LikeToggles.WithLabelValues(state).Inc()

	view, err = s.GetMessage(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	view.IsLiked = liked
	view.Likes = likes
	return view, nil
}

// DeleteMessage removes one of the viewer's own messages.
func (s *MessageService) DeleteMessage(ctx context.Context, viewer models.Viewer, id string) (err error) {
	ctx, span := observability.StartServiceSpan(ctx, "MessageService", "DeleteMessage", attribute.String("message.id", id))
	defer func() { observability.EndSpan(span, err) }()

	if err := requireViewer(viewer); err != nil {
		return err
	}
	message, err := s.messageRepo.GetByID(ctx, id, "")
	if err != nil {
		return err
	}
	if message.AuthorID != viewer.UserID {
		return models.NewForbiddenError("You can only delete your own messages")
	}
	return s.messageRepo.Delete(ctx, id)
}

// ListUserMessages returns a user's messages, newest first.
func (s *MessageService) ListUserMessages(ctx context.Context, viewer models.Viewer, userID string, limit int) ([]models.MessageView, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}
	ok, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.NewUserNotFoundError(userID)
	}
	messages, err := s.messageRepo.ListByAuthor(ctx, userID, viewer.UserID, limit)
	if err != nil {
		return nil, err
	}
	return formatMessages(messages), nil
}
