package repository

import (
	"context"
	"errors"

	"feedgraph/internal/middleware"
	"feedgraph/internal/models"
	"feedgraph/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MessageRepository defines persistence operations for messages and their likes.
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id, viewerID string) (*models.Message, error)
	ListReplies(ctx context.Context, parentID, viewerID string) ([]*models.Message, error)
	ListByAuthor(ctx context.Context, authorID, viewerID string, limit int) ([]*models.Message, error)
	ListFeed(ctx context.Context, viewerID string, limit int) ([]*models.Message, error)
	Delete(ctx context.Context, id string) error
	ToggleLike(ctx context.Context, userID, messageID string) (liked bool, likes int64, err error)
}

type messageRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewMessageRepository returns a new MessageRepository implementation.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db, log: observability.NewRepoLogger("messages", middleware.Logger)}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	defer observability.TrackQuery("create", "messages")()
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(message).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return storageError(err)
	}
	r.log.LogCreate(ctx, map[string]any{"message_id": message.ID, "author_id": message.AuthorID})
	return nil
}

// GetByID loads one message with its author and aggregates as seen by viewerID.
func (r *messageRepository) GetByID(ctx context.Context, id, viewerID string) (*models.Message, error) {
	defer observability.TrackQuery("get", "messages")()
	var message models.Message
	err := r.applyMessageDetails(r.db.WithContext(ctx), viewerID).
		Where("messages.id = ?", id).
		Take(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewMessageNotFoundError(id)
		}
		return nil, storageError(err)
	}
	return &message, nil
}

// ListReplies returns the direct children of parentID in conversational order.
// The parent itself need not exist.
func (r *messageRepository) ListReplies(ctx context.Context, parentID, viewerID string) ([]*models.Message, error) {
	defer observability.TrackQuery("list_replies", "messages")()
	var messages []*models.Message
	err := r.applyMessageDetails(r.db.WithContext(ctx), viewerID).
		Where("messages.reply_to_id = ?", parentID).
		Order("messages.created_at ASC, messages.id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, storageError(err)
	}
	return messages, nil
}

func (r *messageRepository) ListByAuthor(ctx context.Context, authorID, viewerID string, limit int) ([]*models.Message, error) {
	defer observability.TrackQuery("list_by_author", "messages")()
	q := r.applyMessageDetails(r.db.WithContext(ctx), viewerID).
		Where("messages.author_id = ?", authorID).
		Order("messages.created_at DESC, messages.id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var messages []*models.Message
	if err := q.Find(&messages).Error; err != nil {
		return nil, storageError(err)
	}
	return messages, nil
}

// ListFeed returns the viewer's own messages and those of everyone they follow,
// newest first.
func (r *messageRepository) ListFeed(ctx context.Context, viewerID string, limit int) ([]*models.Message, error) {
	defer observability.TrackQuery("list_feed", "messages")()
	followed := r.db.Model(&models.UserFollow{}).Select("following_id").Where("follower_id = ?", viewerID)
	q := r.applyMessageDetails(r.db.WithContext(ctx), viewerID).
		Where("messages.author_id = ? OR messages.author_id IN (?)", viewerID, followed).
		Order("messages.created_at DESC, messages.id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var messages []*models.Message
	if err := q.Find(&messages).Error; err != nil {
		return nil, storageError(err)
	}
	return messages, nil
}

// Delete removes a message and its likes. Replies keep their reply_to_id and
// reply_to_author snapshot.
func (r *messageRepository) Delete(ctx context.Context, id string) error {
	defer observability.TrackQuery("delete", "messages")()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id = ?", id).Delete(&models.MessageLike{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Message{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewMessageNotFoundError(id)
		}
		return nil
	})
	if err != nil {
		if models.ErrorCode(err) == "" {
			r.log.LogError(ctx, err, "delete")
		}
		return storageError(err)
	}
	r.log.LogDelete(ctx, map[string]any{"message_id": id})
	return nil
}

// ToggleLike flips the (user, message) like edge and returns the new state with the
// like count read inside the same transaction.
func (r *messageRepository) ToggleLike(ctx context.Context, userID, messageID string) (bool, int64, error) {
	defer observability.TrackQuery("toggle_like", "message_likes")()
	var (
		liked bool
		likes int64
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var found int64
		if err := tx.Model(&models.Message{}).Where("id = ?", messageID).Count(&found).Error; err != nil {
			return err
		}
		if found == 0 {
			return models.NewMessageNotFoundError(messageID)
		}

		var likers int64
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&likers).Error; err != nil {
			return err
		}
		if likers == 0 {
			return models.NewUserNotFoundError(userID)
		}

		res := tx.Where("user_id = ? AND message_id = ?", userID, messageID).Delete(&models.MessageLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			like := &models.MessageLike{UserID: userID, MessageID: messageID}
			err := tx.Omit(clause.Associations).
				Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "user_id"}, {Name: "message_id"}},
					DoNothing: true,
				}).
				Create(like).Error
			if err != nil {
				return err
			}
			liked = true
		}

		return tx.Model(&models.MessageLike{}).Where("message_id = ?", messageID).Count(&likes).Error
	})
	if err != nil {
		if models.ErrorCode(err) == "" {
			r.log.LogError(ctx, err, "toggle_like")
		}
		return false, 0, storageError(err)
	}
	r.log.LogUpdate(ctx, map[string]any{"message_id": messageID, "user_id": userID, "liked": liked})
	return liked, likes, nil
}

// applyMessageDetails joins the author's current profile and adds like and reply
// counts plus the viewer's like state in a single query.
func (r *messageRepository) applyMessageDetails(db *gorm.DB, viewerID string) *gorm.DB {
	selectQuery := "messages.*, users.name AS author_name, users.avatar AS author_avatar, " +
		"(SELECT COUNT(*) FROM message_likes WHERE message_likes.message_id = messages.id) AS likes_count, " +
		"(SELECT COUNT(*) FROM messages AS replies WHERE replies.reply_to_id = messages.id) AS replies_count"

	db = db.Model(&models.Message{}).Joins("JOIN users ON users.id = messages.author_id")
	if viewerID != "" {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM message_likes WHERE message_likes.message_id = messages.id AND message_likes.user_id = ?) AS liked", viewerID)
	}
	return db.Select(selectQuery + ", false AS liked")
}
