package repository

import (
	"context"
	"errors"
	"strings"

	"feedgraph/internal/cache"
	"feedgraph/internal/middleware"
	"feedgraph/internal/models"
	"feedgraph/internal/observability"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	DeleteCascade(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	GetProfile(ctx context.Context, id, viewerID string) (*models.User, error)
	List(ctx context.Context, viewerID, query string, limit int) ([]*models.User, error)
	ListFollowers(ctx context.Context, userID, viewerID string, limit int) ([]*models.User, error)
	ListFollowing(ctx context.Context, userID, viewerID string, limit int) ([]*models.User, error)
}

type userRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db, log: observability.NewRepoLogger("users", middleware.Logger)}
}

// GetByID returns the bare user row. Rows are cached; aggregates never are.
func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func(ctx context.Context) error {
		defer observability.TrackQuery("get", "users")()
		if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewUserNotFoundError(id)
			}
			return storageError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail matches case-insensitively and returns nil, nil when no user has the email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	defer observability.TrackQuery("get_by_email", "users")()
	var user models.User
	if err := r.db.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storageError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	defer observability.TrackQuery("create", "users")()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("User already exists", err)
		}
		r.log.LogError(ctx, err, "create")
		return storageError(err)
	}
	r.log.LogCreate(ctx, map[string]any{"user_id": user.ID})
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	defer observability.TrackQuery("update", "users")()
	err := r.db.WithContext(ctx).
		Model(user).
		Select("Name", "Email", "Avatar").
		Updates(user).Error
	if err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Email already in use", err)
		}
		r.log.LogError(ctx, err, "update")
		return storageError(err)
	}
	cache.InvalidateUser(ctx, user.ID)
	r.log.LogUpdate(ctx, map[string]any{"user_id": user.ID})
	return nil
}

// DeleteCascade removes a user and everything that references it, in dependency
// order: likes, messages, follow edges, then the user row. Replies other users
// wrote to the deleted messages are left in place.
func (r *userRepository) DeleteCascade(ctx context.Context, id string) error {
	defer observability.TrackQuery("delete_cascade", "users")()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		authored := tx.Model(&models.Message{}).Select("id").Where("author_id = ?", id)
		if err := tx.Where("user_id = ? OR message_id IN (?)", id, authored).Delete(&models.MessageLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR following_id = ?", id, id).Delete(&models.UserFollow{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewUserNotFoundError(id)
		}
		return nil
	})
	if err != nil {
		if models.ErrorCode(err) == "" {
			r.log.LogError(ctx, err, "delete")
		}
		return storageError(err)
	}
	cache.InvalidateUser(ctx, id)
	r.log.LogDelete(ctx, map[string]any{"user_id": id})
	return nil
}

func (r *userRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, storageError(err)
	}
	return count > 0, nil
}

func (r *userRepository) GetProfile(ctx context.Context, id, viewerID string) (*models.User, error) {
	defer observability.TrackQuery("get_profile", "users")()
	var user models.User
	err := applyUserDetails(r.db.WithContext(ctx).Model(&models.User{}), viewerID, true).
		Where("users.id = ?", id).
		Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewUserNotFoundError(id)
		}
		return nil, storageError(err)
	}
	return &user, nil
}

// List returns every user except the viewer, newest first, optionally filtered by a
// case-insensitive substring of name or email.
func (r *userRepository) List(ctx context.Context, viewerID, query string, limit int) ([]*models.User, error) {
	defer observability.TrackQuery("list", "users")()
	q := applyUserDetails(r.db.WithContext(ctx).Model(&models.User{}), viewerID, false).
		Where("users.id <> ?", viewerID)

	if term := strings.TrimSpace(query); term != "" {
		like := "%" + escapeLike(strings.ToLower(term)) + "%"
		q = q.Where(`(LOWER(users.name) LIKE ? ESCAPE '\' OR LOWER(users.email) LIKE ? ESCAPE '\')`, like, like)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var users []*models.User
	if err := q.Order("users.created_at DESC, users.id DESC").Find(&users).Error; err != nil {
		return nil, storageError(err)
	}
	return users, nil
}

func (r *userRepository) ListFollowers(ctx context.Context, userID, viewerID string, limit int) ([]*models.User, error) {
	return r.listEdge(ctx, "JOIN user_follows AS edge ON edge.follower_id = users.id", "edge.following_id = ?", userID, viewerID, limit)
}

func (r *userRepository) ListFollowing(ctx context.Context, userID, viewerID string, limit int) ([]*models.User, error) {
	return r.listEdge(ctx, "JOIN user_follows AS edge ON edge.following_id = users.id", "edge.follower_id = ?", userID, viewerID, limit)
}

func (r *userRepository) listEdge(ctx context.Context, join, where, userID, viewerID string, limit int) ([]*models.User, error) {
	defer observability.TrackQuery("list_edge", "user_follows")()
	q := applyUserDetails(r.db.WithContext(ctx).Model(&models.User{}), viewerID, false).
		Joins(join).
		Where(where, userID).
		Order("edge.created_at DESC, users.id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var users []*models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, storageError(err)
	}
	return users, nil
}

// applyUserDetails selects follower counts and the viewer's follow state in one
// query. withProfile adds following and authored-message counts.
func applyUserDetails(db *gorm.DB, viewerID string, withProfile bool) *gorm.DB {
	selectQuery := "users.*, " +
		"(SELECT COUNT(*) FROM user_follows WHERE user_follows.following_id = users.id) AS followers_count"
	if withProfile {
		selectQuery += ", (SELECT COUNT(*) FROM user_follows WHERE user_follows.follower_id = users.id) AS following_count" +
			", (SELECT COUNT(*) FROM messages WHERE messages.author_id = users.id) AS messages_count"
	}

	if viewerID != "" {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM user_follows WHERE user_follows.follower_id = ? AND user_follows.following_id = users.id) AS is_following", viewerID)
	}
	return db.Select(selectQuery + ", false AS is_following")
}
