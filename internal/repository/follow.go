package repository

import (
	"context"

	"feedgraph/internal/middleware"
	"feedgraph/internal/models"
	"feedgraph/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines persistence operations for follow edges.
type FollowRepository interface {
	Create(ctx context.Context, followerID, followingID string) error
	Delete(ctx context.Context, followerID, followingID string) (bool, error)
	Exists(ctx context.Context, followerID, followingID string) (bool, error)
	CountFollowers(ctx context.Context, userID string) (int64, error)
	CountFollowing(ctx context.Context, userID string) (int64, error)
}

type followRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewFollowRepository returns a new FollowRepository implementation.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db, log: observability.NewRepoLogger("user_follows", middleware.Logger)}
}

// Create inserts follower -> following. The unique pair index decides races: a
// duplicate insert affects no rows and is reported as AlreadyFollowing.
func (r *followRepository) Create(ctx context.Context, followerID, followingID string) error {
	defer observability.TrackQuery("create", "user_follows")()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range []string{followerID, followingID} {
			var found int64
			if err := tx.Model(&models.User{}).Where("id = ?", id).Count(&found).Error; err != nil {
				return err
			}
			if found == 0 {
				return models.NewUserNotFoundError(id)
			}
		}

		edge := &models.UserFollow{FollowerID: followerID, FollowingID: followingID}
		res := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "follower_id"}, {Name: "following_id"}},
				DoNothing: true,
			}).
			Create(edge)
		if res.Error != nil {
			if isUniqueConstraintError(res.Error) {
				return models.NewAlreadyFollowingError(followingID)
			}
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewAlreadyFollowingError(followingID)
		}
		return nil
	})
	if err != nil {
		if models.ErrorCode(err) == "" {
			r.log.LogError(ctx, err, "create")
		}
		return storageError(err)
	}
	r.log.LogCreate(ctx, map[string]any{"follower_id": followerID, "following_id": followingID})
	return nil
}

// Delete removes the edge and reports whether one existed.
func (r *followRepository) Delete(ctx context.Context, followerID, followingID string) (bool, error) {
	defer observability.TrackQuery("delete", "user_follows")()
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.UserFollow{})
	if res.Error != nil {
		r.log.LogError(ctx, res.Error, "delete")
		return false, storageError(res.Error)
	}
	if res.RowsAffected > 0 {
		r.log.LogDelete(ctx, map[string]any{"follower_id": followerID, "following_id": followingID})
	}
	return res.RowsAffected > 0, nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	defer observability.TrackQuery("exists", "user_follows")()
	var exists bool
	err := r.db.WithContext(ctx).
		Raw("SELECT EXISTS(SELECT 1 FROM user_follows WHERE follower_id = ? AND following_id = ?)", followerID, followingID).
		Scan(&exists).Error
	if err != nil {
		return false, storageError(err)
	}
	return exists, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	return r.count(ctx, "following_id = ?", userID)
}

func (r *followRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	return r.count(ctx, "follower_id = ?", userID)
}

func (r *followRepository) count(ctx context.Context, where, userID string) (int64, error) {
	defer observability.TrackQuery("count", "user_follows")()
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.UserFollow{}).Where(where, userID).Count(&n).Error; err != nil {
		return 0, storageError(err)
	}
	return n, nil
}
