package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserFollow is a directed edge: FollowerID follows FollowingID.
type UserFollow struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	FollowerID  string    `gorm:"size:64;not null;uniqueIndex:idx_user_follows_pair;index:idx_user_follows_follower" json:"follower_id"`
	FollowingID string    `gorm:"size:64;not null;uniqueIndex:idx_user_follows_pair;index:idx_user_follows_following" json:"following_id"`
	Follower    User      `gorm:"foreignKey:FollowerID" json:"-"`
	Following   User      `gorm:"foreignKey:FollowingID" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for UserFollow.
func (UserFollow) TableName() string {
	return "user_follows"
}

// BeforeCreate assigns a key when the caller did not supply one.
func (f *UserFollow) BeforeCreate(_ *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
