// Package models defines the persisted entities and API views of the feed graph.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a member of the network. ID is the stable key issued by the identity provider.
type User struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Avatar    *string   `gorm:"size:2048" json:"avatar,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	FollowersCount int64 `gorm:"->;-:migration" json:"-"`
	FollowingCount int64 `gorm:"->;-:migration" json:"-"`
	MessagesCount  int64 `gorm:"->;-:migration" json:"-"`
	IsFollowing    bool  `gorm:"->;-:migration" json:"-"`
}

// TableName specifies the table name for User.
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a key when the caller did not supply one.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Viewer is the verified identity making a request.
type Viewer struct {
	UserID string
	Email  string
}

// Anonymous reports whether the viewer carries no identity.
func (v Viewer) Anonymous() bool {
	return v.UserID == ""
}
