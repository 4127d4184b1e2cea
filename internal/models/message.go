package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is a short post. ReplyToID has no foreign key: a reply outlives its parent.
type Message struct {
	ID            string    `gorm:"primaryKey;size:64" json:"id"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	AuthorID      string    `gorm:"size:64;not null;index:idx_messages_author" json:"author_id"`
	Author        User      `gorm:"foreignKey:AuthorID" json:"-"`
	Image         *string   `gorm:"size:2048" json:"image,omitempty"`
	Images        []string  `gorm:"type:text;serializer:json" json:"images,omitempty"`
	ReplyToID     *string   `gorm:"size:64;index:idx_messages_reply_to" json:"reply_to_id,omitempty"`
	ReplyToAuthor *string   `gorm:"size:100" json:"reply_to_author,omitempty"`
	CreatedAt     time.Time `gorm:"index:idx_messages_created_at" json:"created_at"`

	AuthorName   string  `gorm:"->;-:migration" json:"-"`
	AuthorAvatar *string `gorm:"->;-:migration" json:"-"`
	LikesCount   int64   `gorm:"->;-:migration" json:"-"`
	RepliesCount int64   `gorm:"->;-:migration" json:"-"`
	Liked        bool    `gorm:"->;-:migration" json:"-"`
}

// TableName specifies the table name for Message.
func (Message) TableName() string {
	return "messages"
}

// BeforeCreate assigns a key when the caller did not supply one.
func (m *Message) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// MessageLike records that a user liked a message. At most one per (user, message).
type MessageLike struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	UserID    string    `gorm:"size:64;not null;uniqueIndex:idx_message_likes_pair" json:"user_id"`
	MessageID string    `gorm:"size:64;not null;uniqueIndex:idx_message_likes_pair;index:idx_message_likes_message" json:"message_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	Message   Message   `gorm:"foreignKey:MessageID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for MessageLike.
func (MessageLike) TableName() string {
	return "message_likes"
}

// BeforeCreate assigns a key when the caller did not supply one.
func (l *MessageLike) BeforeCreate(_ *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
