// Package testutil provides shared fixtures for tests that need a real Graph Store.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"feedgraph/internal/database"
	"feedgraph/internal/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// NewSQLiteDB opens a private in-memory database with foreign keys on and the
// full schema migrated. It is closed when the test ends.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(database.PersistentModels()...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

// CreateUser inserts a user with the given id and name; the email is derived from the id.
func CreateUser(t testing.TB, db *gorm.DB, id, name string) *models.User {
	t.Helper()
	u := &models.User{ID: id, Name: name, Email: id + "@example.test"}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", id, err)
	}
	return u
}

// CreateUserAt is CreateUser with a fixed creation time.
func CreateUserAt(t testing.TB, db *gorm.DB, id, name string, at time.Time) *models.User {
	t.Helper()
	u := &models.User{ID: id, Name: name, Email: id + "@example.test", CreatedAt: at, UpdatedAt: at}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", id, err)
	}
	return u
}

// CreateFollow inserts the edge follower -> following.
func CreateFollow(t testing.TB, db *gorm.DB, followerID, followingID string) {
	t.Helper()
	if err := db.Omit(clause.Associations).Create(&models.UserFollow{FollowerID: followerID, FollowingID: followingID}).Error; err != nil {
		t.Fatalf("create follow %s->%s: %v", followerID, followingID, err)
	}
}

// CreateMessage inserts a message authored by authorID at the given time.
func CreateMessage(t testing.TB, db *gorm.DB, id, authorID, content string, replyTo *string, at time.Time) *models.Message {
	t.Helper()
	m := &models.Message{ID: id, AuthorID: authorID, Content: content, ReplyToID: replyTo, CreatedAt: at}
	if err := db.Omit(clause.Associations).Create(m).Error; err != nil {
		t.Fatalf("create message %s: %v", id, err)
	}
	return m
}

// CreateLike inserts a like by userID on messageID.
func CreateLike(t testing.TB, db *gorm.DB, userID, messageID string) {
	t.Helper()
	if err := db.Omit(clause.Associations).Create(&models.MessageLike{UserID: userID, MessageID: messageID}).Error; err != nil {
		t.Fatalf("create like %s on %s: %v", userID, messageID, err)
	}
}

// StrPtr returns a pointer to s.
func StrPtr(s string) *string {
	return &s
}
