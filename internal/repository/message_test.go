package repository

import (
	"context"
	"testing"
	"time"

	"feedgraph/internal/models"
	"feedgraph/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageRepository_CreateAndGetByID(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()
	author := testutil.CreateUser(t, db, "u2", "Bob")
	author.Avatar = testutil.StrPtr("https://cdn.example.com/bob.png")
	require.NoError(t, db.Save(author).Error)

	m := &models.Message{
		AuthorID: "u2",
		Content:  "hello",
		Images:   []string{"https://cdn.example.com/1.png", "https://cdn.example.com/2.png"},
	}
	require.NoError(t, repo.Create(ctx, m))
	require.NotEmpty(t, m.ID)

	got, err := repo.GetByID(ctx, m.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Content)
	assert.Equal(t, "Bob", got.AuthorName)
	require.NotNil(t, got.AuthorAvatar)
	assert.Equal(t, "https://cdn.example.com/bob.png", *got.AuthorAvatar)
	assert.Equal(t, m.Images, got.Images)
	assert.Zero(t, got.LikesCount)
	assert.Zero(t, got.RepliesCount)
	assert.False(t, got.Liked)

	_, err = repo.GetByID(ctx, "missing", "u1")
	assert.ErrorIs(t, err, models.ErrMessageNotFound)
}

func TestMessageRepository_AuthorNameIsLive(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()
	author := testutil.CreateUser(t, db, "u2", "Bob")
	testutil.CreateMessage(t, db, "m1", "u2", "hello", nil, time.Now().UTC())

	require.NoError(t, db.Model(author).Update("name", "Robert").Error)

	got, err := repo.GetByID(ctx, "m1", "")
	require.NoError(t, err)
	assert.Equal(t, "Robert", got.AuthorName)
}

func TestMessageRepository_ListRepliesAscending(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	testutil.CreateUser(t, db, "u1", "A")
	testutil.CreateUser(t, db, "u2", "B")
	testutil.CreateMessage(t, db, "m1", "u2", "root", nil, base)
	testutil.CreateMessage(t, db, "r3", "u1", "third", testutil.StrPtr("m1"), base.Add(3*time.Minute))
	testutil.CreateMessage(t, db, "r1", "u2", "first", testutil.StrPtr("m1"), base.Add(time.Minute))
	testutil.CreateMessage(t, db, "r2", "u1", "second", testutil.StrPtr("m1"), base.Add(2*time.Minute))
	testutil.CreateMessage(t, db, "rr", "u2", "nested", testutil.StrPtr("r1"), base.Add(4*time.Minute))

	replies, err := repo.ListReplies(ctx, "m1", "u1")
	require.NoError(t, err)
	require.Len(t, replies, 3)
	assert.Equal(t, []string{"r1", "r2", "r3"}, messageIDs(replies))
	assert.Equal(t, int64(1), replies[0].RepliesCount)

	parent, err := repo.GetByID(ctx, "m1", "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), parent.RepliesCount, "only direct children are counted")

	none, err := repo.ListReplies(ctx, "no-such-parent", "u1")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMessageRepository_ToggleLike(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()
	testutil.CreateUser(t, db, "u1", "A")
	testutil.CreateUser(t, db, "u2", "B")
	testutil.CreateMessage(t, db, "m1", "u2", "hello", nil, time.Now().UTC())
	testutil.CreateLike(t, db, "u2", "m1")

	liked, likes, err := repo.ToggleLike(ctx, "u1", "m1")
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(2), likes)

	got, err := repo.GetByID(ctx, "m1", "u1")
	require.NoError(t, err)
	assert.True(t, got.Liked)
	assert.Equal(t, int64(2), got.LikesCount)

	liked, likes, err = repo.ToggleLike(ctx, "u1", "m1")
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, int64(1), likes)

	_, _, err = repo.ToggleLike(ctx, "u1", "ghost")
	assert.ErrorIs(t, err, models.ErrMessageNotFound)
}

func TestMessageRepository_ToggleLikeMissingUser(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewMessageRepository(db)
	testutil.CreateUser(t, db, "u2", "B")
	testutil.CreateMessage(t, db, "m1", "u2", "hello", nil, time.Now().UTC())

	_, _, err := repo.ToggleLike(context.Background(), "ghost", "m1")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))

	var likes int64
	require.NoError(t, db.Model(&models.MessageLike{}).Count(&likes).Error)
	assert.Zero(t, likes)
}

func TestMessageRepository_ListByAuthorAndFeed(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	testutil.CreateUser(t, db, "u1", "A")
	testutil.CreateUser(t, db, "u2", "B")
	testutil.CreateUser(t, db, "u3", "C")
	testutil.CreateFollow(t, db, "u1", "u2")
	testutil.CreateMessage(t, db, "a1", "u1", "mine", nil, base)
	testutil.CreateMessage(t, db, "b1", "u2", "followed old", nil, base.Add(time.Minute))
	testutil.CreateMessage(t, db, "b2", "u2", "followed new", nil, base.Add(2*time.Minute))
	testutil.CreateMessage(t, db, "c1", "u3", "stranger", nil, base.Add(3*time.Minute))

	byAuthor, err := repo.ListByAuthor(ctx, "u2", "u1", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"b2", "b1"}, messageIDs(byAuthor))

	feed, err := repo.ListFeed(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"b2", "b1", "a1"}, messageIDs(feed))

	limited, err := repo.ListFeed(ctx, "u1", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"b2"}, messageIDs(limited))
}

func TestMessageRepository_DeleteKeepsReplies(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	testutil.CreateUser(t, db, "u1", "A")
	testutil.CreateUser(t, db, "u2", "B")
	testutil.CreateMessage(t, db, "m1", "u2", "root", nil, now)
	testutil.CreateMessage(t, db, "r1", "u1", "reply", testutil.StrPtr("m1"), now.Add(time.Second))
	testutil.CreateLike(t, db, "u1", "m1")

	require.NoError(t, repo.Delete(ctx, "m1"))

	_, err := repo.GetByID(ctx, "m1", "")
	assert.ErrorIs(t, err, models.ErrMessageNotFound)

	replies, err := repo.ListReplies(ctx, "m1", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, messageIDs(replies))

	assert.ErrorIs(t, repo.Delete(ctx, "m1"), models.ErrMessageNotFound)
}

func messageIDs(messages []*models.Message) []string {
	out := make([]string, 0, len(messages))
	for _, m := range messages {
		out = append(out, m.ID)
	}
	return out
}
