package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"feedgraph/internal/models"
	"feedgraph/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserServiceSyncViewerCreatesThenUpdates(t *testing.T) {
	f := newGraphFixture(t)
	ctx := context.Background()
	viewer := models.Viewer{UserID: "idp|123", Email: "alice@example.com"}

	view, created, err := f.users.SyncViewer(ctx, viewer, SyncViewerInput{Name: " Alice "})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Alice", view.Name)
	assert.Equal(t, "alice@example.com", view.Email)
	require.NotNil(t, view.Posts)
	assert.Zero(t, *view.Posts)

	avatar := "https://cdn.example.com/alice.png"
	view, created, err = f.users.SyncViewer(ctx, viewer, SyncViewerInput{Name: "Alice L", Avatar: &avatar})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Alice L", view.Name)
	require.NotNil(t, view.Avatar)
	assert.Equal(t, avatar, *view.Avatar)
}

func TestUserServiceSyncViewerValidation(t *testing.T) {
	svc := NewUserService(noopUserRepo(), 0)
	ctx := context.Background()
	bad := "not a url"

	_, _, err := svc.SyncViewer(ctx, models.Viewer{}, SyncViewerInput{Name: "A"})
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, _, err = svc.SyncViewer(ctx, models.Viewer{UserID: "u1"}, SyncViewerInput{Name: ""})
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))

	_, _, err = svc.SyncViewer(ctx, models.Viewer{UserID: "u1"}, SyncViewerInput{Name: "A", Avatar: &bad})
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
}

func TestUserServiceSyncViewerNeedsEmailOnCreate(t *testing.T) {
	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, id string) (*models.User, error) {
		return nil, models.NewUserNotFoundError(id)
	}
	svc := NewUserService(repo, 0)

	_, _, err := svc.SyncViewer(context.Background(), models.Viewer{UserID: "u1"}, SyncViewerInput{Name: "A"})
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
}

func TestUserServiceSyncViewerEmailHeldByAnotherUser(t *testing.T) {
	f := newGraphFixture(t)
	ctx := context.Background()
	testutil.CreateUser(t, f.db, "u1", "Ada")

	_, _, err := f.users.SyncViewer(ctx, models.Viewer{UserID: "u2", Email: "U1@Example.test"}, SyncViewerInput{Name: "B"})
	assert.Equal(t, models.CodeConflict, models.ErrorCode(err))
	var users int64
	require.NoError(t, f.db.Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(1), users)

	// An existing user cannot move onto another user's email either.
	testutil.CreateUser(t, f.db, "u3", "Cy")
	_, _, err = f.users.SyncViewer(ctx, models.Viewer{UserID: "u3", Email: "u1@example.test"}, SyncViewerInput{Name: "Cy"})
	assert.Equal(t, models.CodeConflict, models.ErrorCode(err))

	// Re-syncing with your own email is not a conflict.
	_, created, err := f.users.SyncViewer(ctx, models.Viewer{UserID: "u1", Email: "u1@example.test"}, SyncViewerInput{Name: "Ada"})
	require.NoError(t, err)
	assert.False(t, created)
}

func TestUserServiceSyncViewerEmailLookupFailure(t *testing.T) {
	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, id string) (*models.User, error) {
		return nil, models.NewUserNotFoundError(id)
	}
	repo.getByEmailFn = func(context.Context, string) (*models.User, error) {
		return nil, models.NewStorageUnavailableError(fmt.Errorf("down"))
	}
	repo.createFn = func(context.Context, *models.User) error {
		t.Fatal("user must not be created when the email check fails")
		return nil
	}
	svc := NewUserService(repo, 0)

	_, _, err := svc.SyncViewer(context.Background(), models.Viewer{UserID: "u1", Email: "a@b.c"}, SyncViewerInput{Name: "A"})
	assert.Equal(t, models.CodeStorageUnavailable, models.ErrorCode(err))
}

func TestUserServiceUpdateProfile(t *testing.T) {
	f := newGraphFixture(t)
	ctx := context.Background()
	testutil.CreateUser(t, f.db, "u1", "Alice")
	viewer := models.Viewer{UserID: "u1"}

	avatar := "https://cdn.example.com/a.png"
	view, err := f.users.UpdateProfile(ctx, viewer, UpdateProfileInput{Avatar: &avatar})
	require.NoError(t, err)
	assert.Equal(t, "Alice", view.Name)
	require.NotNil(t, view.Avatar)

	cleared := ""
	view, err = f.users.UpdateProfile(ctx, viewer, UpdateProfileInput{Avatar: &cleared})
	require.NoError(t, err)
	assert.Nil(t, view.Avatar)

	_, err = f.users.UpdateProfile(ctx, models.Viewer{UserID: "ghost"}, UpdateProfileInput{})
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestUserServiceListUsersNeverIncludesViewer(t *testing.T) {
	f := newGraphFixture(t)
	ctx := context.Background()
	base := time.Date(2023, 1, 15, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		testutil.CreateUserAt(t, f.db, fmt.Sprintf("u%d", i), fmt.Sprintf("User %d", i), base.Add(time.Duration(i)*time.Hour))
	}
	testutil.CreateFollow(t, f.db, "u0", "u3")

	for i := 0; i < 6; i++ {
		viewerID := fmt.Sprintf("u%d", i)
		views, err := f.users.ListUsers(ctx, models.Viewer{UserID: viewerID}, "")
		require.NoError(t, err)
		assert.Len(t, views, 5)
		for _, v := range views {
			assert.NotEqual(t, viewerID, v.ID)
		}
	}

	views, err := f.users.ListUsers(ctx, models.Viewer{UserID: "u0"}, "user 3")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "u3", views[0].ID)
	assert.True(t, views[0].IsFollowing)
	assert.Equal(t, int64(1), views[0].Followers)
	assert.Equal(t, "Member since January 15, 2023", views[0].Bio)
	assert.Nil(t, views[0].Following, "directory entries carry no profile counts")
}

func TestUserServiceGetUserProfile(t *testing.T) {
	f := newGraphFixture(t)
	ctx := context.Background()
	testutil.CreateUser(t, f.db, "u1", "Alice")
	testutil.CreateUser(t, f.db, "u2", "Bob")
	testutil.CreateFollow(t, f.db, "u2", "u1")
	testutil.CreateMessage(t, f.db, "m1", "u2", "hello", nil, time.Now().UTC())

	view, err := f.users.GetUserProfile(ctx, models.Viewer{UserID: "u1"}, "u2")
	require.NoError(t, err)
	assert.False(t, view.IsFollowing)
	assert.Equal(t, int64(0), view.Followers)
	require.NotNil(t, view.Following)
	assert.Equal(t, int64(1), *view.Following)
	require.NotNil(t, view.Posts)
	assert.Equal(t, int64(1), *view.Posts)

	_, err = f.users.GetUserProfile(ctx, models.Viewer{UserID: "u1"}, "ghost")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestUserServiceFollowLists(t *testing.T) {
	f := newGraphFixture(t)
	ctx := context.Background()
	testutil.CreateUser(t, f.db, "u1", "Alice")
	testutil.CreateUser(t, f.db, "u2", "Bob")
	testutil.CreateFollow(t, f.db, "u1", "u2")

	followers, err := f.users.ListFollowers(ctx, models.Viewer{UserID: "u2"}, "u2")
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "u1", followers[0].ID)

	following, err := f.users.ListFollowing(ctx, models.Viewer{UserID: "u2"}, "u1")
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "u2", following[0].ID)

	_, err = f.users.ListFollowers(ctx, models.Viewer{UserID: "u2"}, "ghost")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestUserServiceDeleteUserCascade(t *testing.T) {
	f := newGraphFixture(t)
	f.messages.now = steppingClock(time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC))
	ctx := context.Background()
	testutil.CreateUser(t, f.db, "u1", "Alice")
	testutil.CreateUser(t, f.db, "u2", "Bob")
	a := models.Viewer{UserID: "u1"}
	b := models.Viewer{UserID: "u2"}

	require.NoError(t, f.follows.Follow(ctx, a, "u2"))
	require.NoError(t, f.follows.Follow(ctx, b, "u1"))
	parent, err := f.messages.CreateMessage(ctx, b, CreateMessageInput{Content: "hello"})
	require.NoError(t, err)
	reply, err := f.messages.CreateMessage(ctx, a, CreateMessageInput{Content: "hi back", ReplyToID: &parent.ID})
	require.NoError(t, err)
	_, err = f.messages.ToggleLike(ctx, a, parent.ID)
	require.NoError(t, err)
	_, err = f.messages.ToggleLike(ctx, b, reply.ID)
	require.NoError(t, err)

	require.NoError(t, f.users.DeleteUser(ctx, b))

	_, err = f.users.GetUserProfile(ctx, a, "u2")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
	_, err = f.messages.GetMessage(ctx, a, parent.ID)
	assert.ErrorIs(t, err, models.ErrMessageNotFound)

	orphan, err := f.messages.GetMessage(ctx, a, reply.ID)
	require.NoError(t, err)
	require.NotNil(t, orphan.ReplyToAuthor)
	assert.Equal(t, "Bob", *orphan.ReplyToAuthor)
	assert.Zero(t, orphan.Likes)

	followers, err := f.follows.FollowerCount(ctx, a, "u1")
	require.NoError(t, err)
	assert.Zero(t, followers)
	following, err := f.follows.FollowingCount(ctx, a, "u1")
	require.NoError(t, err)
	assert.Zero(t, following)

	var likes int64
	require.NoError(t, f.db.Model(&models.MessageLike{}).Where("user_id = ?", "u2").Count(&likes).Error)
	assert.Zero(t, likes)
}
