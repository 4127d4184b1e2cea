package repository

import (
	"context"
	"sync"
	"testing"

	"feedgraph/internal/models"
	"feedgraph/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowRepository_CreateExistsDelete(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	testutil.CreateUser(t, db, "u1", "A")
	testutil.CreateUser(t, db, "u2", "B")

	require.NoError(t, repo.Create(ctx, "u1", "u2"))

	ok, err := repo.Exists(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(ctx, "u2", "u1")
	require.NoError(t, err)
	assert.False(t, ok, "edges are directed")

	followers, err := repo.CountFollowers(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), followers)
	following, err := repo.CountFollowing(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), following)

	removed, err := repo.Delete(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestFollowRepository_CreateDuplicate(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	testutil.CreateUser(t, db, "u1", "A")
	testutil.CreateUser(t, db, "u2", "B")

	require.NoError(t, repo.Create(ctx, "u1", "u2"))
	err := repo.Create(ctx, "u1", "u2")
	assert.ErrorIs(t, err, models.ErrAlreadyFollowing)
	assert.Equal(t, models.CodeConflict, models.ErrorCode(err))
}

func TestFollowRepository_CreateMissingTarget(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewFollowRepository(db)
	testutil.CreateUser(t, db, "u1", "A")

	err := repo.Create(context.Background(), "u1", "ghost")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestFollowRepository_CreateMissingFollower(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewFollowRepository(db)
	testutil.CreateUser(t, db, "u2", "B")

	err := repo.Create(context.Background(), "ghost", "u2")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))

	var edges int64
	require.NoError(t, db.Model(&models.UserFollow{}).Count(&edges).Error)
	assert.Zero(t, edges)
}

func TestFollowRepository_ConcurrentCreateLeavesOneEdge(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	testutil.CreateUser(t, db, "u1", "A")
	testutil.CreateUser(t, db, "u2", "B")

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Create(ctx, "u1", "u2")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, models.ErrAlreadyFollowing)
	}
	assert.Equal(t, 1, succeeded)

	n, err := repo.CountFollowers(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
