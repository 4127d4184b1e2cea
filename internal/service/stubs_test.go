package service

import (
	"context"

	"feedgraph/internal/models"
)

type followRepoStub struct {
	createFn         func(context.Context, string, string) error
	deleteFn         func(context.Context, string, string) (bool, error)
	existsFn         func(context.Context, string, string) (bool, error)
	countFollowersFn func(context.Context, string) (int64, error)
	countFollowingFn func(context.Context, string) (int64, error)
}

func (s *followRepoStub) Create(ctx context.Context, followerID, followingID string) error {
	return s.createFn(ctx, followerID, followingID)
}
func (s *followRepoStub) Delete(ctx context.Context, followerID, followingID string) (bool, error) {
	return s.deleteFn(ctx, followerID, followingID)
}
func (s *followRepoStub) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	return s.existsFn(ctx, followerID, followingID)
}
func (s *followRepoStub) CountFollowers(ctx context.Context, userID string) (int64, error) {
	return s.countFollowersFn(ctx, userID)
}
func (s *followRepoStub) CountFollowing(ctx context.Context, userID string) (int64, error) {
	return s.countFollowingFn(ctx, userID)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		createFn:         func(context.Context, string, string) error { return nil },
		deleteFn:         func(context.Context, string, string) (bool, error) { return false, nil },
		existsFn:         func(context.Context, string, string) (bool, error) { return false, nil },
		countFollowersFn: func(context.Context, string) (int64, error) { return 0, nil },
		countFollowingFn: func(context.Context, string) (int64, error) { return 0, nil },
	}
}

type userRepoStub struct {
	getByIDFn       func(context.Context, string) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
	deleteCascadeFn func(context.Context, string) error
	existsFn        func(context.Context, string) (bool, error)
	getProfileFn    func(context.Context, string, string) (*models.User, error)
	listFn          func(context.Context, string, string, int) ([]*models.User, error)
	listFollowersFn func(context.Context, string, string, int) ([]*models.User, error)
	listFollowingFn func(context.Context, string, string, int) ([]*models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) DeleteCascade(ctx context.Context, id string) error {
	return s.deleteCascadeFn(ctx, id)
}
func (s *userRepoStub) Exists(ctx context.Context, id string) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *userRepoStub) GetProfile(ctx context.Context, id, viewerID string) (*models.User, error) {
	return s.getProfileFn(ctx, id, viewerID)
}
func (s *userRepoStub) List(ctx context.Context, viewerID, query string, limit int) ([]*models.User, error) {
	return s.listFn(ctx, viewerID, query, limit)
}
func (s *userRepoStub) ListFollowers(ctx context.Context, userID, viewerID string, limit int) ([]*models.User, error) {
	return s.listFollowersFn(ctx, userID, viewerID, limit)
}
func (s *userRepoStub) ListFollowing(ctx context.Context, userID, viewerID string, limit int) ([]*models.User, error) {
	return s.listFollowingFn(ctx, userID, viewerID, limit)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(_ context.Context, id string) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn:    func(context.Context, string) (*models.User, error) { return nil, nil },
		createFn:        func(context.Context, *models.User) error { return nil },
		updateFn:        func(context.Context, *models.User) error { return nil },
		deleteCascadeFn: func(context.Context, string) error { return nil },
		existsFn:        func(context.Context, string) (bool, error) { return true, nil },
		getProfileFn:    func(_ context.Context, id, _ string) (*models.User, error) { return &models.User{ID: id}, nil },
		listFn:          func(context.Context, string, string, int) ([]*models.User, error) { return nil, nil },
		listFollowersFn: func(context.Context, string, string, int) ([]*models.User, error) { return nil, nil },
		listFollowingFn: func(context.Context, string, string, int) ([]*models.User, error) { return nil, nil },
	}
}

type messageRepoStub struct {
	createFn       func(context.Context, *models.Message) error
	getByIDFn      func(context.Context, string, string) (*models.Message, error)
	listRepliesFn  func(context.Context, string, string) ([]*models.Message, error)
	listByAuthorFn func(context.Context, string, string, int) ([]*models.Message, error)
	listFeedFn     func(context.Context, string, int) ([]*models.Message, error)
	deleteFn       func(context.Context, string) error
	toggleLikeFn   func(context.Context, string, string) (bool, int64, error)
}

func (s *messageRepoStub) Create(ctx context.Context, message *models.Message) error {
	return s.createFn(ctx, message)
}
func (s *messageRepoStub) GetByID(ctx context.Context, id, viewerID string) (*models.Message, error) {
	return s.getByIDFn(ctx, id, viewerID)
}
func (s *messageRepoStub) ListReplies(ctx context.Context, parentID, viewerID string) ([]*models.Message, error) {
	return s.listRepliesFn(ctx, parentID, viewerID)
}
func (s *messageRepoStub) ListByAuthor(ctx context.Context, authorID, viewerID string, limit int) ([]*models.Message, error) {
	return s.listByAuthorFn(ctx, authorID, viewerID, limit)
}
func (s *messageRepoStub) ListFeed(ctx context.Context, viewerID string, limit int) ([]*models.Message, error) {
	return s.listFeedFn(ctx, viewerID, limit)
}
func (s *messageRepoStub) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}
func (s *messageRepoStub) ToggleLike(ctx context.Context, userID, messageID string) (bool, int64, error) {
	return s.toggleLikeFn(ctx, userID, messageID)
}

func noopMessageRepo() *messageRepoStub {
	return &messageRepoStub{
		createFn:       func(context.Context, *models.Message) error { return nil },
		getByIDFn:      func(_ context.Context, id, _ string) (*models.Message, error) { return &models.Message{ID: id}, nil },
		listRepliesFn:  func(context.Context, string, string) ([]*models.Message, error) { return nil, nil },
		listByAuthorFn: func(context.Context, string, string, int) ([]*models.Message, error) { return nil, nil },
		listFeedFn:     func(context.Context, string, int) ([]*models.Message, error) { return nil, nil },
		deleteFn:       func(context.Context, string) error { return nil },
		toggleLikeFn:   func(context.Context, string, string) (bool, int64, error) { return true, 1, nil },
	}
}
