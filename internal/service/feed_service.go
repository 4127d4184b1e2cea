package service

import (
	"context"

	"feedgraph/internal/featureflags"
	"feedgraph/internal/models"
	"feedgraph/internal/observability"
	"feedgraph/internal/repository"
)

// DefaultFeedLimit caps the home feed when no limit is configured.
const DefaultFeedLimit = 50

// FeedService is the Feed Composer: the viewer's messages plus those of followed users.
type FeedService struct {
	messageRepo repository.MessageRepository
	flags       *featureflags.Manager
	limit       int
}

// NewFeedService returns a new FeedService.
func NewFeedService(messageRepo repository.MessageRepository, flags *featureflags.Manager, limit int) *FeedService {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	return &FeedService{messageRepo: messageRepo, flags: flags, limit: limit}
}

// ListFeed returns the viewer's home feed, newest first.
func (s *FeedService) ListFeed(ctx context.Context, viewer models.Viewer) (views []models.MessageView, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "FeedService", "ListFeed")
	defer func() { observability.EndSpan(span, err) }()

	if err := requireViewer(viewer); err != nil {
		return nil, err
	}
	if !s.flags.Enabled(featureflags.HomeFeed, viewer.UserID) {
		return nil, models.NewForbiddenError("Home feed is not enabled for this account")
	}
	messages, err := s.messageRepo.ListFeed(ctx, viewer.UserID, s.limit)
	if err != nil {
		return nil, err
	}
	return formatMessages(messages), nil
}
