package service

import (
	"context"

	"feedgraph/internal/models"
	"feedgraph/internal/observability"
	"feedgraph/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// FollowService is the Social Graph Service: follow edges and their counts.
type FollowService struct {
	followRepo repository.FollowRepository
}

// FollowStatus is the viewer's relation to a target with the target's edge counts.
type FollowStatus struct {
	IsFollowing bool  `json:"isFollowing"`
	Followers   int64 `json:"followers"`
	Following   int64 `json:"following"`
}

// NewFollowService returns a new FollowService.
func NewFollowService(followRepo repository.FollowRepository) *FollowService {
	return &FollowService{followRepo: followRepo}
}

// Follow creates viewer -> target. Self-follows are rejected before storage is touched.
func (s *FollowService) Follow(ctx context.Context, viewer models.Viewer, targetID string) (err error) {
	ctx, span := observability.StartServiceSpan(ctx, "FollowService", "Follow", attribute.String("target.id", targetID))
	defer func() { observability.EndSpan(span, err) }()

	if err := requireViewer(viewer); err != nil {
		return err
	}
	if viewer.UserID == targetID {
		return models.NewSelfFollowError()
	}
	if err := s.followRepo.Create(ctx, viewer.UserID, targetID); err != nil {
		return err
	}
	observability.FollowEvents.WithLabelValues("follow").Inc()
	return nil
}

// Unfollow removes viewer -> target. A missing edge is not an error.
func (s *FollowService) Unfollow(ctx context.Context, viewer models.Viewer, targetID string) (err error) {
	ctx, span := observability.StartServiceSpan(ctx, "FollowService", "Unfollow", attribute.String("target.id", targetID))
	defer func() { observability.EndSpan(span, err) }()

	if err := requireViewer(viewer); err != nil {
		return err
	}
	removed, err := s.followRepo.Delete(ctx, viewer.UserID, targetID)
	if err != nil {
		return err
	}
	if removed {
		observability.FollowEvents.WithLabelValues("unfollow").Inc()
	}
	return nil
}

// IsFollowing reports whether the viewer follows target.
func (s *FollowService) IsFollowing(ctx context.Context, viewer models.Viewer, targetID string) (bool, error) {
	if err := requireViewer(viewer); err != nil {
		return false, err
	}
	return s.followRepo.Exists(ctx, viewer.UserID, targetID)
}

// FollowerCount counts incoming edges.
func (s *FollowService) FollowerCount(ctx context.Context, viewer models.Viewer, userID string) (int64, error) {
	if err := requireViewer(viewer); err != nil {
		return 0, err
	}
	return s.followRepo.CountFollowers(ctx, userID)
}

// FollowingCount counts outgoing edges.
func (s *FollowService) FollowingCount(ctx context.Context, viewer models.Viewer, userID string) (int64, error) {
	if err := requireViewer(viewer); err != nil {
		return 0, err
	}
	return s.followRepo.CountFollowing(ctx, userID)
}

// Status combines IsFollowing with the target's counts.
func (s *FollowService) Status(ctx context.Context, viewer models.Viewer, targetID string) (*FollowStatus, error) {
	isFollowing, err := s.IsFollowing(ctx, viewer, targetID)
	if err != nil {
		return nil, err
	}
	followers, err := s.FollowerCount(ctx, viewer, targetID)
	if err != nil {
		return nil, err
	}
	following, err := s.FollowingCount(ctx, viewer, targetID)
	if err != nil {
		return nil, err
	}
	return &FollowStatus{IsFollowing: isFollowing, Followers: followers, Following: following}, nil
}
