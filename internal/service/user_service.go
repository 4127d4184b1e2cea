package service

import (
	"context"
	"errors"
	"strings"

	"feedgraph/internal/models"
	"feedgraph/internal/observability"
	"feedgraph/internal/repository"
	"feedgraph/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// DefaultDirectoryMaxResults caps directory listings when no limit is configured.
const DefaultDirectoryMaxResults = 200

// UserService is the User Directory Service plus the viewer's own account.
type UserService struct {
	userRepo   repository.UserRepository
	maxResults int
}

// SyncViewerInput carries the profile fields a viewer may set on their own row.
type SyncViewerInput struct {
	Name   string
	Avatar *string
}

// UpdateProfileInput changes only the fields that are set.
type UpdateProfileInput struct {
	Name   *string
	Avatar *string
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository, maxResults int) *UserService {
	if maxResults <= 0 {
		maxResults = DefaultDirectoryMaxResults
	}
	return &UserService{userRepo: userRepo, maxResults: maxResults}
}

// SyncViewer creates the viewer's row on first sign-in and refreshes it afterwards.
// The email always comes from the verified identity.
func (s *UserService) SyncViewer(ctx context.Context, viewer models.Viewer, in SyncViewerInput) (view *models.UserView, created bool, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "UserService", "SyncViewer")
	defer func() { observability.EndSpan(span, err) }()

	if err := requireViewer(viewer); err != nil {
		return nil, false, err
	}
	if err := validateProfile(&in.Name, in.Avatar); err != nil {
		return nil, false, err
	}

	existing, err := s.userRepo.GetByID(ctx, viewer.UserID)
	switch {
	case errors.Is(err, models.ErrUserNotFound):
		if viewer.Email == "" {
			return nil, false, models.NewValidationError("Identity carries no email")
		}
		if err := s.ensureEmailFree(ctx, viewer.UserID, viewer.Email); err != nil {
			return nil, false, err
		}
		user := &models.User{ID: viewer.UserID, Name: strings.TrimSpace(in.Name), Email: viewer.Email, Avatar: nonEmpty(in.Avatar)}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, false, err
		}
		created = true
	case err != nil:
		return nil, false, err
	default:
		existing.Name = strings.TrimSpace(in.Name)
		existing.Avatar = nonEmpty(in.Avatar)
		if viewer.Email != "" && !strings.EqualFold(viewer.Email, existing.Email) {
			if err := s.ensureEmailFree(ctx, viewer.UserID, viewer.Email); err != nil {
				return nil, false, err
			}
			existing.Email = viewer.Email
		}
		if err := s.userRepo.Update(ctx, existing); err != nil {
			return nil, false, err
		}
	}

	view, err = s.GetUserProfile(ctx, viewer, viewer.UserID)
	if err != nil {
		return nil, false, err
	}
	return view, created, nil
}

// ensureEmailFree rejects an email already held by a different user.
func (s *UserService) ensureEmailFree(ctx context.Context, userID, email string) error {
	holder, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if holder != nil && holder.ID != userID {
		return models.NewConflictError("Email already in use", nil)
	}
	return nil
}

// UpdateProfile applies a partial change to the viewer's own row.
func (s *UserService) UpdateProfile(ctx context.Context, viewer models.Viewer, in UpdateProfileInput) (view *models.UserView, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "UserService", "UpdateProfile")
	defer func() { observability.EndSpan(span, err) }()

	if err := requireViewer(viewer); err != nil {
		return nil, err
	}
	if err := validateProfile(in.Name, in.Avatar); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, viewer.UserID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Avatar != nil {
		user.Avatar = nonEmpty(in.Avatar)
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.GetUserProfile(ctx, viewer, viewer.UserID)
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func validateProfile(name, avatar *string) error {
	if name != nil {
		if err := validation.ValidateDisplayName(*name); err != nil {
			return models.NewValidationError(err.Error())
		}
	}
	if avatar != nil && *avatar != "" {
		if err := validation.ValidateMediaURL(*avatar); err != nil {
			return models.NewValidationError("avatar: " + err.Error())
		}
	}
	return nil
}

// DeleteUser removes the viewer's account and everything it owns.
func (s *UserService) DeleteUser(ctx context.Context, viewer models.Viewer) (err error) {
	ctx, span := observability.StartServiceSpan(ctx, "UserService", "DeleteUser")
	defer func() { observability.EndSpan(span, err) }()

	if err := requireViewer(viewer); err != nil {
		return err
	}
	return s.userRepo.DeleteCascade(ctx, viewer.UserID)
}

// GetUserProfile returns one user with follower, following and message counts.
func (s *UserService) GetUserProfile(ctx context.Context, viewer models.Viewer, userID string) (*models.UserView, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetProfile(ctx, userID, viewer.UserID)
	if err != nil {
		return nil, err
	}
	view := models.NewUserView(user, true)
	return &view, nil
}

// ListUsers returns everyone but the viewer, newest first, optionally filtered.
func (s *UserService) ListUsers(ctx context.Context, viewer models.Viewer, query string) (views []models.UserView, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "UserService", "ListUsers", attribute.Bool("query.present", strings.TrimSpace(query) != ""))
	defer func() { observability.EndSpan(span, err) }()

	if err := requireViewer(viewer); err != nil {
		return nil, err
	}
	users, err := s.userRepo.List(ctx, viewer.UserID, query, s.maxResults)
	if err != nil {
		return nil, err
	}
	return formatUsers(users, false), nil
}

// ListFollowers returns the users following userID.
func (s *UserService) ListFollowers(ctx context.Context, viewer models.Viewer, userID string) ([]models.UserView, error) {
	return s.listEdge(ctx, viewer, userID, s.userRepo.ListFollowers)
}

// ListFollowing returns the users userID follows.
func (s *UserService) ListFollowing(ctx context.Context, viewer models.Viewer, userID string) ([]models.UserView, error) {
	return s.listEdge(ctx, viewer, userID, s.userRepo.ListFollowing)
}

func (s *UserService) listEdge(
	ctx context.Context,
	viewer models.Viewer,
	userID string,
	list func(context.Context, string, string, int) ([]*models.User, error),
) ([]models.UserView, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}
	ok, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.NewUserNotFoundError(userID)
	}
	users, err := list(ctx, userID, viewer.UserID, s.maxResults)
	if err != nil {
		return nil, err
	}
	return formatUsers(users, false), nil
}
