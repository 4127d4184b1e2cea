// Package service holds the Social Graph, Message, User Directory and Feed services.
package service

import (
	"feedgraph/internal/models"
)

// requireViewer refuses to run an operation without a verified identity.
func requireViewer(viewer models.Viewer) error {
	if viewer.Anonymous() {
		return models.NewUnauthorizedError("Authentication required")
	}
	return nil
}

// FormatMessage projects a loaded message row into the viewer-relative view.
// isLiked comes from the row's Liked column, which the repository computes for
// the viewerID passed to the read. The view is only valid for that viewer, so
// a row must never be cached or shared across viewers before formatting.
func FormatMessage(m *models.Message) models.MessageView {
	return models.NewMessageView(m)
}

func formatMessages(messages []*models.Message) []models.MessageView {
	out := make([]models.MessageView, 0, len(messages))
	for _, m := range messages {
		out = append(out, FormatMessage(m))
	}
	return out
}

func formatUsers(users []*models.User, withProfile bool) []models.UserView {
	out := make([]models.UserView, 0, len(users))
	for _, u := range users {
		out = append(out, models.NewUserView(u, withProfile))
	}
	return out
}
