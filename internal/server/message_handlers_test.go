package server

import (
	"net/http"
	"testing"
	"time"

	"feedgraph/internal/models"
	"feedgraph/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageLifecycle(t *testing.T) {
	api := newTestAPI(t, "")
	testutil.CreateUser(t, api.db, "u1", "Ada")
	testutil.CreateUser(t, api.db, "u2", "Grace")

	resp := api.do(http.MethodPost, "/api/messages", "u1", fiber.Map{"content": "  hello graph  "})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var root models.MessageView
	decodeJSON(t, resp, &root)
	assert.Equal(t, "hello graph", root.Content)
	assert.Equal(t, "Ada", root.AuthorName)
	assert.Zero(t, root.Likes)
	assert.Zero(t, root.Replies)

	resp = api.do(http.MethodPost, "/api/messages", "u2", fiber.Map{"content": "hi Ada", "replyToId": root.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var reply models.MessageView
	decodeJSON(t, resp, &reply)
	require.NotNil(t, reply.ReplyToID)
	assert.Equal(t, root.ID, *reply.ReplyToID)
	require.NotNil(t, reply.ReplyToAuthor)
	assert.Equal(t, "Ada", *reply.ReplyToAuthor)

	resp = api.do(http.MethodPost, "/api/messages/"+root.ID+"/like", "u2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var liked models.MessageView
	decodeJSON(t, resp, &liked)
	assert.True(t, liked.IsLiked)
	assert.Equal(t, int64(1), liked.Likes)

	resp = api.do(http.MethodGet, "/api/messages/"+root.ID, "u2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched models.MessageView
	decodeJSON(t, resp, &fetched)
	assert.True(t, fetched.IsLiked)
	assert.Equal(t, int64(1), fetched.Replies)

	// The same message is not liked from the author's point of view.
	resp = api.do(http.MethodGet, "/api/messages/"+root.ID, "u1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &fetched)
	assert.False(t, fetched.IsLiked)
	assert.Equal(t, int64(1), fetched.Likes)

	resp = api.do(http.MethodGet, "/api/messages/"+root.ID+"/replies", "u1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var replies []models.MessageView
	decodeJSON(t, resp, &replies)
	require.Len(t, replies, 1)
	assert.Equal(t, reply.ID, replies[0].ID)

	resp = api.do(http.MethodPost, "/api/messages/"+root.ID+"/like", "u2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &liked)
	assert.False(t, liked.IsLiked)
	assert.Zero(t, liked.Likes)
}

func TestCreateMessageValidation(t *testing.T) {
	api := newTestAPI(t, "")
	testutil.CreateUser(t, api.db, "u1", "Ada")

	tests := []struct {
		name   string
		userID string
		body   fiber.Map
		status int
	}{
		{"blank", "u1", fiber.Map{"content": "   "}, http.StatusBadRequest},
		{"bad image", "u1", fiber.Map{"content": "hi", "image": "javascript:alert(1)"}, http.StatusBadRequest},
		{"no profile", "stranger", fiber.Map{"content": "hi"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := api.do(http.MethodPost, "/api/messages", tt.userID, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			_ = resp.Body.Close()
		})
	}
}

func TestDeleteMessageAuthorOnly(t *testing.T) {
	api := newTestAPI(t, "")
	testutil.CreateUser(t, api.db, "u1", "Ada")
	testutil.CreateUser(t, api.db, "u2", "Grace")
	testutil.CreateMessage(t, api.db, "m1", "u1", "mine", nil, time.Now())

	resp := api.do(http.MethodDelete, "/api/messages/m1", "u2", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()

	resp = api.do(http.MethodDelete, "/api/messages/m1", "u1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_ = resp.Body.Close()

	resp = api.do(http.MethodGet, "/api/messages/m1", "u1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body models.ErrorResponse
	decodeJSON(t, resp, &body)
	assert.Equal(t, models.CodeNotFound, body.Code)
}

func TestToggleLikeWithoutProfile(t *testing.T) {
	api := newTestAPI(t, "")
	testutil.CreateUser(t, api.db, "u1", "Ada")
	testutil.CreateMessage(t, api.db, "m1", "u1", "hello", nil, time.Now())

	resp := api.do(http.MethodPost, "/api/messages/m1/like", "no-profile", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body models.ErrorResponse
	decodeJSON(t, resp, &body)
	assert.Equal(t, models.CodeNotFound, body.Code)

	var likes int64
	require.NoError(t, api.db.Model(&models.MessageLike{}).Count(&likes).Error)
	assert.Zero(t, likes)
}
