package server

import (
	"fmt"
	"net/http"
	"testing"

	"ourcircle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateComment(t *testing.T) {
	s, app := newTestServer(t)
	author := createTestUser(t, s, "poster", false)
	commenter := createTestUser(t, s, "replier", false)
	commenter.Nicknames = models.NicknameList{"shade"}
	require.NoError(t, s.db.Save(commenter).Error)
	circle := createTestCircle(t, s, "Open", true)
	post := createTestPost(t, s, author.ID, circle.ID, "discuss")

	commentsPath := postPath(post.ID) + "/comments"

	t.Run("plain comment", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, commentsPath,
			map[string]any{"content": "agreed"}, ajaxAuth(t, s, commenter))
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var comment models.Comment
		decodeBody(t, resp, &comment)
		assert.Equal(t, "agreed", comment.Content)
		assert.Equal(t, post.ID, comment.PostID)
	})

	t.Run("anonymous with bound nickname", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, commentsPath, map[string]any{
			"content":      "psst",
			"is_anonymous": true,
			"nickname":     "shade",
		}, ajaxAuth(t, s, commenter))
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var comment models.Comment
		decodeBody(t, resp, &comment)
		assert.Equal(t, "shade", comment.Nickname)
	})

	t.Run("anonymous with unbound nickname", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, commentsPath, map[string]any{
			"content":      "psst",
			"is_anonymous": true,
			"nickname":     "nobody",
		}, ajaxAuth(t, s, commenter))
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing post", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/posts/999/comments",
			map[string]any{"content": "hello?"}, ajaxAuth(t, s, commenter))
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestGetComments_OldestFirst(t *testing.T) {
	s, app := newTestServer(t)
	user := createTestUser(t, s, "poster", false)
	circle := createTestCircle(t, s, "Open", true)
	post := createTestPost(t, s, user.ID, circle.ID, "thread")

	for _, content := range []string{"first", "second", "third"} {
		require.NoError(t, s.db.Create(&models.Comment{
			UserID:  user.ID,
			PostID:  post.ID,
			Content: content,
		}).Error)
	}

	resp := doJSON(t, app, http.MethodGet, postPath(post.ID)+"/comments", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var comments []models.Comment
	decodeBody(t, resp, &comments)
	require.Len(t, comments, 3)
	assert.Equal(t, "first", comments[0].Content)
	assert.Equal(t, "third", comments[2].Content)
}

func TestLikeComment(t *testing.T) {
	s, app := newTestServer(t)
	user := createTestUser(t, s, "poster", false)
	circle := createTestCircle(t, s, "Open", true)
	post := createTestPost(t, s, user.ID, circle.ID, "thread")

	comment := &models.Comment{UserID: user.ID, PostID: post.ID, Content: "nice"}
	require.NoError(t, s.db.Create(comment).Error)

	likePath := fmt.Sprintf("/api/comments/%d/like", comment.ID)
	for i := 0; i < 2; i++ {
		resp := doJSON(t, app, http.MethodPost, likePath, nil, ajaxAuth(t, s, user))
		_ = resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	var updated models.Comment
	require.NoError(t, s.db.First(&updated, comment.ID).Error)
	assert.Equal(t, 2, updated.Likes)
}

func TestDeleteComment_AdminOnly(t *testing.T) {
	s, app := newTestServer(t)
	user := createTestUser(t, s, "poster", false)
	admin := createTestUser(t, s, "boss", true)
	circle := createTestCircle(t, s, "Open", true)
	post := createTestPost(t, s, user.ID, circle.ID, "thread")

	comment := &models.Comment{UserID: user.ID, PostID: post.ID, Content: "remove me"}
	require.NoError(t, s.db.Create(comment).Error)

	path := fmt.Sprintf("/api/admin/comments/%d", comment.ID)

	resp := doJSON(t, app, http.MethodDelete, path, nil, ajaxAuth(t, s, user))
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, path, nil, ajaxAuth(t, s, admin))
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	var count int64
	require.NoError(t, s.db.Model(&models.Comment{}).Where("id = ?", comment.ID).Count(&count).Error)
	assert.Zero(t, count)
}
