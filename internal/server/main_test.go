package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"ourcircle/internal/config"
	"ourcircle/internal/database"
	"ourcircle/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestServer builds a Server over a fresh in-memory database with routes
// registered. Redis and the external collaborators stay nil; every layer
// degrades without them.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	s := newServer(&config.Config{JWTSecret: "test_secret", Env: "test"}, db, nil)

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}

func createTestUser(t *testing.T, s *Server, username string, admin bool) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "not-a-real-hash",
		IsAdmin:  admin,
	}
	require.NoError(t, s.db.Create(user).Error)
	return user
}

func createTestCircle(t *testing.T, s *Server, name string, active bool) *models.Circle {
	t.Helper()
	circle := &models.Circle{Name: name, Description: name + " talk", IsActive: active}
	require.NoError(t, s.db.Create(circle).Error)
	// GORM refuses zero-value overrides through Create (is_active defaults to
	// true), set the flag directly.
	require.NoError(t, s.db.Model(circle).UpdateColumn("is_active", active).Error)
	circle.IsActive = active
	return circle
}

func createTestPost(t *testing.T, s *Server, userID, circleID uint, content string) *models.Post {
	t.Helper()
	post := &models.Post{UserID: userID, CircleID: circleID, Content: content}
	require.NoError(t, s.db.Create(post).Error)
	return post
}

func bearer(t *testing.T, s *Server, user *models.User) string {
	t.Helper()
	token, err := s.generateToken(user.ID, user.Username)
	require.NoError(t, err)
	return "Bearer " + token
}

// doJSON performs a request with a JSON body and optional headers.
func doJSON(t *testing.T, app *fiber.App, method, path string, body any, headers map[string]string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ajaxAuth builds headers for an authenticated AJAX request.
func ajaxAuth(t *testing.T, s *Server, user *models.User) map[string]string {
	t.Helper()
	return map[string]string{
		"Authorization":    bearer(t, s, user),
		"X-Requested-With": "XMLHttpRequest",
	}
}

func postPath(id uint) string {
	return fmt.Sprintf("/api/posts/%d", id)
}
