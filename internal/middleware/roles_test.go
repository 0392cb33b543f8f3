package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/threadcart/backend/internal/config"
	"github.com/threadcart/backend/internal/middleware"
	"github.com/threadcart/backend/internal/models"
	"github.com/threadcart/backend/internal/services"
)

func newGatedApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := &config.Config{JWTSecret: "test-secret"}

	app := fiber.New()
	app.Use(middleware.JWTProtected(cfg))

	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }
	app.Get("/editor", middleware.RequireRole(models.RoleEditorAdmin), ok)
	app.Get("/admin", middleware.RequireRole(models.RoleAdmin), ok)
	return app
}

func tokenFor(t *testing.T, role models.Role) string {
	t.Helper()
	tokens := services.NewTokenService("test-secret", time.Hour)
	token, err := tokens.Generate(&models.User{ID: uuid.New(), Role: role})
	require.NoError(t, err)
	return token
}

func request(t *testing.T, app *fiber.App, path, token string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestRoleGates(t *testing.T) {
	app := newGatedApp(t)

	visitor := tokenFor(t, models.RoleVisitor)
	editor := tokenFor(t, models.RoleEditorAdmin)
	admin := tokenFor(t, models.RoleAdmin)

	tests := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{"no token", "/editor", "", http.StatusUnauthorized},
		{"garbage token", "/editor", "not.a.token", http.StatusUnauthorized},
		{"visitor on editor route", "/editor", visitor, http.StatusForbidden},
		{"visitor on admin route", "/admin", visitor, http.StatusForbidden},
		{"editor on editor route", "/editor", editor, http.StatusOK},
		{"editor on admin route", "/admin", editor, http.StatusForbidden},
		{"admin on editor route", "/editor", admin, http.StatusOK},
		{"admin on admin route", "/admin", admin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, request(t, app, tt.path, tt.token))
		})
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	app := newGatedApp(t)

	tokens := services.NewTokenService("test-secret", -time.Minute)
	expired, err := tokens.Generate(&models.User{ID: uuid.New(), Role: models.RoleAdmin})
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, request(t, app, "/admin", expired))
}

func TestWrongSecretRejected(t *testing.T) {
	app := newGatedApp(t)

	tokens := services.NewTokenService("other-secret", time.Hour)
	forged, err := tokens.Generate(&models.User{ID: uuid.New(), Role: models.RoleAdmin})
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, request(t, app, "/admin", forged))
}
