package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"markettrack-backend/internal/auth"
	"markettrack-backend/internal/config"
	"markettrack-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The password route refuses callers that are neither the account owner
// nor elevated, and rate limits per IP. Both checks fire before the
// store is touched, so no database is needed here.
func TestChangePasswordRouteGateAndRateLimit(t *testing.T) {
	cfg := &config.Config{
		JWTSecret:   "route-test-secret-0123456789abcdef",
		CORSOrigins: "http://localhost:3000",
	}
	app := New(cfg)

	token, err := auth.GenerateToken(cfg.JWTSecret, &models.User{
		ID:       7,
		Username: "plain-user",
		Role:     models.RoleUser,
	})
	require.NoError(t, err)

	put := func() int {
		req := httptest.NewRequest(http.MethodPut, "/api/users/999/password", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	// A User-role token changing someone else's password is refused.
	for i := 0; i < 5; i++ {
		assert.Equal(t, fiber.StatusForbidden, put(), "request %d", i+1)
	}

	// The sixth attempt inside the window trips the limiter.
	assert.Equal(t, fiber.StatusTooManyRequests, put())
}

func TestChangePasswordRouteRequiresToken(t *testing.T) {
	cfg := &config.Config{
		JWTSecret:   "route-test-secret-0123456789abcdef",
		CORSOrigins: "http://localhost:3000",
	}
	app := New(cfg)

	req := httptest.NewRequest(http.MethodPut, "/api/users/7/password", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
