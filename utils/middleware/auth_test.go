package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partnerhub/model"
	"partnerhub/utils/auth"
)

func okHandler(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusOK)
}

// withUser fakes an authenticated session for role-gate tests
func withUser(user *model.User) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user", user)
		return c.Next()
	}
}

func TestRequiredRejectsMissingCookie(t *testing.T) {
	m := NewAuthMiddleware(auth.NewJWTManager(auth.JWTConfig{Secret: "s"}), nil)

	app := fiber.New()
	app.Get("/protected", m.Required(), okHandler)

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRequiredRejectsBadToken(t *testing.T) {
	m := NewAuthMiddleware(auth.NewJWTManager(auth.JWTConfig{Secret: "s"}), nil)

	app := fiber.New()
	app.Get("/protected", m.Required(), okHandler)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "not-a-token"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequiredRejectsExpiredToken(t *testing.T) {
	manager := auth.NewJWTManager(auth.JWTConfig{Secret: "s", Expiry: -time.Minute})
	token, err := manager.GenerateToken("some-user")
	require.NoError(t, err)

	m := NewAuthMiddleware(manager, nil)
	app := fiber.New()
	app.Get("/protected", m.Required(), okHandler)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRolesEmptyListAllowsAnyAuthenticatedRole(t *testing.T) {
	app := fiber.New()
	app.Get("/any", withUser(&model.User{Role: model.RoleUser}), RequireRoles(), okHandler)

	resp, err := app.Test(httptest.NewRequest("GET", "/any", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRolesBlocksMissingRole(t *testing.T) {
	app := fiber.New()
	app.Get("/admin", withUser(&model.User{Role: model.RoleUser}), RequireRoles(model.RoleAdmin), okHandler)

	resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireRolesAllowsListedRole(t *testing.T) {
	app := fiber.New()
	app.Get("/admin", withUser(&model.User{Role: model.RoleAdmin}), RequireRoles(model.RoleAdmin), okHandler)

	resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRolesRejectsUnauthenticated(t *testing.T) {
	app := fiber.New()
	app.Get("/admin", RequireRoles(model.RoleAdmin), okHandler)

	resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestClearSessionCookieExpiresCookie(t *testing.T) {
	app := fiber.New()
	app.Get("/logout", func(c *fiber.Ctx) error {
		ClearSessionCookie(c)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/logout", nil))
	require.NoError(t, err)

	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.True(t, cookies[0].Expires.Before(time.Now()))
}
