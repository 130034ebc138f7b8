package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"partnerhub/model"
	"partnerhub/utils/auth"
	"partnerhub/utils/response"
)

// SessionCookieName is the cookie carrying the signed session token
const SessionCookieName = "jwt"

// AuthMiddleware verifies the session cookie on protected routes
type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	db         *gorm.DB
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtManager *auth.JWTManager, db *gorm.DB) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		db:         db,
	}
}

// SetSessionCookie attaches a fresh session cookie to the response
func SetSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(auth.SessionDuration.Seconds()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearSessionCookie overwrites the session cookie with an expired empty value
func ClearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Required rejects requests without a valid session. Suspended accounts and
// sessions made stale by a password change get a 406 plus a cleared cookie so
// the client also drops its local auth state.
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(SessionCookieName)
		if token == "" {
			return response.BadRequest(c, "Please log in")
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			return response.Unauthorized(c, "Invalid or expired session")
		}

		var user model.User
		if err := m.db.First(&user, "id = ?", claims.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.BadRequest(c, "Please log in")
			}
			return response.InternalServerError(c, "Failed to load user")
		}

		if !user.IsActive {
			ClearSessionCookie(c)
			return response.ForceLogout(c, "Account suspended. Please contact an administrator.")
		}

		if user.HasPasswordChanged {
			ClearSessionCookie(c)
			return response.ForceLogout(c, "Password expired. Please log in again.")
		}

		c.Locals("user", &user)
		return c.Next()
	}
}

// RequireRoles checks the authenticated user's role against an allow-list
// declared at route registration. An empty list allows any authenticated role.
// A violation is a plain 403; the cookie is left untouched.
func RequireRoles(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := GetUser(c)
		if !ok {
			return response.Unauthorized(c, "Not authenticated")
		}

		if len(roles) == 0 {
			return c.Next()
		}

		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}

		return response.Forbidden(c, "Insufficient permissions")
	}
}

// GetUser extracts the authenticated user from the request context
func GetUser(c *fiber.Ctx) (*model.User, bool) {
	user := c.Locals("user")
	if user == nil {
		return nil, false
	}
	u, ok := user.(*model.User)
	return u, ok
}
