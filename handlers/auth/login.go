package auth

import (
	"github.com/gofiber/fiber/v2"

	"partnerhub/model"
	"partnerhub/utils/auth"
	"partnerhub/utils/middleware"
	"partnerhub/utils/response"
)

// LoginRequest represents a user login request
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login verifies the credentials, mints the session cookie and returns the
// caller's profile. Unknown username and wrong password produce the same
// message so usernames cannot be enumerated.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	ip := c.IP()

	var user model.User
	if err := h.db.First(&user, "username = ?", req.Username).Error; err != nil {
		if h.bruteForceProtection != nil {
			h.bruteForceProtection.RecordFailedAttempt(c, ip)
		}
		return response.Unauthorized(c, "Invalid username or password")
	}

	if !user.IsActive {
		return response.Unauthorized(c, "Account suspended. Please contact an administrator.")
	}

	if err := auth.VerifyPassword(user.Password, req.Password); err != nil {
		if h.bruteForceProtection != nil {
			h.bruteForceProtection.RecordFailedAttempt(c, ip)
		}
		return response.Unauthorized(c, "Invalid username or password")
	}

	if h.bruteForceProtection != nil {
		h.bruteForceProtection.RecordSuccessfulAttempt(c, ip)
	}

	// A fresh login un-stales the account: any older cookie that survived a
	// password change becomes acceptable again. Known quirk, kept as-is.
	if user.HasPasswordChanged {
		user.HasPasswordChanged = false
	}
	if err := h.db.Model(&user).Update("has_password_changed", false).Error; err != nil {
		return response.InternalServerError(c, "Failed to update login state")
	}

	token, err := h.jwtManager.GenerateToken(user.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate session token")
	}

	middleware.SetSessionCookie(c, token)

	return response.Success(c, user)
}

// Me returns the authenticated caller's own profile
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	return response.Success(c, user)
}

// Logout clears the session cookie; it always succeeds
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	middleware.ClearSessionCookie(c)
	return response.SuccessNoData(c, "Logout successful")
}
