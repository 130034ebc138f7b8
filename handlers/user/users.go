package user

import (
	"errors"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"partnerhub/model"
	"partnerhub/services"
	"partnerhub/utils/auth"
	"partnerhub/utils/middleware"
	"partnerhub/utils/query"
	"partnerhub/utils/response"
	"partnerhub/utils/validation"
)

// UserHandler handles user management requests
type UserHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewUserHandler creates a new user handler
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

var userColumns = query.ColumnConfig{
	Columns: map[string]string{
		"name":       "name",
		"username":   "username",
		"email":      "email",
		"phone":      "phone",
		"role":       "role",
		"department": "department",
		"isActive":   "is_active",
		"createdAt":  "created_at",
	},
	Searchable: []string{"name", "email"},
}

// List handles POST /api/user/list
func (h *UserHandler) List(c *fiber.Ctx) error {
	caller, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req query.Descriptor
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	compiled, err := query.Compile(req, userColumns)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	var totalCount int64
	if err := compiled.Scope(h.db.Model(&model.User{})).Count(&totalCount).Error; err != nil {
		return response.InternalServerError(c, "Failed to count users")
	}

	var users []model.User
	if err := compiled.Page(compiled.Scope(h.db.Model(&model.User{}))).Find(&users).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch users")
	}

	// The caller's own row floats to the top of the page. Display-only
	// resort after the fetch, never part of the store query.
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].ID == caller.ID && users[j].ID != caller.ID
	})

	return response.Success(c, fiber.Map{
		"totalCount": totalCount,
		"users":      users,
	})
}

// Get handles GET /api/user/:userId
func (h *UserHandler) Get(c *fiber.Ctx) error {
	id := c.Params("userId")

	var user model.User
	if err := h.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch user")
	}

	return response.Success(c, user)
}

// CreateUserRequest represents the request body for creating a user
type CreateUserRequest struct {
	Name       string           `json:"name" validate:"required"`
	Username   string           `json:"username" validate:"required,min=3,max=30"`
	Password   string           `json:"password" validate:"required,min=6"`
	Email      string           `json:"email" validate:"omitempty,email"`
	Phone      string           `json:"phone"`
	Role       model.Role       `json:"role" validate:"required,oneof=ADMIN USER"`
	Department model.Department `json:"department" validate:"required,oneof=ELECTRICAL ELECTRONIC COMMUNICATION AUTOMATION SCHOOLOFFICE"`
	IsActive   *bool            `json:"isActive"`
}

// Create handles POST /api/user (admin only)
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if ok, msg := validation.ValidateUsername(req.Username); !ok {
		return response.BadRequest(c, msg)
	}

	var existing model.User
	if err := h.db.First(&existing, "username = ?", req.Username).Error; err == nil {
		return response.Conflict(c, "Username already taken")
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	user := model.User{
		Name:       validation.SanitizeString(req.Name),
		Username:   req.Username,
		Password:   hashed,
		Email:      validation.SanitizeString(req.Email),
		Phone:      validation.SanitizeString(req.Phone),
		Role:       req.Role,
		Department: req.Department,
		IsActive:   isActive,
	}

	if err := h.db.Create(&user).Error; err != nil {
		if services.IsUniqueViolation(err) {
			return response.Conflict(c, "Username already taken")
		}
		return response.InternalServerError(c, "Failed to create user")
	}

	return response.Created(c, user)
}

// UpdateUserRequest represents the request body for updating a user
type UpdateUserRequest struct {
	Name       *string           `json:"name"`
	Email      *string           `json:"email" validate:"omitempty,email"`
	Phone      *string           `json:"phone"`
	Role       *model.Role       `json:"role" validate:"omitempty,oneof=ADMIN USER"`
	Department *model.Department `json:"department" validate:"omitempty,oneof=ELECTRICAL ELECTRONIC COMMUNICATION AUTOMATION SCHOOLOFFICE"`
	IsActive   *bool             `json:"isActive"`

	Password        string `json:"password"`
	CurrentPassword string `json:"currentPassword"`
}

// Update handles PUT /api/user/:id. The caller must be the user themselves
// or an admin. Changing the password marks every existing session for this
// user stale; when the caller changed their own password the response also
// clears their cookie so the browser drops the dead session at once.
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")

	caller, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	if caller.ID != id && caller.Role != model.RoleAdmin {
		return response.Forbidden(c, "Cannot update another user's account")
	}

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var user model.User
	if err := h.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch user")
	}

	newPassword := strings.TrimSpace(req.Password)
	currentPassword := strings.TrimSpace(req.CurrentPassword)

	// Admins editing someone else skip the current-password check; everyone
	// editing themselves has to prove they know the old one.
	if caller.Role != model.RoleAdmin || caller.ID == id {
		if newPassword != "" && currentPassword == "" {
			return response.BadRequest(c, "Current password is required")
		}
		if currentPassword != "" {
			if err := auth.VerifyPassword(user.Password, currentPassword); err != nil {
				return response.BadRequest(c, "Current password is incorrect")
			}
		}
	}

	passwordChanged := false
	if newPassword != "" {
		hashed, err := auth.HashPassword(newPassword)
		if err != nil {
			return response.BadRequest(c, err.Error())
		}
		user.Password = hashed
		user.HasPasswordChanged = true
		passwordChanged = true
	}

	if req.Name != nil {
		user.Name = validation.SanitizeString(*req.Name)
	}
	if req.Email != nil {
		user.Email = validation.SanitizeString(*req.Email)
	}
	if req.Phone != nil {
		user.Phone = validation.SanitizeString(*req.Phone)
	}

	// Role, department and status are admin-managed fields
	if caller.Role == model.RoleAdmin {
		if req.Role != nil {
			user.Role = *req.Role
		}
		if req.Department != nil {
			user.Department = *req.Department
		}
		if req.IsActive != nil {
			user.IsActive = *req.IsActive
		}
	}

	if err := h.db.Save(&user).Error; err != nil {
		return response.InternalServerError(c, "Failed to update user")
	}

	if passwordChanged && caller.ID == id {
		middleware.ClearSessionCookie(c)
	}

	return response.SuccessWithMessage(c, "User updated successfully", user)
}

// UpdateStatusRequest toggles the soft-disable flag
type UpdateStatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

// UpdateStatus handles PATCH /api/user/:id/status
func (h *UserHandler) UpdateStatus(c *fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var user model.User
	if err := h.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch user")
	}

	user.IsActive = *req.IsActive
	if err := h.db.Save(&user).Error; err != nil {
		return response.InternalServerError(c, "Failed to update user status")
	}

	return response.SuccessWithMessage(c, "User status updated", user)
}
