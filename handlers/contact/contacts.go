package contact

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"partnerhub/model"
	"partnerhub/utils/query"
	"partnerhub/utils/response"
	"partnerhub/utils/validation"
)

// ContactHandler handles contact management requests
type ContactHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewContactHandler creates a new contact handler
func NewContactHandler(db *gorm.DB) *ContactHandler {
	return &ContactHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

var contactColumns = query.ColumnConfig{
	Columns: map[string]string{
		"name":        "name",
		"email":       "email",
		"phone":       "phone",
		"description": "description",
		"isActive":    "is_active",
		"createdAt":   "created_at",
	},
	Searchable: []string{"name", "email", "phone"},
}

// List handles POST /api/contact/list
func (h *ContactHandler) List(c *fiber.Ctx) error {
	var req query.Descriptor
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	compiled, err := query.Compile(req, contactColumns)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	var totalCount int64
	if err := compiled.Scope(h.db.Model(&model.Contact{})).Count(&totalCount).Error; err != nil {
		return response.InternalServerError(c, "Failed to count contacts")
	}

	var contacts []model.Contact
	if err := compiled.Page(compiled.Scope(h.db.Model(&model.Contact{}))).Find(&contacts).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch contacts")
	}

	return response.Success(c, fiber.Map{
		"totalCount": totalCount,
		"contacts":   contacts,
	})
}

// ContactRequest is the request body for creating or updating a contact
type ContactRequest struct {
	Name        string  `json:"name" validate:"required"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// Create handles POST /api/contact
func (h *ContactHandler) Create(c *fiber.Ctx) error {
	var req ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	contact := model.Contact{
		Name:        validation.SanitizeString(req.Name),
		Email:       req.Email,
		Phone:       req.Phone,
		Description: req.Description,
		IsActive:    true,
	}
	if req.IsActive != nil {
		contact.IsActive = *req.IsActive
	}

	if err := h.db.Create(&contact).Error; err != nil {
		return response.InternalServerError(c, "Failed to create contact")
	}

	return response.Created(c, contact)
}

// Update handles PUT /api/contact/:id. The submitted body fully replaces the
// stored record; omitted nullable fields are cleared, not preserved.
func (h *ContactHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")

	var req ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var contact model.Contact
	if err := h.db.First(&contact, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Contact not found")
		}
		return response.InternalServerError(c, "Failed to fetch contact")
	}

	contact.Name = validation.SanitizeString(req.Name)
	contact.Email = req.Email
	contact.Phone = req.Phone
	contact.Description = req.Description
	if req.IsActive != nil {
		contact.IsActive = *req.IsActive
	}

	if err := h.db.Save(&contact).Error; err != nil {
		return response.InternalServerError(c, "Failed to update contact")
	}

	return response.SuccessWithMessage(c, "Contact updated successfully", contact)
}
