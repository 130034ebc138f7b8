package partner

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"partnerhub/model"
	"partnerhub/services"
	"partnerhub/utils/query"
	"partnerhub/utils/response"
	"partnerhub/utils/validation"
)

// PartnerHandler handles partner management requests
type PartnerHandler struct {
	db        *gorm.DB
	service   *services.PartnerService
	validator *validation.Validator
}

// NewPartnerHandler creates a new partner handler
func NewPartnerHandler(db *gorm.DB) *PartnerHandler {
	return &PartnerHandler{
		db:        db,
		service:   services.NewPartnerService(db),
		validator: validation.NewValidator(),
	}
}

var partnerColumns = query.ColumnConfig{
	Columns: map[string]string{
		"name":      "name",
		"type":      "type",
		"rank":      "rank",
		"sector":    "sector",
		"isActive":  "is_active",
		"createdAt": "created_at",
	},
	Searchable: []string{"name", "description", "address", "sector"},
}

// List handles POST /api/partner/list
func (h *PartnerHandler) List(c *fiber.Ctx) error {
	var req query.Descriptor
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	compiled, err := query.Compile(req, partnerColumns)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	var totalCount int64
	if err := compiled.Scope(h.db.Model(&model.Partner{})).Count(&totalCount).Error; err != nil {
		return response.InternalServerError(c, "Failed to count partners")
	}

	var partners []model.Partner
	err = compiled.Page(compiled.Scope(h.db.Model(&model.Partner{}))).
		Preload("PartnerContacts.Contact").
		Find(&partners).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch partners")
	}

	return response.Success(c, fiber.Map{
		"totalCount": totalCount,
		"partners":   partners,
	})
}

// Get handles GET /api/partner/:id
func (h *PartnerHandler) Get(c *fiber.Ctx) error {
	partner, err := h.service.GetByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Partner not found")
		}
		return response.InternalServerError(c, "Failed to fetch partner")
	}

	return response.Success(c, partner)
}

// PartnerRequest is the request body for creating or updating a partner
type PartnerRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
	Address     *string `json:"address"`

	Type          *model.PartnerType `json:"type" validate:"omitempty,oneof=INDIVIDUAL ORGANIZATION OTHER"`
	OtherTypeName *string            `json:"otherTypeName"`

	Sector          []model.PartnerSector `json:"sector" validate:"omitempty,dive,oneof=ACADEMIC INDUSTRY NGO GOVERNMENT OTHERS"`
	OtherSectorName *string               `json:"otherSectorName"`

	Rank      *model.PartnerRank `json:"rank" validate:"omitempty,oneof=DIAMOND GOLD SILVER NOTYET OTHER"`
	OtherRank *string            `json:"otherRank"`

	Tags     []string `json:"tags"`
	IsActive *bool    `json:"isActive"`

	ContactIDs []string `json:"contactIds" validate:"omitempty,dive,uuid4"`
}

func (r *PartnerRequest) toModel() model.Partner {
	partner := model.Partner{
		Name:            validation.SanitizeString(r.Name),
		Description:     r.Description,
		Address:         r.Address,
		Type:            r.Type,
		OtherTypeName:   r.OtherTypeName,
		OtherSectorName: r.OtherSectorName,
		Rank:            r.Rank,
		OtherRank:       r.OtherRank,
		Tags:            datatypes.JSONSlice[string](r.Tags),
		IsActive:        true,
	}

	if len(r.Sector) > 0 {
		parts := make([]string, 0, len(r.Sector))
		for _, s := range r.Sector {
			parts = append(parts, string(s))
		}
		joined := strings.Join(parts, ",")
		partner.Sector = &joined
	}

	if r.IsActive != nil {
		partner.IsActive = *r.IsActive
	}
	return partner
}

// Create handles POST /api/partner
func (h *PartnerHandler) Create(c *fiber.Ctx) error {
	var req PartnerRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	partner := req.toModel()
	if err := h.service.Create(&partner, req.ContactIDs); err != nil {
		if errors.Is(err, services.ErrReferentialIntegrity) {
			return response.BadRequest(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to create partner")
	}

	created, err := h.service.GetByID(partner.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch created partner")
	}
	return response.Created(c, created)
}

// Update handles PUT /api/partner/:id. The contact association set is
// replaced wholesale by the submitted contactIds list.
func (h *PartnerHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")

	var req PartnerRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	existing, err := h.service.GetByID(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Partner not found")
		}
		return response.InternalServerError(c, "Failed to fetch partner")
	}

	partner := req.toModel()
	partner.ID = existing.ID
	partner.CreatedAt = existing.CreatedAt

	if err := h.service.Update(&partner, req.ContactIDs); err != nil {
		if errors.Is(err, services.ErrReferentialIntegrity) {
			return response.BadRequest(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to update partner")
	}

	updated, err := h.service.GetByID(id)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch updated partner")
	}
	return response.SuccessWithMessage(c, "Partner updated successfully", updated)
}

// UpdateStatusRequest toggles the soft-disable flag
type UpdateStatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

// UpdateStatus handles PATCH /api/partner/:id/status
func (h *PartnerHandler) UpdateStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	partner, err := h.service.UpdateStatus(c.Params("id"), *req.IsActive)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Partner not found")
		}
		return response.InternalServerError(c, "Failed to update partner status")
	}

	return response.SuccessWithMessage(c, "Partner status updated", partner)
}

// Delete handles DELETE /api/partner/:id (admin only)
func (h *PartnerHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Params("id")); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Partner not found")
		}
		if errors.Is(err, services.ErrReferentialIntegrity) {
			return response.BadRequest(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to delete partner")
	}

	return response.SuccessNoData(c, "Partner deleted successfully")
}
