package event

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"partnerhub/model"
	"partnerhub/services"
	"partnerhub/services/storage"
	"partnerhub/utils/middleware"
	"partnerhub/utils/query"
	"partnerhub/utils/response"
	"partnerhub/utils/validation"
)

// EventHandler handles event management requests
type EventHandler struct {
	db        *gorm.DB
	service   *services.EventService
	spaces    *storage.SpacesClient
	validator *validation.Validator
}

// NewEventHandler creates a new event handler. spaces may be nil when
// document storage is not configured; the upload endpoint then refuses.
func NewEventHandler(db *gorm.DB, spaces *storage.SpacesClient) *EventHandler {
	return &EventHandler{
		db:        db,
		service:   services.NewEventService(db),
		spaces:    spaces,
		validator: validation.NewValidator(),
	}
}

var eventColumns = query.ColumnConfig{
	Columns: map[string]string{
		"title":     "title",
		"status":    "status",
		"userId":    "user_id",
		"rating":    "rating",
		"startDate": "start_date",
		"endDate":   "end_date",
		"createdAt": "created_at",
	},
	Searchable: []string{"title", "description"},
}

// List handles POST /api/event/list
func (h *EventHandler) List(c *fiber.Ctx) error {
	var req query.Descriptor
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	compiled, err := query.Compile(req, eventColumns)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	var totalCount int64
	if err := compiled.Scope(h.db.Model(&model.Event{})).Count(&totalCount).Error; err != nil {
		return response.InternalServerError(c, "Failed to count events")
	}

	var events []model.Event
	err = compiled.Page(compiled.Scope(h.db.Model(&model.Event{}))).
		Preload("EventContacts.Contact").
		Preload("PartnerEvents.Partner").
		Preload("User").
		Find(&events).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch events")
	}

	return response.Success(c, fiber.Map{
		"totalCount": totalCount,
		"events":     events,
	})
}

// Get handles GET /api/event/:id
func (h *EventHandler) Get(c *fiber.Ctx) error {
	event, err := h.service.GetByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Event not found")
		}
		return response.InternalServerError(c, "Failed to fetch event")
	}

	return response.Success(c, event)
}

// EventRequest is the request body for creating or updating an event
type EventRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`

	Status model.EventStatus `json:"status" validate:"omitempty,oneof=PROSPECT PENDING ACTIVE CLOSED TERMINATED"`

	FundingAmount   *float64 `json:"funding_amount"`
	FundingCurrency *string  `json:"funding_currency"`

	StudentReachPlanned *int `json:"student_reach_planned"`
	StudentReachActual  *int `json:"student_reach_actual"`

	Feedback *string `json:"feedback"`
	Rating   *int    `json:"rating" validate:"omitempty,min=0,max=5"`

	ContactIDs []string `json:"contactIds" validate:"omitempty,dive,uuid4"`
	PartnerIDs []string `json:"partnerIds" validate:"omitempty,dive,uuid4"`
}

func (r *EventRequest) apply(event *model.Event) {
	event.Title = validation.SanitizeString(r.Title)
	event.Description = r.Description
	event.StartDate = r.StartDate
	event.EndDate = r.EndDate
	event.FundingAmount = r.FundingAmount
	event.FundingCurrency = r.FundingCurrency
	event.StudentReachPlanned = r.StudentReachPlanned
	event.StudentReachActual = r.StudentReachActual
	event.Feedback = r.Feedback
	event.Rating = r.Rating

	if r.Status != "" {
		event.Status = r.Status
	}
}

// Create handles POST /api/event. The authenticated caller becomes the owner.
func (h *EventHandler) Create(c *fiber.Ctx) error {
	caller, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req EventRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	event := model.Event{
		Status: model.EventStatusProspect,
		UserID: caller.ID,
	}
	req.apply(&event)

	if err := h.service.Create(&event, req.ContactIDs, req.PartnerIDs); err != nil {
		if errors.Is(err, services.ErrReferentialIntegrity) {
			return response.BadRequest(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to create event")
	}

	created, err := h.service.GetByID(event.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch created event")
	}
	return response.Created(c, created)
}

// Update handles PUT /api/event/:id. Both association sets (contacts and
// partners) are replaced wholesale by the submitted ID lists. Ownership and
// the uploaded-documents list survive the update untouched.
func (h *EventHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")

	var req EventRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	existing, err := h.service.GetByID(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Event not found")
		}
		return response.InternalServerError(c, "Failed to fetch event")
	}

	event := model.Event{
		ID:        existing.ID,
		CreatedAt: existing.CreatedAt,
		Status:    existing.Status,
		Documents: existing.Documents,
		UserID:    existing.UserID,
	}
	req.apply(&event)

	if err := h.service.Update(&event, req.ContactIDs, req.PartnerIDs); err != nil {
		if errors.Is(err, services.ErrReferentialIntegrity) {
			return response.BadRequest(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to update event")
	}

	updated, err := h.service.GetByID(id)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch updated event")
	}
	return response.SuccessWithMessage(c, "Event updated successfully", updated)
}

// UploadDocument handles POST /api/event/:id/documents/upload. The file goes
// to the Spaces bucket and its public URL is appended to the event's
// document list.
func (h *EventHandler) UploadDocument(c *fiber.Ctx) error {
	if h.spaces == nil {
		return response.ServiceUnavailable(c, "Document storage is not configured")
	}

	id := c.Params("id")
	if _, err := h.service.GetByID(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Event not found")
		}
		return response.InternalServerError(c, "Failed to fetch event")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "Missing file upload")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.BadRequest(c, "Cannot read file upload")
	}
	defer file.Close()

	key := storage.GenerateKey("events/"+id, fileHeader.Filename)
	url, err := h.spaces.UploadFile(c.UserContext(), key, file, storage.GetContentType(fileHeader.Filename))
	if err != nil {
		return response.InternalServerError(c, "Failed to upload document")
	}

	event, err := h.service.AppendDocument(id, url)
	if err != nil {
		return response.InternalServerError(c, "Failed to record document")
	}

	return response.SuccessWithMessage(c, "Document uploaded", event)
}
