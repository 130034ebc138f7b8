package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EventStatus is the lifecycle stage of a cooperation event
type EventStatus string

const (
	EventStatusProspect   EventStatus = "PROSPECT"
	EventStatusPending    EventStatus = "PENDING"
	EventStatusActive     EventStatus = "ACTIVE"
	EventStatusClosed     EventStatus = "CLOSED"
	EventStatusTerminated EventStatus = "TERMINATED"
)

// Event represents a cooperation activity run with partners and contacts
type Event struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Title       string     `gorm:"not null" json:"title"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`

	Status EventStatus `gorm:"type:varchar(15);default:'PROSPECT'" json:"status"`

	// Documents is a list of URLs pointing at uploaded files
	Documents datatypes.JSONSlice[string] `json:"documents"`

	FundingAmount   *float64 `json:"funding_amount"`
	FundingCurrency *string  `json:"funding_currency"`

	StudentReachPlanned *int `json:"student_reach_planned"`
	StudentReachActual  *int `json:"student_reach_actual"`

	Feedback *string `json:"feedback"`
	Rating   *int    `json:"rating"` // 0 to 5

	// Owning user, set to the authenticated caller on create
	UserID string `gorm:"type:uuid;index;not null" json:"userId"`
	User   *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`

	EventContacts []EventContact `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"eventContacts,omitempty"`
	PartnerEvents []PartnerEvent `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"partnerEvents,omitempty"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

// EventContact is the join row linking an event to a contact
type EventContact struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	EventID   string `gorm:"type:uuid;index;not null" json:"eventId"`
	ContactID string `gorm:"type:uuid;index;not null" json:"contactId"`

	Contact Contact `gorm:"foreignKey:ContactID;constraint:OnDelete:CASCADE" json:"contact,omitempty"`
}

func (ec *EventContact) BeforeCreate(tx *gorm.DB) error {
	if ec.ID == "" {
		ec.ID = uuid.New().String()
	}
	return nil
}

// PartnerEvent is the join row linking an event to a partner
type PartnerEvent struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	EventID   string `gorm:"type:uuid;index;not null" json:"eventId"`
	PartnerID string `gorm:"type:uuid;index;not null" json:"partnerId"`

	Partner Partner `gorm:"foreignKey:PartnerID;constraint:OnDelete:CASCADE" json:"partner,omitempty"`
}

func (pe *PartnerEvent) BeforeCreate(tx *gorm.DB) error {
	if pe.ID == "" {
		pe.ID = uuid.New().String()
	}
	return nil
}
