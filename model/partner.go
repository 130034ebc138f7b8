package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PartnerType classifies a partner as a person or an organization
type PartnerType string

const (
	PartnerTypeIndividual   PartnerType = "INDIVIDUAL"
	PartnerTypeOrganization PartnerType = "ORGANIZATION"
	PartnerTypeOther        PartnerType = "OTHER"
)

// PartnerSector is the field a partner operates in
type PartnerSector string

const (
	PartnerSectorAcademic   PartnerSector = "ACADEMIC"
	PartnerSectorIndustry   PartnerSector = "INDUSTRY"
	PartnerSectorNGO        PartnerSector = "NGO"
	PartnerSectorGovernment PartnerSector = "GOVERNMENT"
	PartnerSectorOthers     PartnerSector = "OTHERS"
)

// PartnerRank is the cooperation tier of a partner
type PartnerRank string

const (
	PartnerRankDiamond PartnerRank = "DIAMOND"
	PartnerRankGold    PartnerRank = "GOLD"
	PartnerRankSilver  PartnerRank = "SILVER"
	PartnerRankNotYet  PartnerRank = "NOTYET"
	PartnerRankOther   PartnerRank = "OTHER"
)

// Partner represents a cooperating individual or organization
type Partner struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name        string  `gorm:"not null" json:"name"`
	Description *string `json:"description"`
	Address     *string `json:"address"`

	Type          *PartnerType `gorm:"type:varchar(20)" json:"type"`
	OtherTypeName *string      `json:"otherTypeName"`

	// Sector holds one or more PartnerSector values joined by commas so the
	// free-text search can match against it like any other text column.
	Sector          *string `json:"sector"`
	OtherSectorName *string `json:"otherSectorName"`

	Rank      *PartnerRank `gorm:"type:varchar(10)" json:"rank"`
	OtherRank *string      `json:"otherRank"`

	Tags     datatypes.JSONSlice[string] `json:"tags"`
	IsActive bool                        `gorm:"default:true" json:"isActive"`

	PartnerContacts []PartnerContact `gorm:"foreignKey:PartnerID;constraint:OnDelete:CASCADE" json:"partnerContacts,omitempty"`
}

func (p *Partner) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// PartnerContact is the join row linking a partner to a contact
type PartnerContact struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	PartnerID string `gorm:"type:uuid;index;not null" json:"partnerId"`
	ContactID string `gorm:"type:uuid;index;not null" json:"contactId"`

	Contact Contact `gorm:"foreignKey:ContactID;constraint:OnDelete:CASCADE" json:"contact,omitempty"`
}

func (pc *PartnerContact) BeforeCreate(tx *gorm.DB) error {
	if pc.ID == "" {
		pc.ID = uuid.New().String()
	}
	return nil
}
