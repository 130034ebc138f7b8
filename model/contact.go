package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contact represents a person of contact that can be linked into partners and events
type Contact struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name        string  `gorm:"not null" json:"name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Description *string `json:"description"`
	IsActive    bool    `gorm:"default:true" json:"isActive"`
}

func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
