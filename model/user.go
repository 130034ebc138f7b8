package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the access level of a user account
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Department is the school department a user belongs to
type Department string

const (
	DepartmentElectrical    Department = "ELECTRICAL"
	DepartmentElectronic    Department = "ELECTRONIC"
	DepartmentCommunication Department = "COMMUNICATION"
	DepartmentAutomation    Department = "AUTOMATION"
	DepartmentSchoolOffice  Department = "SCHOOLOFFICE"
)

// User represents a staff account in the system
type User struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name       string     `gorm:"not null" json:"name"`
	Username   string     `gorm:"uniqueIndex;not null" json:"username"`
	Password   string     `gorm:"not null" json:"-"` // Never expose password in JSON
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	Role       Role       `gorm:"type:varchar(10);default:'USER'" json:"role"`
	Department Department `gorm:"type:varchar(20)" json:"department"`

	// Soft-disable flag; a disabled account stays listable but cannot log in
	IsActive bool `gorm:"default:true" json:"isActive"`

	// Set when any update changes the password, cleared on the next successful
	// login. A session presented while this is true is stale and gets rejected.
	HasPasswordChanged bool `gorm:"default:false" json:"hasPasswordChanged"`
}

// BeforeCreate assigns a UUID primary key when none is set
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}
