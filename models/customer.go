package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer represents a hospital or clinic whose equipment is under contract.
// The bio-medical contact fields identify the department responsible for the
// equipment on the customer's side.
type Customer struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name              string  `gorm:"size:200;not null" json:"name"`
	BioMedicalEmail   string  `gorm:"size:255;not null" json:"bio_medical_email"`
	BioMedicalContact string  `gorm:"size:50;not null" json:"bio_medical_contact"`
	BioMedicalHODName string  `gorm:"size:200;not null" json:"bio_medical_hod_name"`
	Notes             *string `gorm:"type:text" json:"notes,omitempty"`
}

// BeforeCreate hook to generate UUID
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Customer model
func (Customer) TableName() string {
	return "customers"
}
