package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Visit status constants
const (
	VisitStatusScheduled = "Scheduled"
	VisitStatusAttended  = "Attended"
	VisitStatusClosed    = "Closed"
)

// DefaultEquipmentStatus is assigned to scheduled visits until the engineer reports otherwise
const DefaultEquipmentStatus = "Working"

// Visit is a single scheduled or completed site visit tied to one
// maintenance record. Which fields are populated depends on the status:
// a Scheduled visit carries only its scheduled date, while Attended and
// Closed visits carry the full service report.
type Visit struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	MaintenanceRecordID string `gorm:"type:uuid;index;not null" json:"maintenance_record_id"`

	VisitStatus     string     `gorm:"size:20;default:'Scheduled';index" json:"visit_status"`
	ScheduledDate   *time.Time `gorm:"type:date" json:"scheduled_date,omitempty"`
	VisitDate       *time.Time `gorm:"type:date" json:"visit_date,omitempty"`
	WorkDone        *string    `gorm:"type:text" json:"work_done,omitempty"`
	AttendedBy      *string    `gorm:"size:200" json:"attended_by,omitempty"`
	EquipmentStatus *string    `gorm:"size:100" json:"equipment_status,omitempty"`
	Comments        *string    `gorm:"type:text" json:"comments,omitempty"`
}

// BeforeCreate hook to generate UUID
func (v *Visit) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Visit model
func (Visit) TableName() string {
	return "maintenance_visits"
}

// IsValidVisitStatus checks if the status is valid
func IsValidVisitStatus(status string) bool {
	switch status {
	case VisitStatusScheduled, VisitStatusAttended, VisitStatusClosed:
		return true
	}
	return false
}

// EffectiveDate returns the date a visit is judged by: the scheduled date
// while it is still Scheduled, the actual visit date once attended or closed.
func (v *Visit) EffectiveDate() *time.Time {
	if v.VisitStatus == VisitStatusScheduled {
		return v.ScheduledDate
	}
	return v.VisitDate
}
