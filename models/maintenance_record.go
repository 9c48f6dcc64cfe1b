package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service status constants. WARRANTY, AMC and CAMC carry a billing period;
// the remaining statuses are contract types with no billing period.
const (
	ServiceStatusWarranty    = "WARRANTY"
	ServiceStatusCAMC        = "CAMC"
	ServiceStatusAMC         = "AMC"
	ServiceStatusCalibration = "CALIBRATION"
	ServiceStatusOncall      = "ONCALL SERVICE"
	ServiceStatusEndOfLife   = "END OF LIFE"
)

// Record statuses derived from the expiry predicate, distinct from service status
const (
	RecordStatusActive  = "active"
	RecordStatusExpired = "expired"
)

// ServiceContract is a snapshot of a past contract term. Snapshots are
// appended to the record's history on renewal, oldest first, and never
// modified afterwards. Stored as a JSON column, not a separate table.
type ServiceContract struct {
	ServiceStatus    string     `json:"service_status"`
	ServiceStartDate *time.Time `json:"service_start_date,omitempty"`
	ServiceEndDate   *time.Time `json:"service_end_date,omitempty"`
	InvoiceNumber    string     `json:"invoice_number"`
	InvoiceDate      *time.Time `json:"invoice_date,omitempty"`
	Amount           float64    `json:"amount"`
	Notes            string     `json:"notes"`
}

// MaintenanceRecord is the central entity: one physical equipment unit at one
// customer, with its live service contract and the history of prior terms.
type MaintenanceRecord struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Linkage
	CustomerID  string    `gorm:"type:uuid;index;not null" json:"customer_id"`
	Customer    Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	EquipmentID string    `gorm:"type:uuid;index;not null" json:"equipment_id"`
	Equipment   Equipment `gorm:"foreignKey:EquipmentID" json:"equipment,omitempty"`
	SerialNo    string    `gorm:"size:100;not null;index" json:"serial_no"` // free text, not globally unique

	// Physical facts
	InstallationDate       *time.Time `gorm:"type:date" json:"installation_date"`
	WarrantyEndDate        *time.Time `gorm:"type:date" json:"warranty_end_date"`
	EquipmentPurchaseValue float64    `json:"equipment_purchase_value"`

	// Live service contract slice; archived into ServiceContracts on renewal
	ServiceStatus    string     `gorm:"size:20;index" json:"service_status"`
	ServiceStartDate *time.Time `gorm:"type:date" json:"service_start_date,omitempty"`
	ServiceEndDate   *time.Time `gorm:"type:date" json:"service_end_date,omitempty"`
	InvoiceNumber    string     `gorm:"size:100" json:"invoice_number"`
	InvoiceDate      *time.Time `gorm:"type:date" json:"invoice_date,omitempty"`
	Amount           float64    `json:"amount"`

	// Prior contract terms, append-only, oldest first
	ServiceContracts []ServiceContract `gorm:"serializer:json" json:"service_contracts"`

	Notes string `gorm:"type:text" json:"notes"`

	// Reminder bookkeeping for the contract-expiry email job
	ReminderSentAt *time.Time `json:"reminder_sent_at,omitempty"`

	// Owned visit log
	Visits []Visit `gorm:"foreignKey:MaintenanceRecordID" json:"visits"`
}

// BeforeCreate hook to generate UUID
func (m *MaintenanceRecord) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for MaintenanceRecord model
func (MaintenanceRecord) TableName() string {
	return "maintenance_records"
}

// LiveContract returns the current contract slice as a snapshot value
func (m *MaintenanceRecord) LiveContract() ServiceContract {
	return ServiceContract{
		ServiceStatus:    m.ServiceStatus,
		ServiceStartDate: m.ServiceStartDate,
		ServiceEndDate:   m.ServiceEndDate,
		InvoiceNumber:    m.InvoiceNumber,
		InvoiceDate:      m.InvoiceDate,
		Amount:           m.Amount,
		Notes:            m.Notes,
	}
}

// HasBillingPeriod reports whether the status carries service dates and invoicing
func HasBillingPeriod(serviceStatus string) bool {
	switch serviceStatus {
	case ServiceStatusWarranty, ServiceStatusAMC, ServiceStatusCAMC:
		return true
	}
	return false
}

// IsValidServiceStatus checks if the status is valid
func IsValidServiceStatus(status string) bool {
	validStatuses := []string{
		ServiceStatusWarranty,
		ServiceStatusCAMC,
		ServiceStatusAMC,
		ServiceStatusCalibration,
		ServiceStatusOncall,
		ServiceStatusEndOfLife,
	}
	for _, s := range validStatuses {
		if s == status {
			return true
		}
	}
	return false
}
