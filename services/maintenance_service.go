package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"medequip_app_go/models"

	"gorm.io/gorm"
)

// Maintenance-record errors
var (
	ErrRecordNotFound = errors.New("maintenance record not found")
	ErrRecordExpired  = errors.New("maintenance record has expired")
)

// ApplyServiceStatusRules force-nulls the billing fields for contract types
// that have no billing period, regardless of what the form submitted.
func ApplyServiceStatusRules(record *models.MaintenanceRecord) {
	if models.HasBillingPeriod(record.ServiceStatus) {
		return
	}
	record.ServiceStartDate = nil
	record.ServiceEndDate = nil
	record.InvoiceNumber = ""
	record.InvoiceDate = nil
	record.Amount = 0
}

// ValidateMaintenanceRecord validates an add/edit submission against the
// current clock
func ValidateMaintenanceRecord(record *models.MaintenanceRecord) error {
	return ValidateMaintenanceRecordAt(record, time.Now())
}

// ValidateMaintenanceRecordAt checks the field-requirement rules keyed by
// service status. Violations reject the whole submission with a single
// aggregate error; there is no partial save.
func ValidateMaintenanceRecordAt(record *models.MaintenanceRecord, now time.Time) error {
	var missing []string

	if record.CustomerID == "" {
		missing = append(missing, "customer")
	}
	if record.EquipmentID == "" {
		missing = append(missing, "equipment")
	}
	if record.SerialNo == "" {
		missing = append(missing, "serial number")
	}
	if record.InstallationDate == nil {
		missing = append(missing, "installation date")
	}
	if record.WarrantyEndDate == nil {
		missing = append(missing, "warranty end date")
	}
	if record.ServiceStatus == "" {
		missing = append(missing, "service status")
	}

	if record.ServiceStatus != "" && !models.IsValidServiceStatus(record.ServiceStatus) {
		return fmt.Errorf("invalid service status: %s", record.ServiceStatus)
	}

	if models.HasBillingPeriod(record.ServiceStatus) {
		if record.ServiceStartDate == nil {
			missing = append(missing, "service start date")
		}
		if record.ServiceEndDate == nil {
			missing = append(missing, "service end date")
		}
		if record.InvoiceNumber == "" {
			missing = append(missing, "invoice number")
		}
		if record.InvoiceDate == nil {
			missing = append(missing, "invoice date")
		}
		if record.Amount <= 0 {
			missing = append(missing, "amount")
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("please fill in all required fields: %s", strings.Join(missing, ", "))
	}

	// A billing-period contract cannot be saved with an already-expired end
	// date. Renewal sidesteps this by blanking the live slice first.
	if models.HasBillingPeriod(record.ServiceStatus) {
		if StartOfDay(*record.ServiceEndDate).Before(Yesterday(now)) {
			return errors.New("service end date must be greater than or equal to current date")
		}
	}

	return nil
}

// BuildRenewalDraft archives the live contract slice into the history and
// blanks the live fields so the operator can enter the new term through the
// normal edit form. The record ID is preserved: renewal mutates the same
// row, it never creates a new record. Pure transform; nothing is persisted
// until the draft is saved like any other edit.
func BuildRenewalDraft(record *models.MaintenanceRecord) *models.MaintenanceRecord {
	draft := *record

	history := make([]models.ServiceContract, len(record.ServiceContracts), len(record.ServiceContracts)+1)
	copy(history, record.ServiceContracts)
	draft.ServiceContracts = append(history, record.LiveContract())

	draft.ServiceStatus = ""
	draft.ServiceStartDate = nil
	draft.ServiceEndDate = nil
	draft.InvoiceNumber = ""
	draft.InvoiceDate = nil
	draft.Amount = 0
	draft.Notes = ""

	return &draft
}

// GetMaintenanceRecords fetches all records with customer, equipment and
// visits eagerly joined, in creation order. Filtering happens in memory via
// the filter engine so list, export and reminders all see the same rules.
func GetMaintenanceRecords(db *gorm.DB) ([]models.MaintenanceRecord, error) {
	var records []models.MaintenanceRecord
	err := db.Preload("Customer").Preload("Equipment").Preload("Visits").
		Order("created_at asc").
		Find(&records).Error
	return records, err
}

// GetMaintenanceRecordByID fetches a single record with relationships
func GetMaintenanceRecordByID(db *gorm.DB, id string) (*models.MaintenanceRecord, error) {
	var record models.MaintenanceRecord
	err := db.Preload("Customer").Preload("Equipment").Preload("Visits").
		First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to fetch maintenance record: %w", err)
	}
	return &record, nil
}

// CreateMaintenanceRecord applies the status rules, validates and persists
func CreateMaintenanceRecord(db *gorm.DB, record *models.MaintenanceRecord) error {
	ApplyServiceStatusRules(record)
	if err := ValidateMaintenanceRecord(record); err != nil {
		return err
	}
	if record.ServiceContracts == nil {
		record.ServiceContracts = []models.ServiceContract{}
	}
	return db.Create(record).Error
}

// UpdateMaintenanceRecord applies the status rules, validates and saves the
// full record. Relations are never written through this path.
func UpdateMaintenanceRecord(db *gorm.DB, record *models.MaintenanceRecord) error {
	ApplyServiceStatusRules(record)
	if err := ValidateMaintenanceRecord(record); err != nil {
		return err
	}
	return db.Model(record).
		Select("customer_id", "equipment_id", "serial_no", "installation_date",
			"warranty_end_date", "equipment_purchase_value", "service_status",
			"service_start_date", "service_end_date", "invoice_number",
			"invoice_date", "amount", "service_contracts", "notes").
		Updates(record).Error
}

// DeleteMaintenanceRecord hard-deletes a record and cascades to its visits
// in one transaction, so no orphaned visit rows survive.
func DeleteMaintenanceRecord(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("maintenance_record_id = ?", id).Delete(&models.Visit{}).Error; err != nil {
			return fmt.Errorf("failed to delete visits: %w", err)
		}
		result := tx.Unscoped().Where("id = ?", id).Delete(&models.MaintenanceRecord{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete maintenance record: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrRecordNotFound
		}
		return nil
	})
}

// CountMaintenanceReferences counts records pointing at a customer or
// equipment row. Used to block deletes that would dangle.
func CountMaintenanceReferences(db *gorm.DB, foreignKey, id string) (int64, error) {
	var count int64
	err := db.Model(&models.MaintenanceRecord{}).
		Where(fmt.Sprintf("%s = ?", foreignKey), id).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count references: %w", err)
	}
	return count, nil
}
