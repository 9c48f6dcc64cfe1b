package services

import (
	"strings"
	"time"

	"medequip_app_go/models"
)

// DateRange is a [start, end] pair where either side may be nil (open-ended).
// The start bound compares at local midnight, the end bound at 23:59:59.999.
type DateRange struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

// IsZero reports whether neither bound is set
func (r DateRange) IsZero() bool {
	return r.Start == nil && r.End == nil
}

// AgeRange filters on equipment age in fractional years
type AgeRange struct {
	MinYears *float64 `json:"min"`
	MaxYears *float64 `json:"max"`
}

// MaintenanceFilters is the criteria object applied by the filter engine.
// Every field is optional; an absent field means no constraint.
type MaintenanceFilters struct {
	CustomerIDs  []string `json:"customer_ids"`
	EquipmentIDs []string `json:"equipment_ids"`

	// Comma-separated lists matched by exact set membership
	SerialNo    string `json:"serial_no"`
	ModelNumber string `json:"model_number"`

	InstallationDateRange DateRange `json:"installation_date_range"`
	WarrantyEndDateRange  DateRange `json:"warranty_end_date_range"`
	ServiceStartDateRange DateRange `json:"service_start_date_range"`
	ServiceEndDateRange   DateRange `json:"service_end_date_range"`

	ServiceStatuses []string `json:"service_statuses"`
	RecordStatuses  []string `json:"record_statuses"` // "active" / "expired"

	AgeRange *AgeRange `json:"age_range"`
}

// IsRecordExpired reports whether the record's service term has lapsed,
// evaluated against the current clock. Never stored; recomputed per pass.
func IsRecordExpired(record *models.MaintenanceRecord) bool {
	return IsRecordExpiredAt(record, time.Now())
}

// IsRecordExpiredAt compares the service end date against yesterday's
// midnight rather than today's: a record is still active on its end date
// and on the day after, and counts as expired only from two days past the
// end date onward. Records without an end date never expire.
func IsRecordExpiredAt(record *models.MaintenanceRecord, now time.Time) bool {
	if record.ServiceEndDate == nil {
		return false
	}
	end := StartOfDay(*record.ServiceEndDate)
	return end.Before(Yesterday(now))
}

// FilterMaintenanceRecords applies the criteria against the current clock
func FilterMaintenanceRecords(records []models.MaintenanceRecord, filters MaintenanceFilters) []models.MaintenanceRecord {
	return FilterMaintenanceRecordsAt(records, filters, time.Now())
}

// FilterMaintenanceRecordsAt returns the subset of records matching every
// active criterion. Pure, single pass, stable: the output preserves the
// relative order of the input.
func FilterMaintenanceRecordsAt(records []models.MaintenanceRecord, filters MaintenanceFilters, now time.Time) []models.MaintenanceRecord {
	result := make([]models.MaintenanceRecord, 0, len(records))
	for i := range records {
		if matchesFilters(&records[i], filters, now) {
			result = append(result, records[i])
		}
	}
	return result
}

func matchesFilters(record *models.MaintenanceRecord, filters MaintenanceFilters, now time.Time) bool {
	if len(filters.CustomerIDs) > 0 && !containsString(filters.CustomerIDs, record.CustomerID) {
		return false
	}
	if len(filters.EquipmentIDs) > 0 && !containsString(filters.EquipmentIDs, record.EquipmentID) {
		return false
	}

	if filters.SerialNo != "" {
		if !containsString(strings.Split(filters.SerialNo, ","), record.SerialNo) {
			return false
		}
	}

	if filters.ModelNumber != "" {
		if !containsString(strings.Split(filters.ModelNumber, ","), record.Equipment.ModelNumber) {
			return false
		}
	}

	if !dateInRange(record.InstallationDate, filters.InstallationDateRange) {
		return false
	}
	if !dateInRange(record.WarrantyEndDate, filters.WarrantyEndDateRange) {
		return false
	}
	if !dateInRange(record.ServiceStartDate, filters.ServiceStartDateRange) {
		return false
	}
	if !dateInRange(record.ServiceEndDate, filters.ServiceEndDateRange) {
		return false
	}

	if len(filters.ServiceStatuses) > 0 && !containsString(filters.ServiceStatuses, record.ServiceStatus) {
		return false
	}

	if len(filters.RecordStatuses) > 0 {
		status := models.RecordStatusActive
		if IsRecordExpiredAt(record, now) {
			status = models.RecordStatusExpired
		}
		if !containsString(filters.RecordStatuses, status) {
			return false
		}
	}

	if filters.AgeRange != nil {
		if !ageInRange(record.InstallationDate, *filters.AgeRange, now) {
			return false
		}
	}

	return true
}

// dateInRange checks a record date against an optional [start, end] range.
// The record date is normalized to midnight before comparing. A record
// without the date fails any range that constrains it.
func dateInRange(date *time.Time, r DateRange) bool {
	if r.IsZero() {
		return true
	}
	if date == nil {
		return false
	}
	d := StartOfDay(*date)
	if r.Start != nil && d.Before(StartOfDay(*r.Start)) {
		return false
	}
	if r.End != nil && d.After(EndOfDay(*r.End)) {
		return false
	}
	return true
}

// ageInRange applies the age filter in fractional years. The upper bound is
// exclusive when the lower bound is exactly zero ("0 to 1" means under one
// year) and inclusive otherwise. This asymmetry is deliberate and relied on
// by the age-bucket presets.
func ageInRange(installationDate *time.Time, r AgeRange, now time.Time) bool {
	if r.MinYears == nil && r.MaxYears == nil {
		return true
	}
	if installationDate == nil {
		return false
	}
	ageYears := float64(MonthsBetween(*installationDate, now)) / 12

	if r.MinYears != nil && ageYears < *r.MinYears {
		return false
	}
	if r.MaxYears != nil {
		if r.MinYears != nil && *r.MinYears == 0 {
			if ageYears >= *r.MaxYears {
				return false
			}
		} else if ageYears > *r.MaxYears {
			return false
		}
	}
	return true
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
