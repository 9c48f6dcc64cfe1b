package services

import (
	"testing"
	"time"

	"medequip_app_go/models"

	"github.com/stretchr/testify/assert"
)

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func floatPtr(f float64) *float64 {
	return &f
}

func TestIsRecordExpiredAt(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		endDate  *time.Time
		expected bool
	}{
		{
			name:     "No end date never expires",
			endDate:  nil,
			expected: false,
		},
		{
			name:     "Ends today",
			endDate:  datePtr(2024, 6, 15),
			expected: false,
		},
		{
			name:     "Ended yesterday still active",
			endDate:  datePtr(2024, 6, 14),
			expected: false,
		},
		{
			name:     "Ended two days ago",
			endDate:  datePtr(2024, 6, 13),
			expected: true,
		},
		{
			name:     "Ends in the future",
			endDate:  datePtr(2024, 12, 31),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := &models.MaintenanceRecord{ServiceEndDate: tt.endDate}
			assert.Equal(t, tt.expected, IsRecordExpiredAt(record, now))
		})
	}
}

func filterFixture() []models.MaintenanceRecord {
	return []models.MaintenanceRecord{
		{
			ID:               "r1",
			CustomerID:       "c1",
			EquipmentID:      "e1",
			SerialNo:         "SN-100",
			Equipment:        models.Equipment{ModelNumber: "MX-1"},
			InstallationDate: datePtr(2020, 1, 10),
			WarrantyEndDate:  datePtr(2021, 1, 10),
			ServiceStatus:    models.ServiceStatusAMC,
			ServiceStartDate: datePtr(2024, 1, 1),
			ServiceEndDate:   datePtr(2024, 12, 31),
		},
		{
			ID:               "r2",
			CustomerID:       "c2",
			EquipmentID:      "e2",
			SerialNo:         "SN-200",
			Equipment:        models.Equipment{ModelNumber: "MX-2"},
			InstallationDate: datePtr(2023, 11, 5),
			WarrantyEndDate:  datePtr(2024, 11, 5),
			ServiceStatus:    models.ServiceStatusWarranty,
			ServiceStartDate: datePtr(2023, 11, 5),
			ServiceEndDate:   datePtr(2024, 2, 1),
		},
		{
			ID:            "r3",
			CustomerID:    "c1",
			EquipmentID:   "e3",
			SerialNo:      "SN-300",
			Equipment:     models.Equipment{ModelNumber: "MX-3"},
			ServiceStatus: models.ServiceStatusCalibration,
		},
	}
}

func TestFilterMaintenanceRecordsAt(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	records := filterFixture()

	t.Run("Empty filters match everything", func(t *testing.T) {
		result := FilterMaintenanceRecordsAt(records, MaintenanceFilters{}, now)
		assert.Len(t, result, 3)
	})

	t.Run("Customer filter", func(t *testing.T) {
		result := FilterMaintenanceRecordsAt(records, MaintenanceFilters{CustomerIDs: []string{"c1"}}, now)
		assert.Len(t, result, 2)
		assert.Equal(t, "r1", result[0].ID)
		assert.Equal(t, "r3", result[1].ID)
	})

	t.Run("Serial number comma list is exact membership", func(t *testing.T) {
		result := FilterMaintenanceRecordsAt(records, MaintenanceFilters{SerialNo: "SN-100,SN-300"}, now)
		assert.Len(t, result, 2)

		// Partial values do not match
		result = FilterMaintenanceRecordsAt(records, MaintenanceFilters{SerialNo: "SN-1"}, now)
		assert.Empty(t, result)
	})

	t.Run("Model number matched through the catalog entry", func(t *testing.T) {
		result := FilterMaintenanceRecordsAt(records, MaintenanceFilters{ModelNumber: "MX-2"}, now)
		assert.Len(t, result, 1)
		assert.Equal(t, "r2", result[0].ID)
	})

	t.Run("Date range excludes records missing the date", func(t *testing.T) {
		filters := MaintenanceFilters{
			InstallationDateRange: DateRange{Start: datePtr(2019, 1, 1)},
		}
		result := FilterMaintenanceRecordsAt(records, filters, now)
		assert.Len(t, result, 2) // r3 has no installation date
	})

	t.Run("Date range end is inclusive of the whole day", func(t *testing.T) {
		filters := MaintenanceFilters{
			InstallationDateRange: DateRange{End: datePtr(2020, 1, 10)},
		}
		result := FilterMaintenanceRecordsAt(records, filters, now)
		assert.Len(t, result, 1)
		assert.Equal(t, "r1", result[0].ID)
	})

	t.Run("Record status expired", func(t *testing.T) {
		result := FilterMaintenanceRecordsAt(records, MaintenanceFilters{RecordStatuses: []string{models.RecordStatusExpired}}, now)
		assert.Len(t, result, 1)
		assert.Equal(t, "r2", result[0].ID)
	})

	t.Run("Record status active includes records without an end date", func(t *testing.T) {
		result := FilterMaintenanceRecordsAt(records, MaintenanceFilters{RecordStatuses: []string{models.RecordStatusActive}}, now)
		assert.Len(t, result, 2)
	})

	t.Run("Criteria compose with AND", func(t *testing.T) {
		filters := MaintenanceFilters{
			CustomerIDs:     []string{"c1"},
			ServiceStatuses: []string{models.ServiceStatusAMC},
		}
		result := FilterMaintenanceRecordsAt(records, filters, now)
		assert.Len(t, result, 1)
		assert.Equal(t, "r1", result[0].ID)
	})

	t.Run("Filtering is idempotent and order preserving", func(t *testing.T) {
		filters := MaintenanceFilters{CustomerIDs: []string{"c1", "c2"}}
		once := FilterMaintenanceRecordsAt(records, filters, now)
		twice := FilterMaintenanceRecordsAt(once, filters, now)
		assert.Equal(t, once, twice)
		assert.Equal(t, "r1", once[0].ID)
		assert.Equal(t, "r2", once[1].ID)
		assert.Equal(t, "r3", once[2].ID)
	})

	t.Run("Input slice is not mutated", func(t *testing.T) {
		before := filterFixture()
		FilterMaintenanceRecordsAt(records, MaintenanceFilters{CustomerIDs: []string{"c2"}}, now)
		assert.Equal(t, before, records)
	})
}

func TestAgeRangeFilter(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	recordAged := func(months int) models.MaintenanceRecord {
		installed := now.AddDate(0, -months, 0)
		return models.MaintenanceRecord{InstallationDate: &installed}
	}

	t.Run("Zero-min bucket excludes the upper bound", func(t *testing.T) {
		filters := MaintenanceFilters{AgeRange: &AgeRange{MinYears: floatPtr(0), MaxYears: floatPtr(1)}}

		under := []models.MaintenanceRecord{recordAged(11)}
		assert.Len(t, FilterMaintenanceRecordsAt(under, filters, now), 1)

		exactly := []models.MaintenanceRecord{recordAged(12)}
		assert.Empty(t, FilterMaintenanceRecordsAt(exactly, filters, now))
	})

	t.Run("Non-zero min keeps the upper bound inclusive", func(t *testing.T) {
		filters := MaintenanceFilters{AgeRange: &AgeRange{MinYears: floatPtr(1), MaxYears: floatPtr(3)}}

		exactly := []models.MaintenanceRecord{recordAged(36)}
		assert.Len(t, FilterMaintenanceRecordsAt(exactly, filters, now), 1)

		over := []models.MaintenanceRecord{recordAged(37)}
		assert.Empty(t, FilterMaintenanceRecordsAt(over, filters, now))
	})

	t.Run("Max-only range is inclusive", func(t *testing.T) {
		filters := MaintenanceFilters{AgeRange: &AgeRange{MaxYears: floatPtr(3)}}
		exactly := []models.MaintenanceRecord{recordAged(36)}
		assert.Len(t, FilterMaintenanceRecordsAt(exactly, filters, now), 1)
	})

	t.Run("Missing installation date fails an active age filter", func(t *testing.T) {
		filters := MaintenanceFilters{AgeRange: &AgeRange{MinYears: floatPtr(0)}}
		records := []models.MaintenanceRecord{{}}
		assert.Empty(t, FilterMaintenanceRecordsAt(records, filters, now))
	})

	t.Run("Empty age range matches everything", func(t *testing.T) {
		filters := MaintenanceFilters{AgeRange: &AgeRange{}}
		records := []models.MaintenanceRecord{{}}
		assert.Len(t, FilterMaintenanceRecordsAt(records, filters, now), 1)
	})
}
