package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"medequip_app_go/models"

	"github.com/xuri/excelize/v2"
)

const exportDateLayout = "2006-01-02"

// ExportFileName builds the timestamped workbook name
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("Exported_Data_%s.xlsx", now.Format("2006-01-02T15:04:05"))
}

// BuildExportWorkbook assembles the three-sheet export: customers, the
// equipment catalog, and the (already filtered) maintenance records. When
// filter criteria are active they are written as a header block on the
// maintenance sheet so printed reports carry their own context.
func BuildExportWorkbook(customers []models.Customer, equipment []models.Equipment, records []models.MaintenanceRecord, filters MaintenanceFilters, now time.Time) (*excelize.File, error) {
	f := excelize.NewFile()

	f.SetSheetName("Sheet1", "Customers")
	if err := writeCustomersSheet(f, customers); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet("Equipment"); err != nil {
		return nil, err
	}
	if err := writeEquipmentSheet(f, equipment); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet("Maintenance"); err != nil {
		return nil, err
	}
	if err := writeMaintenanceSheet(f, records, filters, now); err != nil {
		return nil, err
	}

	return f, nil
}

func writeCustomersSheet(f *excelize.File, customers []models.Customer) error {
	sheet := "Customers"
	headers := []string{"Name", "Bio Medical Email", "Bio Medical Contact", "Bio Medical HOD Name", "Notes"}
	if err := writeRow(f, sheet, 1, stringRow(headers...)); err != nil {
		return err
	}
	for i, c := range customers {
		row := []interface{}{c.Name, c.BioMedicalEmail, c.BioMedicalContact, c.BioMedicalHODName, derefString(c.Notes)}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeEquipmentSheet(f *excelize.File, equipment []models.Equipment) error {
	sheet := "Equipment"
	if err := writeRow(f, sheet, 1, stringRow("Name", "Model Number", "Notes")); err != nil {
		return err
	}
	for i, e := range equipment {
		row := []interface{}{e.Name, e.ModelNumber, derefString(e.Notes)}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeMaintenanceSheet(f *excelize.File, records []models.MaintenanceRecord, filters MaintenanceFilters, now time.Time) error {
	sheet := "Maintenance"
	rowNum := 1

	// Criteria header block for filtered reports
	summary := FilterSummary(filters)
	if len(summary) > 0 {
		if err := writeRow(f, sheet, rowNum, stringRow("Filters applied:")); err != nil {
			return err
		}
		rowNum++
		for _, line := range summary {
			if err := writeRow(f, sheet, rowNum, stringRow(line)); err != nil {
				return err
			}
			rowNum++
		}
		rowNum++ // blank separator row
	}

	headers := []string{
		"Customer Name", "Equipment Name", "Model Number", "Serial Number",
		"Installation Date", "Age", "Warranty End Date", "Service Status",
		"Service Start Date", "Service End Date", "Record Status", "Notes",
	}
	if err := writeRow(f, sheet, rowNum, stringRow(headers...)); err != nil {
		return err
	}
	rowNum++

	for i := range records {
		r := &records[i]
		age := ""
		if r.InstallationDate != nil {
			age = FormatAge(*r.InstallationDate, now)
		}
		recordStatus := models.RecordStatusActive
		if IsRecordExpiredAt(r, now) {
			recordStatus = models.RecordStatusExpired
		}
		row := []interface{}{
			r.Customer.Name, r.Equipment.Name, r.Equipment.ModelNumber, r.SerialNo,
			formatDate(r.InstallationDate), age, formatDate(r.WarrantyEndDate), r.ServiceStatus,
			formatDate(r.ServiceStartDate), formatDate(r.ServiceEndDate), recordStatus, r.Notes,
		}
		if err := writeRow(f, sheet, rowNum, row); err != nil {
			return err
		}
		rowNum++
	}
	return nil
}

// FilterSummary renders the active criteria as human-readable lines for
// report headers. An empty slice means no filters were applied.
func FilterSummary(filters MaintenanceFilters) []string {
	var lines []string
	if len(filters.CustomerIDs) > 0 {
		lines = append(lines, fmt.Sprintf("Customers: %d selected", len(filters.CustomerIDs)))
	}
	if len(filters.EquipmentIDs) > 0 {
		lines = append(lines, fmt.Sprintf("Equipment: %d selected", len(filters.EquipmentIDs)))
	}
	if filters.SerialNo != "" {
		lines = append(lines, "Serial numbers: "+filters.SerialNo)
	}
	if filters.ModelNumber != "" {
		lines = append(lines, "Model numbers: "+filters.ModelNumber)
	}
	if line := rangeSummary("Installation date", filters.InstallationDateRange); line != "" {
		lines = append(lines, line)
	}
	if line := rangeSummary("Warranty end date", filters.WarrantyEndDateRange); line != "" {
		lines = append(lines, line)
	}
	if line := rangeSummary("Service start date", filters.ServiceStartDateRange); line != "" {
		lines = append(lines, line)
	}
	if line := rangeSummary("Service end date", filters.ServiceEndDateRange); line != "" {
		lines = append(lines, line)
	}
	if len(filters.ServiceStatuses) > 0 {
		lines = append(lines, "Service statuses: "+strings.Join(filters.ServiceStatuses, ", "))
	}
	if len(filters.RecordStatuses) > 0 {
		lines = append(lines, "Record statuses: "+strings.Join(filters.RecordStatuses, ", "))
	}
	if filters.AgeRange != nil && (filters.AgeRange.MinYears != nil || filters.AgeRange.MaxYears != nil) {
		min, max := "-", "-"
		if filters.AgeRange.MinYears != nil {
			min = fmt.Sprintf("%g", *filters.AgeRange.MinYears)
		}
		if filters.AgeRange.MaxYears != nil {
			max = fmt.Sprintf("%g", *filters.AgeRange.MaxYears)
		}
		lines = append(lines, fmt.Sprintf("Age (years): %s to %s", min, max))
	}
	return lines
}

func rangeSummary(label string, r DateRange) string {
	if r.IsZero() {
		return ""
	}
	start, end := "-", "-"
	if r.Start != nil {
		start = r.Start.Format(exportDateLayout)
	}
	if r.End != nil {
		end = r.End.Format(exportDateLayout)
	}
	return fmt.Sprintf("%s: %s to %s", label, start, end)
}

// ArchiveWorkbook stores a copy of the generated workbook via the configured
// archive provider. Failures are reported but should not block the download.
func ArchiveWorkbook(ctx context.Context, f *excelize.File, key string) (*StorageResult, error) {
	if Storage == nil {
		return nil, fmt.Errorf("storage not initialized")
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return Storage.UploadReader(ctx, bytes.NewReader(buf.Bytes()), key,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", int64(buf.Len()))
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func stringRow(values ...string) []interface{} {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(exportDateLayout)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
