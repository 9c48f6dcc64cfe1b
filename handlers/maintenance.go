package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"medequip_app_go/db"
	"medequip_app_go/middleware"
	"medequip_app_go/models"
	"medequip_app_go/services"

	"github.com/labstack/echo/v4"
)

const (
	defaultPageSize = 25
	maxPageSize     = 200
)

// maintenanceRequest is the add/edit submission. Dates arrive as YYYY-MM-DD
// strings from the date inputs.
type maintenanceRequest struct {
	CustomerID             string  `json:"customer_id"`
	EquipmentID            string  `json:"equipment_id"`
	SerialNo               string  `json:"serial_no"`
	InstallationDate       string  `json:"installation_date"`
	WarrantyEndDate        string  `json:"warranty_end_date"`
	EquipmentPurchaseValue float64 `json:"equipment_purchase_value"`
	ServiceStatus          string  `json:"service_status"`
	ServiceStartDate       string  `json:"service_start_date"`
	ServiceEndDate         string  `json:"service_end_date"`
	InvoiceNumber          string  `json:"invoice_number"`
	InvoiceDate            string  `json:"invoice_date"`
	Amount                 float64 `json:"amount"`
	Notes                  string  `json:"notes"`

	// Present only when saving a renewal draft: the history including the
	// just-archived term, as returned by the renewal-draft endpoint.
	ServiceContracts *[]models.ServiceContract `json:"service_contracts"`
}

func (r *maintenanceRequest) apply(record *models.MaintenanceRecord) error {
	record.CustomerID = r.CustomerID
	record.EquipmentID = r.EquipmentID
	record.SerialNo = services.SanitizeText(r.SerialNo)
	record.EquipmentPurchaseValue = r.EquipmentPurchaseValue
	record.ServiceStatus = r.ServiceStatus
	record.InvoiceNumber = services.SanitizeText(r.InvoiceNumber)
	record.Amount = r.Amount
	record.Notes = services.SanitizeText(r.Notes)

	for _, d := range []struct {
		value string
		dest  **time.Time
	}{
		{r.InstallationDate, &record.InstallationDate},
		{r.WarrantyEndDate, &record.WarrantyEndDate},
		{r.ServiceStartDate, &record.ServiceStartDate},
		{r.ServiceEndDate, &record.ServiceEndDate},
		{r.InvoiceDate, &record.InvoiceDate},
	} {
		if d.value == "" {
			*d.dest = nil
			continue
		}
		parsed, err := services.ParseDate(d.value)
		if err != nil {
			return err
		}
		*d.dest = &parsed
	}

	if r.ServiceContracts != nil {
		record.ServiceContracts = *r.ServiceContracts
	}
	return nil
}

// maintenanceRecordView decorates a record with the derived display fields
// the list needs: expiry, formatted age and the next scheduled visit.
type maintenanceRecordView struct {
	models.MaintenanceRecord
	IsExpired bool   `json:"is_expired"`
	Age       string `json:"age"`
	NextVisit string `json:"next_visit"`
}

func decorateRecord(record models.MaintenanceRecord, now time.Time) maintenanceRecordView {
	view := maintenanceRecordView{
		MaintenanceRecord: record,
		IsExpired:         services.IsRecordExpiredAt(&record, now),
		NextVisit:         services.NextVisitDateAt(record.Visits, now),
	}
	if record.InstallationDate != nil {
		view.Age = services.FormatAge(*record.InstallationDate, now)
	}
	return view
}

// parseMaintenanceFilters reads the filter criteria from query parameters.
// Absent parameters mean no constraint on that criterion.
func parseMaintenanceFilters(c echo.Context) (services.MaintenanceFilters, error) {
	var filters services.MaintenanceFilters

	filters.CustomerIDs = splitParam(c.QueryParam("customer_ids"))
	filters.EquipmentIDs = splitParam(c.QueryParam("equipment_ids"))
	filters.SerialNo = c.QueryParam("serial_no")
	filters.ModelNumber = c.QueryParam("model_number")
	filters.ServiceStatuses = splitParam(c.QueryParam("service_statuses"))
	filters.RecordStatuses = splitParam(c.QueryParam("record_statuses"))

	for _, r := range []struct {
		start, end string
		dest       *services.DateRange
	}{
		{"installation_date_start", "installation_date_end", &filters.InstallationDateRange},
		{"warranty_end_date_start", "warranty_end_date_end", &filters.WarrantyEndDateRange},
		{"service_start_date_start", "service_start_date_end", &filters.ServiceStartDateRange},
		{"service_end_date_start", "service_end_date_end", &filters.ServiceEndDateRange},
	} {
		start, err := parseDateParam(c, r.start)
		if err != nil {
			return filters, err
		}
		end, err := parseDateParam(c, r.end)
		if err != nil {
			return filters, err
		}
		r.dest.Start = start
		r.dest.End = end
	}

	ageMin, err := parseFloatParam(c, "age_min")
	if err != nil {
		return filters, err
	}
	ageMax, err := parseFloatParam(c, "age_max")
	if err != nil {
		return filters, err
	}
	if ageMin != nil || ageMax != nil {
		filters.AgeRange = &services.AgeRange{MinYears: ageMin, MaxYears: ageMax}
	}

	return filters, nil
}

func splitParam(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, ",")
}

func parseDateParam(c echo.Context, name string) (*time.Time, error) {
	value := c.QueryParam(name)
	if value == "" {
		return nil, nil
	}
	parsed, err := services.ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseFloatParam(c echo.Context, name string) (*float64, error) {
	value := c.QueryParam(name)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, errors.New("invalid number for " + name)
	}
	return &parsed, nil
}

// ListMaintenanceRecordsHandler returns the filtered, decorated, paginated
// record list. Filtering runs in memory over the full set so the criteria
// match the export and reminder paths exactly.
func ListMaintenanceRecordsHandler(c echo.Context) error {
	filters, err := parseMaintenanceFilters(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	records, err := services.GetMaintenanceRecords(db.DB)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch maintenance records")
	}

	now := time.Now()
	filtered := services.FilterMaintenanceRecordsAt(records, filters, now)

	page := 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	limit := defaultPageSize
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l > 0 && l <= maxPageSize {
		limit = l
	}

	total := len(filtered)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	views := make([]maintenanceRecordView, 0, end-start)
	for _, record := range filtered[start:end] {
		views = append(views, decorateRecord(record, now))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"records": views,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// GetMaintenanceRecordHandler returns a single decorated record
func GetMaintenanceRecordHandler(c echo.Context) error {
	record, err := services.GetMaintenanceRecordByID(db.DB, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Maintenance record not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch maintenance record")
	}
	return c.JSON(http.StatusOK, decorateRecord(*record, time.Now()))
}

// CreateMaintenanceRecordHandler creates a new record
func CreateMaintenanceRecordHandler(c echo.Context) error {
	var req maintenanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	var record models.MaintenanceRecord
	if err := req.apply(&record); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := services.CreateMaintenanceRecord(db.DB, &record); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := services.GetMaintenanceRecordByID(db.DB, record.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch created record")
	}
	return c.JSON(http.StatusCreated, decorateRecord(*created, time.Now()))
}

// UpdateMaintenanceRecordHandler edits a record. Expired records are frozen
// for regular users; admins may still edit them, which is also how a renewal
// draft for a lapsed contract gets saved.
func UpdateMaintenanceRecordHandler(c echo.Context) error {
	record, err := services.GetMaintenanceRecordByID(db.DB, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Maintenance record not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch maintenance record")
	}

	user := middleware.GetCurrentUser(c)
	if services.IsRecordExpired(record) && (user == nil || !user.IsAdmin()) {
		return echo.NewHTTPError(http.StatusForbidden, services.ErrRecordExpired.Error())
	}

	var req maintenanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := req.apply(record); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := services.UpdateMaintenanceRecord(db.DB, record); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := services.GetMaintenanceRecordByID(db.DB, record.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch updated record")
	}
	return c.JSON(http.StatusOK, decorateRecord(*updated, time.Now()))
}

// GetRenewalDraftHandler returns the renewal transform of a record: the live
// contract archived into the history and the live fields blanked. Nothing is
// persisted; the client saves the draft through the normal edit endpoint.
func GetRenewalDraftHandler(c echo.Context) error {
	record, err := services.GetMaintenanceRecordByID(db.DB, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Maintenance record not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch maintenance record")
	}
	return c.JSON(http.StatusOK, services.BuildRenewalDraft(record))
}

// DeleteMaintenanceRecordHandler removes a record and its visits. Routed
// admin-only.
func DeleteMaintenanceRecordHandler(c echo.Context) error {
	err := services.DeleteMaintenanceRecord(db.DB, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Maintenance record not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete maintenance record")
	}
	return c.NoContent(http.StatusNoContent)
}
