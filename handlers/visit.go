package handlers

import (
	"errors"
	"net/http"
	"time"

	"medequip_app_go/db"
	"medequip_app_go/middleware"
	"medequip_app_go/models"
	"medequip_app_go/services"

	"github.com/labstack/echo/v4"
)

// visitRequest is the visit form submission. Dates arrive as YYYY-MM-DD
// strings; the report fields are optional and depend on the status.
type visitRequest struct {
	VisitStatus     string  `json:"visit_status"`
	ScheduledDate   string  `json:"scheduled_date"`
	VisitDate       string  `json:"visit_date"`
	WorkDone        *string `json:"work_done"`
	AttendedBy      *string `json:"attended_by"`
	EquipmentStatus *string `json:"equipment_status"`
	Comments        *string `json:"comments"`
}

func (r *visitRequest) apply(visit *models.Visit) error {
	visit.VisitStatus = r.VisitStatus
	visit.WorkDone = services.SanitizeTextPtr(r.WorkDone)
	visit.AttendedBy = services.SanitizeTextPtr(r.AttendedBy)
	visit.EquipmentStatus = services.SanitizeTextPtr(r.EquipmentStatus)
	visit.Comments = services.SanitizeTextPtr(r.Comments)

	for _, d := range []struct {
		value string
		dest  **time.Time
	}{
		{r.ScheduledDate, &visit.ScheduledDate},
		{r.VisitDate, &visit.VisitDate},
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
	return nil
}

// expiredRecordGate blocks visit mutations on expired records for regular
// users. The parent record must exist either way.
func expiredRecordGate(c echo.Context, recordID string) (*models.MaintenanceRecord, error) {
	record, err := services.GetMaintenanceRecordByID(db.DB, recordID)
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Maintenance record not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch maintenance record")
	}

	user := middleware.GetCurrentUser(c)
	if services.IsRecordExpired(record) && (user == nil || !user.IsAdmin()) {
		return nil, echo.NewHTTPError(http.StatusForbidden, services.ErrRecordExpired.Error())
	}
	return record, nil
}

// CreateVisitHandler logs a new visit under a maintenance record
func CreateVisitHandler(c echo.Context) error {
	record, err := expiredRecordGate(c, c.Param("id"))
	if err != nil {
		return err
	}

	var req visitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	visit := models.Visit{MaintenanceRecordID: record.ID}
	if err := req.apply(&visit); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := services.CreateVisit(db.DB, &visit); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"visit":  visit,
		"visits": services.MergeVisit(record.Visits, visit),
	})
}

// UpdateVisitHandler edits a visit. Past visits with a filed report lock for
// regular users; admins bypass the lock.
func UpdateVisitHandler(c echo.Context) error {
	record, err := expiredRecordGate(c, c.Param("id"))
	if err != nil {
		return err
	}

	visit, err := services.GetVisitByID(db.DB, c.Param("visitId"))
	if err != nil {
		if errors.Is(err, services.ErrVisitNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Visit not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch visit")
	}
	if visit.MaintenanceRecordID != record.ID {
		return echo.NewHTTPError(http.StatusNotFound, "Visit not found")
	}

	user := middleware.GetCurrentUser(c)
	role := ""
	if user != nil {
		role = user.Role
	}
	if !services.CanModifyVisit(visit, role) {
		return echo.NewHTTPError(http.StatusForbidden, services.ErrVisitLocked.Error())
	}

	var req visitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := req.apply(visit); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := services.UpdateVisit(db.DB, visit); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"visit":  visit,
		"visits": services.MergeVisit(record.Visits, *visit),
	})
}

// DeleteVisitHandler removes a visit. Routed admin-only.
func DeleteVisitHandler(c echo.Context) error {
	record, err := services.GetMaintenanceRecordByID(db.DB, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Maintenance record not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch maintenance record")
	}

	visitID := c.Param("visitId")
	if err := services.DeleteVisit(db.DB, visitID); err != nil {
		if errors.Is(err, services.ErrVisitNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Visit not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete visit")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"visits": services.RemoveVisit(record.Visits, visitID),
	})
}
