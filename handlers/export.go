package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"medequip_app_go/db"
	"medequip_app_go/services"

	"github.com/labstack/echo/v4"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler streams the three-sheet workbook as a download. The
// maintenance sheet honors the same filter query parameters as the list
// endpoint, and active criteria are written as a header block on the sheet.
// A copy is archived to the configured storage; archive failures are logged
// and never block the download.
func ExportHandler(c echo.Context) error {
	filters, err := parseMaintenanceFilters(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	customers, err := services.GetCustomers(db.DB)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch customers")
	}
	equipment, err := services.GetEquipment(db.DB)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch equipment")
	}
	records, err := services.GetMaintenanceRecords(db.DB)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch maintenance records")
	}

	now := time.Now()
	filtered := services.FilterMaintenanceRecordsAt(records, filters, now)

	f, err := services.BuildExportWorkbook(customers, equipment, filtered, filters, now)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to build export")
	}

	fileName := services.ExportFileName(now)

	if _, err := services.ArchiveWorkbook(c.Request().Context(), f, "exports/"+fileName); err != nil {
		log.Printf("[WARNING] Failed to archive export %s: %v", fileName, err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to serialize export")
	}

	c.Response().Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
