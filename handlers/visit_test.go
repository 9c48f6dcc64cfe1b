package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"medequip_app_go/models"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestCreateVisitHandler(t *testing.T) {
	database := setupTestDB(t)
	customer := createTestCustomer(t, database)
	equipment := createTestEquipment(t, database)
	record := createTestRecord(t, database, customer, equipment, time.Now().AddDate(0, 6, 0))

	t.Run("Scheduled visit is created with defaults", func(t *testing.T) {
		future := time.Now().AddDate(0, 1, 0).Format("2006-01-02")
		body := fmt.Sprintf(`{"visit_status":"Scheduled","scheduled_date":%q,"work_done":"should be dropped"}`, future)

		_, c, rec := setupEcho(http.MethodPost, "/api/maintenance/"+record.ID+"/visits", strings.NewReader(body))
		c.SetParamNames("id")
		c.SetParamValues(record.ID)
		actAs(c, models.RoleUser)

		err := CreateVisitHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp struct {
			Visit  models.Visit   `json:"visit"`
			Visits []models.Visit `json:"visits"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Nil(t, resp.Visit.WorkDone)
		assert.Equal(t, models.DefaultEquipmentStatus, *resp.Visit.EquipmentStatus)
		assert.Len(t, resp.Visits, 1)
	})

	t.Run("Past date on create is rejected", func(t *testing.T) {
		past := time.Now().AddDate(0, 0, -5).Format("2006-01-02")
		body := fmt.Sprintf(`{"visit_status":"Scheduled","scheduled_date":%q}`, past)

		_, c, _ := setupEcho(http.MethodPost, "/api/maintenance/"+record.ID+"/visits", strings.NewReader(body))
		c.SetParamNames("id")
		c.SetParamValues(record.ID)
		actAs(c, models.RoleUser)

		err := CreateVisitHandler(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
		assert.Contains(t, httpErr.Message, "cannot be in the past")
	})

	t.Run("Attended visit requires the full report", func(t *testing.T) {
		today := time.Now().Format("2006-01-02")
		body := fmt.Sprintf(`{"visit_status":"Attended","visit_date":%q}`, today)

		_, c, _ := setupEcho(http.MethodPost, "/api/maintenance/"+record.ID+"/visits", strings.NewReader(body))
		c.SetParamNames("id")
		c.SetParamValues(record.ID)
		actAs(c, models.RoleUser)

		err := CreateVisitHandler(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
		assert.Contains(t, httpErr.Message, "work done")
	})

	t.Run("Regular user cannot log visits on an expired record", func(t *testing.T) {
		expiredRecord := createTestRecord(t, database, customer, equipment, time.Now().AddDate(0, 0, -10))
		future := time.Now().AddDate(0, 1, 0).Format("2006-01-02")
		body := fmt.Sprintf(`{"visit_status":"Scheduled","scheduled_date":%q}`, future)

		_, c, _ := setupEcho(http.MethodPost, "/api/maintenance/"+expiredRecord.ID+"/visits", strings.NewReader(body))
		c.SetParamNames("id")
		c.SetParamValues(expiredRecord.ID)
		actAs(c, models.RoleUser)

		err := CreateVisitHandler(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusForbidden, httpErr.Code)
	})

	t.Run("Unknown record is a 404", func(t *testing.T) {
		_, c, _ := setupEcho(http.MethodPost, "/api/maintenance/missing/visits", strings.NewReader(`{}`))
		c.SetParamNames("id")
		c.SetParamValues("missing")
		actAs(c, models.RoleUser)

		err := CreateVisitHandler(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
	})
}

func TestUpdateVisitHandler(t *testing.T) {
	database := setupTestDB(t)
	customer := createTestCustomer(t, database)
	equipment := createTestEquipment(t, database)
	record := createTestRecord(t, database, customer, equipment, time.Now().AddDate(0, 6, 0))

	lockedDate := time.Now().AddDate(0, 0, -5)
	locked := &models.Visit{
		MaintenanceRecordID: record.ID,
		VisitStatus:         models.VisitStatusAttended,
		VisitDate:           &lockedDate,
		WorkDone:            stringToPtr("Calibration check"),
		AttendedBy:          stringToPtr("R. Kumar"),
		EquipmentStatus:     stringToPtr("Working"),
	}
	assert.NoError(t, database.Create(locked).Error)

	body := fmt.Sprintf(`{"visit_status":"Closed","visit_date":%q,"work_done":"Closed out","attended_by":"R. Kumar","equipment_status":"Working"}`,
		lockedDate.Format("2006-01-02"))

	t.Run("Regular user is blocked on a locked visit", func(t *testing.T) {
		_, c, _ := setupEcho(http.MethodPut, "/api/maintenance/"+record.ID+"/visits/"+locked.ID, strings.NewReader(body))
		c.SetParamNames("id", "visitId")
		c.SetParamValues(record.ID, locked.ID)
		actAs(c, models.RoleUser)

		err := UpdateVisitHandler(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusForbidden, httpErr.Code)
	})

	t.Run("Admin bypasses the lock", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodPut, "/api/maintenance/"+record.ID+"/visits/"+locked.ID, strings.NewReader(body))
		c.SetParamNames("id", "visitId")
		c.SetParamValues(record.ID, locked.ID)
		actAs(c, models.RoleAdmin)

		err := UpdateVisitHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Visit models.Visit `json:"visit"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, models.VisitStatusClosed, resp.Visit.VisitStatus)
	})

	t.Run("Visit under a different record is a 404", func(t *testing.T) {
		otherRecord := createTestRecord(t, database, customer, equipment, time.Now().AddDate(0, 6, 0))

		_, c, _ := setupEcho(http.MethodPut, "/api/maintenance/"+otherRecord.ID+"/visits/"+locked.ID, strings.NewReader(body))
		c.SetParamNames("id", "visitId")
		c.SetParamValues(otherRecord.ID, locked.ID)
		actAs(c, models.RoleAdmin)

		err := UpdateVisitHandler(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
	})

	t.Run("Reverting to Scheduled nulls the report", func(t *testing.T) {
		scheduledDate := time.Now().AddDate(0, 1, 0)
		visit := &models.Visit{
			MaintenanceRecordID: record.ID,
			VisitStatus:         models.VisitStatusAttended,
			VisitDate:           &scheduledDate,
			WorkDone:            stringToPtr("Initial report"),
			AttendedBy:          stringToPtr("R. Kumar"),
			EquipmentStatus:     stringToPtr("Working"),
		}
		assert.NoError(t, database.Create(visit).Error)

		revertBody := fmt.Sprintf(`{"visit_status":"Scheduled","scheduled_date":%q}`, scheduledDate.Format("2006-01-02"))
		_, c, rec := setupEcho(http.MethodPut, "/api/maintenance/"+record.ID+"/visits/"+visit.ID, strings.NewReader(revertBody))
		c.SetParamNames("id", "visitId")
		c.SetParamValues(record.ID, visit.ID)
		actAs(c, models.RoleUser)

		err := UpdateVisitHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var stored models.Visit
		assert.NoError(t, database.First(&stored, "id = ?", visit.ID).Error)
		assert.Equal(t, models.VisitStatusScheduled, stored.VisitStatus)
		assert.Nil(t, stored.WorkDone)
		assert.Nil(t, stored.VisitDate)
	})
}

func TestDeleteVisitHandler(t *testing.T) {
	database := setupTestDB(t)
	customer := createTestCustomer(t, database)
	equipment := createTestEquipment(t, database)
	record := createTestRecord(t, database, customer, equipment, time.Now().AddDate(0, 6, 0))

	scheduled := time.Now().AddDate(0, 1, 0)
	visit := &models.Visit{
		MaintenanceRecordID: record.ID,
		VisitStatus:         models.VisitStatusScheduled,
		ScheduledDate:       &scheduled,
	}
	assert.NoError(t, database.Create(visit).Error)

	_, c, rec := setupEcho(http.MethodDelete, "/api/maintenance/"+record.ID+"/visits/"+visit.ID, nil)
	c.SetParamNames("id", "visitId")
	c.SetParamValues(record.ID, visit.ID)
	actAs(c, models.RoleAdmin)

	err := DeleteVisitHandler(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var count int64
	database.Model(&models.Visit{}).Where("id = ?", visit.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}
