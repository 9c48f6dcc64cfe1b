package handlers

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"medequip_app_go/config"
	"medequip_app_go/db"
	"medequip_app_go/middleware"
	"medequip_app_go/models"
	"medequip_app_go/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Use unique shared memory name to isolate tests while allowing shared cache for async tasks
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	assert.NoError(t, err)

	// Initialize Storage for tests if not already set
	if services.Storage == nil {
		services.Storage = services.NewLocalStorage("tmp/test_exports")
	}

	err = testDB.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Customer{},
		&models.Equipment{},
		&models.MaintenanceRecord{},
		&models.Visit{},
	)
	assert.NoError(t, err)

	// Set global DB
	db.DB = testDB

	return testDB
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Add config to context
	c.Set("config", &config.Config{
		Environment: "test",
	})

	return e, c, rec
}

func actAs(c echo.Context, role string) *models.User {
	user := &models.User{
		ID:       uuid.New().String(),
		Name:     "Test " + role,
		Email:    role + "@test.example.com",
		Role:     role,
		IsActive: true,
	}
	c.Set(middleware.ContextKeyUser, user)
	return user
}

func createTestCustomer(t *testing.T, database *gorm.DB) *models.Customer {
	customer := &models.Customer{
		Name:              "City Hospital",
		BioMedicalEmail:   "biomed@city.example.com",
		BioMedicalContact: "555-0100",
		BioMedicalHODName: "Dr. Rao",
	}
	assert.NoError(t, database.Create(customer).Error)
	return customer
}

func createTestEquipment(t *testing.T, database *gorm.DB) *models.Equipment {
	equipment := &models.Equipment{
		Name:        "Ventilator",
		ModelNumber: "VT-900",
	}
	assert.NoError(t, database.Create(equipment).Error)
	return equipment
}

func createTestRecord(t *testing.T, database *gorm.DB, customer *models.Customer, equipment *models.Equipment, endDate time.Time) *models.MaintenanceRecord {
	installed := endDate.AddDate(-2, 0, 0)
	warranty := endDate.AddDate(-1, 0, 0)
	start := endDate.AddDate(-1, 0, 0)

	record := &models.MaintenanceRecord{
		CustomerID:       customer.ID,
		EquipmentID:      equipment.ID,
		SerialNo:         "SN-" + uuid.New().String()[:8],
		InstallationDate: &installed,
		WarrantyEndDate:  &warranty,
		ServiceStatus:    models.ServiceStatusAMC,
		ServiceStartDate: &start,
		ServiceEndDate:   &endDate,
		InvoiceNumber:    "INV-1",
		InvoiceDate:      &start,
		Amount:           1200,
		ServiceContracts: []models.ServiceContract{},
	}
	assert.NoError(t, database.Create(record).Error)
	return record
}

func stringToPtr(s string) *string {
	return &s
}
