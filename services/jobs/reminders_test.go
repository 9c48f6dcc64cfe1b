package jobs

import (
	"testing"
	"time"

	"medequip_app_go/config"
	"medequip_app_go/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupJobDB(t *testing.T) *gorm.DB {
	dbName := "mem_" + uuid.New().String()
	database, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	assert.NoError(t, err)

	err = database.AutoMigrate(
		&models.Customer{},
		&models.Equipment{},
		&models.MaintenanceRecord{},
		&models.Visit{},
	)
	assert.NoError(t, err)
	return database
}

func seedContract(t *testing.T, database *gorm.DB, status string, endDate time.Time, email string) *models.MaintenanceRecord {
	customer := &models.Customer{
		Name:              "City Hospital",
		BioMedicalEmail:   email,
		BioMedicalContact: "555-0100",
		BioMedicalHODName: "Dr. Rao",
	}
	assert.NoError(t, database.Create(customer).Error)

	equipment := &models.Equipment{Name: "Ventilator", ModelNumber: "VT-900"}
	assert.NoError(t, database.Create(equipment).Error)

	start := endDate.AddDate(-1, 0, 0)
	record := &models.MaintenanceRecord{
		CustomerID:       customer.ID,
		EquipmentID:      equipment.ID,
		SerialNo:         "SN-" + uuid.New().String()[:8],
		InstallationDate: &start,
		WarrantyEndDate:  &start,
		ServiceStatus:    status,
		ServiceStartDate: &start,
		ServiceEndDate:   &endDate,
		InvoiceNumber:    "INV-1",
		InvoiceDate:      &start,
		Amount:           1000,
		ServiceContracts: []models.ServiceContract{},
	}
	assert.NoError(t, database.Create(record).Error)
	return record
}

func TestSendContractReminders(t *testing.T) {
	cfg := &config.Config{
		EmailTestMode:    true,
		EmailFrom:        "noreply@test.example.com",
		EmailFromName:    "Test",
		ReminderLeadDays: 30,
	}

	t.Run("Contract inside the lead window is stamped", func(t *testing.T) {
		database := setupJobDB(t)
		record := seedContract(t, database, models.ServiceStatusAMC, time.Now().UTC().AddDate(0, 0, 10), "biomed@city.example.com")

		SendContractReminders(database, cfg)

		var stored models.MaintenanceRecord
		assert.NoError(t, database.First(&stored, "id = ?", record.ID).Error)
		assert.NotNil(t, stored.ReminderSentAt)
	})

	t.Run("Already-reminded contracts are skipped", func(t *testing.T) {
		database := setupJobDB(t)
		record := seedContract(t, database, models.ServiceStatusAMC, time.Now().UTC().AddDate(0, 0, 10), "biomed@city.example.com")

		sent := time.Now().UTC().AddDate(0, 0, -3)
		assert.NoError(t, database.Model(record).Update("reminder_sent_at", sent).Error)

		SendContractReminders(database, cfg)

		var stored models.MaintenanceRecord
		assert.NoError(t, database.First(&stored, "id = ?", record.ID).Error)
		assert.Equal(t, sent.Unix(), stored.ReminderSentAt.Unix())
	})

	t.Run("Contracts outside the window are not touched", func(t *testing.T) {
		database := setupJobDB(t)
		record := seedContract(t, database, models.ServiceStatusCAMC, time.Now().UTC().AddDate(0, 2, 0), "biomed@city.example.com")

		SendContractReminders(database, cfg)

		var stored models.MaintenanceRecord
		assert.NoError(t, database.First(&stored, "id = ?", record.ID).Error)
		assert.Nil(t, stored.ReminderSentAt)
	})

	t.Run("Customer without an email is skipped but not stamped", func(t *testing.T) {
		database := setupJobDB(t)
		record := seedContract(t, database, models.ServiceStatusWarranty, time.Now().UTC().AddDate(0, 0, 5), "")

		SendContractReminders(database, cfg)

		var stored models.MaintenanceRecord
		assert.NoError(t, database.First(&stored, "id = ?", record.ID).Error)
		assert.Nil(t, stored.ReminderSentAt)
	})
}
