package jobs

import (
	"log"
	"time"

	"medequip_app_go/config"
	"medequip_app_go/models"
	"medequip_app_go/services"

	"gorm.io/gorm"
)

// SendContractReminders emails the customer's bio-medical department for
// every billing-period contract ending within the configured lead window
// that has not been reminded yet.
func SendContractReminders(database *gorm.DB, cfg *config.Config) {
	log.Println("Starting contract reminder job...")

	now := time.Now().UTC()
	windowEnd := services.StartOfDay(now).AddDate(0, 0, cfg.ReminderLeadDays)

	var records []models.MaintenanceRecord

	// Contracts that:
	// 1. Carry a billing period (WARRANTY / AMC / CAMC)
	// 2. End between now and the lead window
	// 3. Have not been reminded for the current term
	err := database.Preload("Customer").Preload("Equipment").
		Where("service_status IN (?)", []string{
			models.ServiceStatusWarranty, models.ServiceStatusAMC, models.ServiceStatusCAMC,
		}).
		Where("service_end_date IS NOT NULL AND service_end_date >= ? AND service_end_date <= ?", services.StartOfDay(now), windowEnd).
		Where("reminder_sent_at IS NULL").
		Find(&records).Error

	if err != nil {
		log.Printf("Error fetching records for reminders: %v", err)
		return
	}

	log.Printf("Found %d contracts to remind", len(records))

	for i := range records {
		record := &records[i]
		if record.Customer.BioMedicalEmail == "" {
			log.Printf("Skipping reminder for record %s: customer has no bio-medical email", record.ID)
			continue
		}

		daysLeft := int(record.ServiceEndDate.Sub(services.StartOfDay(now)).Hours() / 24)

		email := services.BuildContractReminderEmail(record.Customer.BioMedicalEmail, services.ContractReminderEmailData{
			CustomerName:  record.Customer.Name,
			HODName:       record.Customer.BioMedicalHODName,
			EquipmentName: record.Equipment.Name,
			ModelNumber:   record.Equipment.ModelNumber,
			SerialNo:      record.SerialNo,
			ServiceStatus: record.ServiceStatus,
			EndDate:       record.ServiceEndDate.Format("2006-01-02"),
			DaysLeft:      daysLeft,
		})

		if err := services.SendEmail(cfg, email); err != nil {
			log.Printf("Failed to send reminder for record %s: %v", record.ID, err)
			continue
		}

		sentAt := time.Now().UTC()
		database.Model(record).Update("reminder_sent_at", sentAt)
		log.Printf("Sent contract reminder for record %s", record.ID)
	}

	log.Println("Contract reminder job completed")
}
