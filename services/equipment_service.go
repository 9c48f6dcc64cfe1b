package services

import (
	"errors"
	"fmt"
	"strings"

	"medequip_app_go/models"

	"gorm.io/gorm"
)

// Equipment errors
var (
	ErrEquipmentNotFound = errors.New("equipment not found")
	ErrEquipmentInUse    = errors.New("equipment is referenced by maintenance records and cannot be deleted")
)

// GetEquipment fetches the full equipment catalog ordered by name
func GetEquipment(db *gorm.DB) ([]models.Equipment, error) {
	var equipment []models.Equipment
	err := db.Order("name asc").Find(&equipment).Error
	return equipment, err
}

// GetEquipmentByID fetches a single catalog entry
func GetEquipmentByID(db *gorm.DB, id string) (*models.Equipment, error) {
	var equipment models.Equipment
	if err := db.First(&equipment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEquipmentNotFound
		}
		return nil, fmt.Errorf("failed to fetch equipment: %w", err)
	}
	return &equipment, nil
}

// ValidateEquipment checks required fields with a single aggregate error
func ValidateEquipment(equipment *models.Equipment) error {
	var missing []string
	if equipment.Name == "" {
		missing = append(missing, "name")
	}
	if equipment.ModelNumber == "" {
		missing = append(missing, "model number")
	}
	if len(missing) > 0 {
		return fmt.Errorf("please fill in all required fields: %s", joinMissing(missing))
	}
	return nil
}

// CreateEquipment validates and persists a new catalog entry
func CreateEquipment(db *gorm.DB, equipment *models.Equipment) error {
	if err := ValidateEquipment(equipment); err != nil {
		return err
	}
	return db.Create(equipment).Error
}

// UpdateEquipment validates and saves an edited catalog entry
func UpdateEquipment(db *gorm.DB, equipment *models.Equipment) error {
	if err := ValidateEquipment(equipment); err != nil {
		return err
	}
	return db.Model(equipment).
		Select("name", "model_number", "notes").
		Updates(equipment).Error
}

// DeleteEquipment removes a catalog entry unless maintenance records reference it
func DeleteEquipment(db *gorm.DB, id string) error {
	count, err := CountMaintenanceReferences(db, "equipment_id", id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrEquipmentInUse
	}

	result := db.Unscoped().Where("id = ?", id).Delete(&models.Equipment{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete equipment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrEquipmentNotFound
	}
	return nil
}

func joinMissing(missing []string) string {
	return strings.Join(missing, ", ")
}
