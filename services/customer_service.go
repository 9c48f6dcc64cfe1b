package services

import (
	"errors"
	"fmt"

	"medequip_app_go/models"

	"gorm.io/gorm"
)

// Customer errors
var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrCustomerInUse    = errors.New("customer is referenced by maintenance records and cannot be deleted")
)

// GetCustomers fetches all customers ordered by name
func GetCustomers(db *gorm.DB) ([]models.Customer, error) {
	var customers []models.Customer
	err := db.Order("name asc").Find(&customers).Error
	return customers, err
}

// GetCustomerByID fetches a single customer
func GetCustomerByID(db *gorm.DB, id string) (*models.Customer, error) {
	var customer models.Customer
	if err := db.First(&customer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to fetch customer: %w", err)
	}
	return &customer, nil
}

// ValidateCustomer checks required fields with a single aggregate error
func ValidateCustomer(customer *models.Customer) error {
	var missing []string
	if customer.Name == "" {
		missing = append(missing, "name")
	}
	if customer.BioMedicalEmail == "" {
		missing = append(missing, "bio medical email")
	}
	if customer.BioMedicalContact == "" {
		missing = append(missing, "bio medical contact")
	}
	if customer.BioMedicalHODName == "" {
		missing = append(missing, "bio medical HOD name")
	}
	if len(missing) > 0 {
		return fmt.Errorf("please fill in all required fields: %s", joinMissing(missing))
	}
	return nil
}

// CreateCustomer validates and persists a new customer
func CreateCustomer(db *gorm.DB, customer *models.Customer) error {
	if err := ValidateCustomer(customer); err != nil {
		return err
	}
	return db.Create(customer).Error
}

// UpdateCustomer validates and saves an edited customer
func UpdateCustomer(db *gorm.DB, customer *models.Customer) error {
	if err := ValidateCustomer(customer); err != nil {
		return err
	}
	return db.Model(customer).
		Select("name", "bio_medical_email", "bio_medical_contact", "bio_medical_hod_name", "notes").
		Updates(customer).Error
}

// DeleteCustomer removes a customer unless maintenance records reference it
func DeleteCustomer(db *gorm.DB, id string) error {
	count, err := CountMaintenanceReferences(db, "customer_id", id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCustomerInUse
	}

	result := db.Unscoped().Where("id = ?", id).Delete(&models.Customer{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete customer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}
