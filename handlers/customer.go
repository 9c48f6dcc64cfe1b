package handlers

import (
	"errors"
	"net/http"

	"medequip_app_go/db"
	"medequip_app_go/models"
	"medequip_app_go/services"

	"github.com/labstack/echo/v4"
)

type customerRequest struct {
	Name              string  `json:"name"`
	BioMedicalEmail   string  `json:"bio_medical_email"`
	BioMedicalContact string  `json:"bio_medical_contact"`
	BioMedicalHODName string  `json:"bio_medical_hod_name"`
	Notes             *string `json:"notes"`
}

func (r *customerRequest) apply(customer *models.Customer) {
	customer.Name = services.SanitizeText(r.Name)
	customer.BioMedicalEmail = services.SanitizeText(r.BioMedicalEmail)
	customer.BioMedicalContact = services.SanitizeText(r.BioMedicalContact)
	customer.BioMedicalHODName = services.SanitizeText(r.BioMedicalHODName)
	customer.Notes = services.SanitizeTextPtr(r.Notes)
}

// GetCustomersHandler returns all customers
func GetCustomersHandler(c echo.Context) error {
	customers, err := services.GetCustomers(db.DB)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch customers")
	}
	return c.JSON(http.StatusOK, customers)
}

// CreateCustomerHandler creates a new customer
func CreateCustomerHandler(c echo.Context) error {
	var req customerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	var customer models.Customer
	req.apply(&customer)

	if err := services.CreateCustomer(db.DB, &customer); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, customer)
}

// UpdateCustomerHandler edits an existing customer
func UpdateCustomerHandler(c echo.Context) error {
	customer, err := services.GetCustomerByID(db.DB, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrCustomerNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Customer not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch customer")
	}

	var req customerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	req.apply(customer)

	if err := services.UpdateCustomer(db.DB, customer); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, customer)
}

// DeleteCustomerHandler removes a customer unless maintenance records reference it
func DeleteCustomerHandler(c echo.Context) error {
	err := services.DeleteCustomer(db.DB, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCustomerInUse):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, services.ErrCustomerNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Customer not found")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete customer")
		}
	}
	return c.NoContent(http.StatusNoContent)
}
