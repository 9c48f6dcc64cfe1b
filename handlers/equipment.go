package handlers

import (
	"errors"
	"net/http"

	"medequip_app_go/db"
	"medequip_app_go/models"
	"medequip_app_go/services"

	"github.com/labstack/echo/v4"
)

type equipmentRequest struct {
	Name        string  `json:"name"`
	ModelNumber string  `json:"model_number"`
	Notes       *string `json:"notes"`
}

func (r *equipmentRequest) apply(equipment *models.Equipment) {
	equipment.Name = services.SanitizeText(r.Name)
	equipment.ModelNumber = services.SanitizeText(r.ModelNumber)
	equipment.Notes = services.SanitizeTextPtr(r.Notes)
}

// GetEquipmentHandler returns the equipment catalog
func GetEquipmentHandler(c echo.Context) error {
	equipment, err := services.GetEquipment(db.DB)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch equipment")
	}
	return c.JSON(http.StatusOK, equipment)
}

// CreateEquipmentHandler creates a new catalog entry
func CreateEquipmentHandler(c echo.Context) error {
	var req equipmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	var equipment models.Equipment
	req.apply(&equipment)

	if err := services.CreateEquipment(db.DB, &equipment); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, equipment)
}

// UpdateEquipmentHandler edits an existing catalog entry
func UpdateEquipmentHandler(c echo.Context) error {
	equipment, err := services.GetEquipmentByID(db.DB, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrEquipmentNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Equipment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch equipment")
	}

	var req equipmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	req.apply(equipment)

	if err := services.UpdateEquipment(db.DB, equipment); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, equipment)
}

// DeleteEquipmentHandler removes a catalog entry unless maintenance records reference it
func DeleteEquipmentHandler(c echo.Context) error {
	err := services.DeleteEquipment(db.DB, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEquipmentInUse):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, services.ErrEquipmentNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Equipment not found")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete equipment")
		}
	}
	return c.NoContent(http.StatusNoContent)
}
