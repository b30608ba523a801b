package handlers

import (
	"net/http"

	"fleetreport/internal/domain/models"
	"fleetreport/internal/http/middleware"
	"fleetreport/internal/repositories"
	"fleetreport/internal/utils"

	"github.com/gin-gonic/gin"
)

// GET /api/vehicles?q=isuzu
func GetVehicles(c *gin.Context) {
	list, err := repositories.VehiclesRepository{}.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		utils.LogFailure(middleware.GetRequestID(c), "vehicles", "list", err)
		RespondDomainError(c, err, "failed to load vehicles")
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/vehicles/:id
func GetVehicle(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	v, err := repositories.VehiclesRepository{}.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err, "failed to load vehicle")
		return
	}
	c.JSON(http.StatusOK, v)
}

// POST /api/vehicles
func CreateVehicle(c *gin.Context) {
	var payload models.VehiclePayload
	if !BindJSONOrError(c, &payload) {
		return
	}
	if utils.TrimOrEmpty(payload.LicensePlate) == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "licensePlate is required", nil)
		return
	}

	id, err := repositories.VehiclesRepository{}.Create(c.Request.Context(), payload)
	if err != nil {
		utils.LogFailure(middleware.GetRequestID(c), "vehicles", "create", err)
		RespondDomainError(c, err, "failed to create vehicle")
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "vehicles", "create", "vehicle created")
	c.JSON(http.StatusCreated, gin.H{"message": "vehicle created", "id": id})
}

// PUT /api/vehicles/:id
func UpdateVehicle(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var payload models.VehiclePayload
	if !BindJSONOrError(c, &payload) {
		return
	}
	if utils.TrimOrEmpty(payload.LicensePlate) == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "licensePlate is required", nil)
		return
	}

	if err := (repositories.VehiclesRepository{}).Update(c.Request.Context(), id, payload); err != nil {
		RespondDomainError(c, err, "failed to update vehicle")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "vehicle updated"})
}

// DELETE /api/vehicles/:id
func DeleteVehicle(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := (repositories.VehiclesRepository{}).Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err, "failed to delete vehicle")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "vehicle deleted"})
}
