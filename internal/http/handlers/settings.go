package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"fleetreport/internal/http/middleware"
	"fleetreport/internal/repositories"
	"fleetreport/internal/utils"

	"github.com/gin-gonic/gin"
)

const distanceFormula = "distance cost = max(0, distance - freeDistanceThreshold) x distanceRate"

// GET /api/settings/rates?distance=1800
//
// Unset rates are shown with their defaults. Reports use the stored values.
func GetRates(c *gin.Context) {
	stored, err := repositories.SettingsRepository{}.GetRates(c.Request.Context())
	if err != nil {
		utils.LogFailure(middleware.GetRequestID(c), "settings", "rates", err)
		RespondDomainError(c, err, "failed to load rates")
		return
	}
	display := stored.WithDisplayDefaults()

	resp := gin.H{
		"rates":   display,
		"stored":  stored,
		"formula": distanceFormula,
	}
	if raw := strings.TrimSpace(c.Query("distance")); raw != "" {
		d, err := strconv.ParseFloat(raw, 64)
		if err != nil || d < 0 {
			respondError(c, http.StatusBadRequest, "invalid_distance", "distance must be a non-negative number", nil)
			return
		}
		resp["distance"] = d
		resp["distanceCost"] = utils.RoundMoney(display.ThresholdDistanceCost(d))
	}
	c.JSON(http.StatusOK, resp)
}
