package api

import (
	stdhttp "net/http"

	intconfig "fleetreport/internal/config"
	h "fleetreport/internal/http/handlers"
	"fleetreport/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	h.RegisterValidators()
	h.SetReportLayout(env.ReportEnv)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		logrus.WithError(err).Warn("failed to set trusted proxies")
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/routes", h.Routes)

		// Trip reports
		reports := api.Group("/reports/trips")
		reports.GET("", h.GetTripReport)
		reports.GET("/pdf", h.DownloadTripReportPDF)
		reports.GET("/print", h.PrintTripReportPDF)
		reports.GET("/xlsx", h.DownloadTripReportXLSX)

		// Rate settings (read-only)
		api.GET("/settings/rates", h.GetRates)

		// Vehicles
		vehicles := api.Group("/vehicles")
		vehicles.GET("", h.GetVehicles)
		vehicles.GET("/:id", h.GetVehicle)
		vehicles.POST("", h.CreateVehicle)
		vehicles.PUT("/:id", h.UpdateVehicle)
		vehicles.DELETE("/:id", h.DeleteVehicle)
	}

	h.SetRouter(r)
	return r
}
