package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/ranyal-tech/dispatch-frontend/internal/api/handlers"
)

// SetupRoutes configures the operator console surface
func SetupRoutes(r *gin.Engine, h *handlers.Handlers, nrApp *newrelic.Application) {
	// Add New Relic middleware if enabled
	if nrApp != nil {
		r.Use(nrgin.Middleware(nrApp))
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	// WebSocket push channel
	r.GET("/ws", h.HandleWebSocket)

	// Dashboard overview
	r.GET("/overview", h.GetOverview)

	// Driver endpoints
	drivers := r.Group("/drivers")
	{
		drivers.GET("", h.GetDrivers)
		drivers.POST("", h.RegisterDriver)
		drivers.PATCH("/:id/online", h.SetDriverOnline)
		drivers.PATCH("/:id/offline", h.SetDriverOffline)
		drivers.GET("/:id/rides", h.GetDriverRides)
	}

	// Ride endpoints
	rides := r.Group("/rides")
	{
		rides.POST("", h.CreateRide)
		rides.GET("", h.GetRides)
		rides.POST("/:id/accept", h.AcceptRide)
		rides.POST("/:id/cancel", h.CancelRide)
		rides.POST("/:id/cancel/driver/:driverId", h.CancelRideByDriver)
		rides.GET("/:id/drivers/:driverId/ping-status", h.GetPingStatus)
	}
}
