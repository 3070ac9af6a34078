package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ranyal-tech/dispatch-frontend/internal/api/dto"
	"github.com/ranyal-tech/dispatch-frontend/internal/view"
)

// GetOverview handles GET /overview: the dashboard counters computed from
// the tracked collections.
func (h *Handlers) GetOverview(c *gin.Context) {
	stats := view.Overview(h.Drivers.List(), h.Rides.Rides())
	c.JSON(http.StatusOK, dto.SuccessResponse{Data: gin.H{
		"stats":          stats,
		"trackedOffers":  h.Offers.Active(),
		"consoleClients": h.Hub.GetActiveConnections(),
	}})
}
