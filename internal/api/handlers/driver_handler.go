package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ranyal-tech/dispatch-frontend/internal/api/dto"
	"github.com/ranyal-tech/dispatch-frontend/internal/domain/driver"
	"github.com/ranyal-tech/dispatch-frontend/internal/view"
	apperrors "github.com/ranyal-tech/dispatch-frontend/pkg/errors"
	"github.com/ranyal-tech/dispatch-frontend/pkg/logger"
	"github.com/ranyal-tech/dispatch-frontend/pkg/websocket"
)

// GetDrivers handles GET /drivers
func (h *Handlers) GetDrivers(c *gin.Context) {
	drivers := h.Drivers.List()
	if len(drivers) == 0 {
		// Cold start: the re-sync loop has not run yet, fetch once now.
		if err := h.Availability.Resync(c.Request.Context()); err != nil {
			respondError(c, err)
			return
		}
		drivers = h.Drivers.List()
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Data: drivers})
}

// RegisterDriver handles POST /drivers
func (h *Handlers) RegisterDriver(c *gin.Context) {
	var req dto.RegisterDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    apperrors.CodeBadRequest,
			Message: "Invalid request payload",
		})
		return
	}
	if !req.Location.IsValid() {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    apperrors.CodeBadRequest,
			Message: "Coordinates out of range",
		})
		return
	}

	registered, err := h.Gateway.RegisterDriver(c.Request.Context(), req.ID, req.Location)
	if err != nil {
		respondError(c, err)
		return
	}
	h.Drivers.Upsert(registered)
	h.Hub.BroadcastTopic("driver:"+registered.ID, websocket.Message{
		Type: "driver_update",
		Data: registered,
	})

	h.Logger.Info("Driver registered",
		logger.String("driver_id", registered.ID),
		logger.Float64("lat", registered.Location.Lat),
		logger.Float64("lng", registered.Location.Lng),
	)
	c.JSON(http.StatusCreated, dto.SuccessResponse{Data: registered})
}

// SetDriverOnline handles PATCH /drivers/:id/online
func (h *Handlers) SetDriverOnline(c *gin.Context) {
	h.setAvailability(c, driver.Online)
}

// SetDriverOffline handles PATCH /drivers/:id/offline
func (h *Handlers) SetDriverOffline(c *gin.Context) {
	h.setAvailability(c, driver.Offline)
}

func (h *Handlers) setAvailability(c *gin.Context, target driver.Availability) {
	driverID := c.Param("id")

	err := h.Availability.SetAvailability(c.Request.Context(), driverID, target)
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeNetworkFailure) || apperrors.HasCode(err, apperrors.CodeRemoteRejected) {
			if h.Monitor != nil {
				h.Monitor.RecordAvailabilityRollback(driverID)
			}
		}
		respondError(c, err)
		return
	}

	updated, _ := h.Drivers.Get(driverID)
	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Driver is now " + string(target),
		Data:    updated,
	})
}

// GetDriverRides handles GET /drivers/:id/rides. The response keeps the two
// driver-scoped views separate: pending offers and server-flagged assignments.
func (h *Handlers) GetDriverRides(c *gin.Context) {
	driverID := c.Param("id")

	listing, err := h.Gateway.ListRidesForDriver(c.Request.Context(), driverID)
	if err != nil {
		respondError(c, err)
		return
	}

	pinged := view.PendingOffers(listing, driverID)
	managed := view.ManagedRides(listing)

	// Every pending offer gets its own reconciliation loop; loops for offers
	// that have since resolved shut themselves down.
	for _, offer := range pinged {
		if !offer.RideStatus.IsTerminal() && !offer.Expired {
			h.Offers.Track(offer.RideID, driverID)
		}
	}

	managedOut := make([]dto.DriverRideResponse, 0, len(managed))
	for _, r := range managed {
		item := dto.DriverRideResponse{DriverRide: r}
		item.PickupAddress = h.Geocoder.Reverse(c.Request.Context(), r.Pickup)
		if r.Drop != nil {
			item.DropAddress = h.Geocoder.Reverse(c.Request.Context(), *r.Drop)
		}
		managedOut = append(managedOut, item)
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Data: gin.H{
		"pinged":  pinged,
		"managed": managedOut,
	}})
}
