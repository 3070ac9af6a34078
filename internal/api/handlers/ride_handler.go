package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ranyal-tech/dispatch-frontend/internal/api/dto"
	apperrors "github.com/ranyal-tech/dispatch-frontend/pkg/errors"
	"github.com/ranyal-tech/dispatch-frontend/pkg/logger"
)

// CreateRide handles POST /rides
func (h *Handlers) CreateRide(c *gin.Context) {
	var req dto.CreateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    apperrors.CodeBadRequest,
			Message: "Invalid request payload",
		})
		return
	}
	if !req.Pickup.IsValid() || (req.Drop != nil && !req.Drop.IsValid()) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    apperrors.CodeBadRequest,
			Message: "Coordinates out of range",
		})
		return
	}

	created, err := h.Gateway.CreateRide(c.Request.Context(), req.Pickup, req.Drop, uuid.NewString())
	if err != nil {
		respondError(c, err)
		return
	}
	h.Rides.ApplyRemote(created)
	if h.Monitor != nil {
		h.Monitor.RecordRideCreated(created.ID)
	}

	h.Logger.Info("Ride created",
		logger.String("ride_id", created.ID),
		logger.Float64("pickup_lat", created.Pickup.Lat),
		logger.Float64("pickup_lng", created.Pickup.Lng),
	)
	c.JSON(http.StatusCreated, dto.SuccessResponse{Data: created})
}

// GetRides handles GET /rides. A user-initiated refresh, so fetch failures
// surface instead of silently serving the stale collection.
func (h *Handlers) GetRides(c *gin.Context) {
	rides, err := h.Gateway.ListRides(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	for _, r := range rides {
		h.Rides.ApplyRemote(r)
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Data: h.Rides.Rides()})
}

// AcceptRide handles POST /rides/:id/accept
func (h *Handlers) AcceptRide(c *gin.Context) {
	rideID := c.Param("id")

	var req dto.AcceptRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    apperrors.CodeBadRequest,
			Message: "driverId is required",
		})
		return
	}

	if err := h.Rides.Accept(c.Request.Context(), rideID, req.DriverID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Ride accepted"})
}

// CancelRide handles POST /rides/:id/cancel. With a driverId in the body it
// is a driver reject; without one it is a rider-initiated cancel.
func (h *Handlers) CancelRide(c *gin.Context) {
	rideID := c.Param("id")

	var req dto.CancelRideRequest
	_ = c.ShouldBindJSON(&req)

	var err error
	if req.DriverID != "" {
		err = h.Rides.Reject(c.Request.Context(), rideID, req.DriverID)
	} else {
		err = h.Rides.Cancel(c.Request.Context(), rideID)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Ride cancelled"})
}

// CancelRideByDriver handles POST /rides/:id/cancel/driver/:driverId
func (h *Handlers) CancelRideByDriver(c *gin.Context) {
	rideID := c.Param("id")
	driverID := c.Param("driverId")

	if err := h.Rides.Reject(c.Request.Context(), rideID, driverID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Ride cancelled"})
}

// GetPingStatus handles GET /rides/:id/drivers/:driverId/ping-status. The
// fetched snapshot replaces the local one and, when the offer is still live,
// a reconciliation loop keeps it fresh from here on.
func (h *Handlers) GetPingStatus(c *gin.Context) {
	rideID := c.Param("id")
	driverID := c.Param("driverId")

	status, err := h.Gateway.GetPingStatus(c.Request.Context(), rideID, driverID)
	if err != nil {
		respondError(c, err)
		return
	}

	snap := h.Rides.ApplyOffer(rideID, driverID, status)
	if !snap.Expired() && !snap.RideStatus.IsTerminal() {
		h.Offers.Track(rideID, driverID)
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Data: dto.OfferStatusResponse{
		RideID:        rideID,
		DriverID:      driverID,
		Offer:         snap,
		Expired:       snap.Expired(),
		WindowSeconds: int(h.OfferWindow.Seconds()),
		DisplayStatus: h.Rides.DisplayStatus(rideID, driverID),
	}})
}

// respondError maps any error to the console's uniform error body.
func respondError(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	c.JSON(appErr.Status, dto.ErrorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
	})
}
