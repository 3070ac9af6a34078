package dto

import (
	"github.com/ranyal-tech/dispatch-frontend/internal/domain/geo"
	"github.com/ranyal-tech/dispatch-frontend/internal/gateway"
	"github.com/ranyal-tech/dispatch-frontend/internal/lifecycle"
)

// RegisterDriverRequest represents a request to register a new driver
type RegisterDriverRequest struct {
	ID       string    `json:"id" binding:"required"`
	Location geo.Point `json:"location" binding:"required"`
}

// CreateRideRequest represents a request to create a new ride. Drop is
// optional; a pickup alone is a valid request.
type CreateRideRequest struct {
	Pickup geo.Point  `json:"pickup" binding:"required"`
	Drop   *geo.Point `json:"drop,omitempty"`
}

// AcceptRideRequest identifies the driver acting on an offer. Identity is
// always explicit; the console never infers it from list order.
type AcceptRideRequest struct {
	DriverID string `json:"driverId" binding:"required"`
}

// CancelRideRequest optionally scopes a cancel to a driver (reject).
type CancelRideRequest struct {
	DriverID string `json:"driverId,omitempty"`
}

// DriverRideResponse is one element of the driver-scoped ride views, with
// best-effort display addresses attached.
type DriverRideResponse struct {
	gateway.DriverRide
	PickupAddress string `json:"pickupAddress,omitempty"`
	DropAddress   string `json:"dropAddress,omitempty"`
}

// OfferStatusResponse is the ping-status check result. WindowSeconds is the
// configured full offer window, the denominator for the countdown display.
type OfferStatusResponse struct {
	RideID        string                  `json:"rideId"`
	DriverID      string                  `json:"driverId"`
	Offer         lifecycle.OfferSnapshot `json:"offer"`
	Expired       bool                    `json:"expired"`
	WindowSeconds int                     `json:"windowSeconds"`
	DisplayStatus string                  `json:"displayStatus"`
}

// ErrorResponse is the error body every handler returns.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SuccessResponse wraps a payload the way the console UI expects.
type SuccessResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}
