package ride

import (
	"errors"
	"time"

	"github.com/ranyal-tech/dispatch-frontend/internal/domain/geo"
)

// Status represents ride status as reported by the dispatch service
type Status string

const (
	StatusRequested    Status = "REQUESTED"
	StatusDriverPinged Status = "DRIVER_PINGED"
	StatusAccepted     Status = "ACCEPTED"
	StatusCancelled    Status = "CANCELLED"
	StatusExpired      Status = "EXPIRED"
	StatusCompleted    Status = "COMPLETED"
)

// Ride represents a ride request as the console tracks it
type Ride struct {
	ID               string     `json:"id"`
	Pickup           geo.Point  `json:"pickup"`
	Drop             *geo.Point `json:"drop,omitempty"`
	Status           Status     `json:"status"`
	AssignedDriverID string     `json:"assignedDriverId,omitempty"`
	RequestedAt      time.Time  `json:"requestedAt,omitempty"`
	UpdatedAt        time.Time  `json:"updatedAt,omitempty"`
}

// Errors
var (
	ErrRideNotFound  = errors.New("ride not found")
	ErrInvalidStatus = errors.New("invalid status transition")
)

// IsValid validates the status
func (s Status) IsValid() bool {
	switch s {
	case StatusRequested, StatusDriverPinged, StatusAccepted,
		StatusCancelled, StatusExpired, StatusCompleted:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are permitted out of s.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCancelled, StatusExpired, StatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether the locally-initiated move from s to target
// is legal. Remote-driven moves (REQUESTED to DRIVER_PINGED, ACCEPTED to
// COMPLETED or CANCELLED) are observed, never initiated, so they are not listed
// here; the authoritative merge applies those unconditionally.
func (s Status) CanTransitionTo(target Status) bool {
	if s.IsTerminal() {
		return false
	}
	switch target {
	case StatusAccepted, StatusCancelled, StatusExpired:
		return s == StatusRequested || s == StatusDriverPinged
	}
	return false
}

// CanAccept reports whether an accept is still legal from the current status.
// The offer window is checked separately against the latest snapshot.
func (r *Ride) CanAccept() bool {
	return r.Status == StatusRequested || r.Status == StatusDriverPinged
}

// CanCancel reports whether a reject or rider cancel is still legal.
func (r *Ride) CanCancel() bool {
	return r.Status == StatusRequested || r.Status == StatusDriverPinged
}
