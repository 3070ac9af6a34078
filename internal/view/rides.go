package view

import (
	"github.com/ranyal-tech/dispatch-frontend/internal/domain/driver"
	"github.com/ranyal-tech/dispatch-frontend/internal/domain/ride"
	"github.com/ranyal-tech/dispatch-frontend/internal/gateway"
)

// The two driver-scoped ride views are intentionally separate predicates and
// must stay that way:
//
//   - "pinged": rides the console believes are offered to or held by the
//     driver, derived from the local collection's assignedDriverId + status.
//   - "managed": rides the remote per-driver listing explicitly flags with
//     currentlyAssigned. The flag is server truth and is not re-derived from
//     assignedDriverId equality; the two are not interchangeable.

// IsPingedTo reports whether the ride belongs to the driver's pinged view:
// assigned to exactly this driver and still in a pending or just-resolved
// state.
func IsPingedTo(r ride.Ride, driverID string) bool {
	if r.AssignedDriverID != driverID {
		return false
	}
	switch r.Status {
	case ride.StatusRequested, ride.StatusDriverPinged, ride.StatusAccepted:
		return true
	}
	return false
}

// PingedRides filters the local collection down to the driver's pinged view.
func PingedRides(rides []ride.Ride, driverID string) []ride.Ride {
	out := make([]ride.Ride, 0)
	for _, r := range rides {
		if IsPingedTo(r, driverID) {
			out = append(out, r)
		}
	}
	return out
}

// PendingOffers filters the remote per-driver listing to offers still worth
// showing on the ping screen: pending or just-resolved, per the same status
// set as the pinged view.
func PendingOffers(listing []gateway.DriverRide, driverID string) []gateway.DriverRide {
	out := make([]gateway.DriverRide, 0)
	for _, r := range listing {
		if r.DriverID != "" && r.DriverID != driverID {
			continue
		}
		switch r.RideStatus {
		case ride.StatusRequested, ride.StatusDriverPinged, ride.StatusAccepted:
			out = append(out, r)
		}
	}
	return out
}

// ManagedRides filters the remote per-driver listing to rides the server
// reports as currently assigned, regardless of pending state.
func ManagedRides(listing []gateway.DriverRide) []gateway.DriverRide {
	out := make([]gateway.DriverRide, 0)
	for _, r := range listing {
		if r.CurrentlyAssigned {
			out = append(out, r)
		}
	}
	return out
}

// Stats are the console overview counters.
type Stats struct {
	TotalDrivers   int `json:"totalDrivers"`
	OnlineDrivers  int `json:"onlineDrivers"`
	TotalRides     int `json:"totalRides"`
	RequestedRides int `json:"requestedRides"`
	CompletedRides int `json:"completedRides"`
	CancelledRides int `json:"cancelledRides"`
}

// Overview computes the dashboard counters from the tracked collections.
func Overview(drivers []driver.Driver, rides []ride.Ride) Stats {
	stats := Stats{
		TotalDrivers: len(drivers),
		TotalRides:   len(rides),
	}
	for _, d := range drivers {
		if d.IsOnline() {
			stats.OnlineDrivers++
		}
	}
	for _, r := range rides {
		switch r.Status {
		case ride.StatusRequested:
			stats.RequestedRides++
		case ride.StatusCompleted:
			stats.CompletedRides++
		case ride.StatusCancelled:
			stats.CancelledRides++
		}
	}
	return stats
}
