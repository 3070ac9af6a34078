package gateway

import (
	"encoding/json"
	"strings"

	"github.com/ranyal-tech/dispatch-frontend/internal/domain/driver"
	"github.com/ranyal-tech/dispatch-frontend/internal/domain/geo"
	"github.com/ranyal-tech/dispatch-frontend/internal/domain/ride"
)

// DriverRide is one element of the per-driver ride listing. CurrentlyAssigned
// is the server-reported flag; it is not re-derived from AssignedDriverID,
// the two are not guaranteed interchangeable.
type DriverRide struct {
	RideID            string      `json:"rideId"`
	DriverID          string      `json:"driverId"`
	RideStatus        ride.Status `json:"rideStatus"`
	Pinged            bool        `json:"pinged"`
	CurrentlyAssigned bool        `json:"currentlyAssigned"`
	Expired           bool        `json:"expired"`
	Pickup            geo.Point   `json:"pickup"`
	Drop              *geo.Point  `json:"drop,omitempty"`
}

// PingStatus is the authoritative offer snapshot for one (ride, driver) pair.
type PingStatus struct {
	RemainingSeconds  int         `json:"remainingSeconds"`
	RideStatus        ride.Status `json:"rideStatus"`
	Pinged            bool        `json:"pinged"`
	CurrentlyAssigned bool        `json:"currentlyAssigned"`
}

// envelope is the optional {"data": ...} wrapper some endpoints use.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// unwrap strips the data envelope when present, otherwise returns the body
// as-is. No caller above the gateway ever sees the difference.
func unwrap(body []byte) []byte {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && len(env.Data) > 0 {
		return env.Data
	}
	return body
}

// driverRecord accepts every driver wire shape observed from the dispatch
// service: id aliases and the four availability spellings.
type driverRecord struct {
	ID           string    `json:"id"`
	DriverID     string    `json:"driverId"`
	UnderscoreID string    `json:"_id"`
	Name         string    `json:"name"`
	Location     geo.Point `json:"location"`
	Lat          float64   `json:"lat"`
	Lng          float64   `json:"lng"`
	Status       string    `json:"status"`
	Online       *bool     `json:"online"`
	IsOnline     *bool     `json:"isOnline"`
	Available    *bool     `json:"available"`
}

func (r driverRecord) canonical() driver.Driver {
	d := driver.Driver{
		ID:       firstNonEmpty(r.ID, r.DriverID, r.UnderscoreID),
		Name:     r.Name,
		Location: r.Location,
	}
	if d.Location.IsZero() && (r.Lat != 0 || r.Lng != 0) {
		d.Location = geo.Point{Lat: r.Lat, Lng: r.Lng}
	}
	d.Availability = driver.Offline
	statusStr := strings.ToUpper(r.Status)
	if statusStr == "ONLINE" || statusStr == "ACTIVE" ||
		boolVal(r.Online) || boolVal(r.IsOnline) || boolVal(r.Available) {
		d.Availability = driver.Online
	}
	return d
}

// rideRecord accepts every ride wire shape: id aliases and the drop field
// doubling as "destination".
type rideRecord struct {
	ID               string     `json:"id"`
	RideID           string     `json:"rideId"`
	UnderscoreID     string     `json:"_id"`
	Status           string     `json:"status"`
	Pickup           geo.Point  `json:"pickup"`
	Drop             *geo.Point `json:"drop"`
	Destination      *geo.Point `json:"destination"`
	AssignedDriverID string     `json:"assignedDriverId"`
	DriverID         string     `json:"driverId"`
}

func (r rideRecord) canonical() ride.Ride {
	out := ride.Ride{
		ID:               firstNonEmpty(r.ID, r.RideID, r.UnderscoreID),
		Status:           ride.Status(strings.ToUpper(r.Status)),
		Pickup:           r.Pickup,
		Drop:             r.Drop,
		AssignedDriverID: firstNonEmpty(r.AssignedDriverID, r.DriverID),
	}
	if out.Drop == nil {
		out.Drop = r.Destination
	}
	return out
}

type driverRideRecord struct {
	RideID            string     `json:"rideId"`
	ID                string     `json:"id"`
	DriverID          string     `json:"driverId"`
	RideStatus        string     `json:"rideStatus"`
	Status            string     `json:"status"`
	Pinged            bool       `json:"pinged"`
	CurrentlyAssigned bool       `json:"currentlyAssigned"`
	Expired           bool       `json:"expired"`
	Pickup            geo.Point  `json:"pickup"`
	Drop              *geo.Point `json:"drop"`
	Destination       *geo.Point `json:"destination"`
}

func (r driverRideRecord) canonical() DriverRide {
	out := DriverRide{
		RideID:            firstNonEmpty(r.RideID, r.ID),
		DriverID:          r.DriverID,
		RideStatus:        ride.Status(strings.ToUpper(firstNonEmpty(r.RideStatus, r.Status))),
		Pinged:            r.Pinged,
		CurrentlyAssigned: r.CurrentlyAssigned,
		Expired:           r.Expired,
		Pickup:            r.Pickup,
		Drop:              r.Drop,
	}
	if out.Drop == nil {
		out.Drop = r.Destination
	}
	return out
}

type pingStatusRecord struct {
	RemainingSeconds  int    `json:"remainingSeconds"`
	RideStatus        string `json:"rideStatus"`
	Status            string `json:"status"`
	Pinged            bool   `json:"pinged"`
	CurrentlyAssigned bool   `json:"currentlyAssigned"`
}

func (r pingStatusRecord) canonical() PingStatus {
	return PingStatus{
		RemainingSeconds:  r.RemainingSeconds,
		RideStatus:        ride.Status(strings.ToUpper(firstNonEmpty(r.RideStatus, r.Status))),
		Pinged:            r.Pinged,
		CurrentlyAssigned: r.CurrentlyAssigned,
	}
}

// remoteError is the error body shape the dispatch service returns.
type remoteError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func boolVal(b *bool) bool {
	return b != nil && *b
}
