package driver

import (
	"time"

	"github.com/ranyal-tech/dispatch-frontend/internal/domain/geo"
)

// Availability represents a driver's online/offline flag
type Availability string

const (
	Online  Availability = "ONLINE"
	Offline Availability = "OFFLINE"
)

// Driver represents a driver entity tracked by the console
type Driver struct {
	ID           string       `json:"id"`
	Name         string       `json:"name,omitempty"`
	Location     geo.Point    `json:"location"`
	Availability Availability `json:"availability"`
	UpdatedAt    time.Time    `json:"updatedAt,omitempty"`
}

// IsValid validates the driver entity
func (d *Driver) IsValid() error {
	if d.ID == "" {
		return ErrInvalidDriverID
	}
	if !d.Location.IsValid() {
		return ErrInvalidLocation
	}
	if !d.Availability.IsValid() {
		return ErrInvalidAvailability
	}
	return nil
}

// IsValid validates the availability flag
func (a Availability) IsValid() bool {
	return a == Online || a == Offline
}

// IsOnline reports whether the driver can currently receive offers
func (d *Driver) IsOnline() bool {
	return d.Availability == Online
}
