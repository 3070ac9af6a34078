package lifecycle

import (
	"time"

	"github.com/ranyal-tech/dispatch-frontend/internal/domain/ride"
)

// OfferSnapshot is the last authoritative offer state for one (ride, driver)
// pair. It is replaced wholesale on every successful poll and never advanced
// locally once recorded.
type OfferSnapshot struct {
	RemainingSeconds  int         `json:"remainingSeconds"`
	RideStatus        ride.Status `json:"rideStatus"`
	Pinged            bool        `json:"pinged"`
	CurrentlyAssigned bool        `json:"currentlyAssigned"`
	ReceivedAt        time.Time   `json:"-"`
}

// Expired reports whether the offer window has closed. A zero from the remote
// is terminal for the offer; no accept or reject is allowed past it.
func (s OfferSnapshot) Expired() bool {
	return s.RemainingSeconds <= 0
}

// EstimatedRemaining is the display countdown between polls: the last
// authoritative value minus elapsed wall time, floored at zero. It is a local
// guess only; the next snapshot supersedes it even when that means jumping
// backward or forward.
func (s OfferSnapshot) EstimatedRemaining(now time.Time) int {
	if s.ReceivedAt.IsZero() {
		return s.RemainingSeconds
	}
	elapsed := int(now.Sub(s.ReceivedAt) / time.Second)
	remaining := s.RemainingSeconds - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

type offerKey struct {
	rideID   string
	driverID string
}
