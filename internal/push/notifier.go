package push

import (
	"github.com/ranyal-tech/dispatch-frontend/internal/domain/driver"
	"github.com/ranyal-tech/dispatch-frontend/internal/domain/ride"
	"github.com/ranyal-tech/dispatch-frontend/internal/lifecycle"
	"github.com/ranyal-tech/dispatch-frontend/pkg/monitoring"
	"github.com/ranyal-tech/dispatch-frontend/pkg/websocket"
)

// Notifier fans lifecycle and availability changes out to connected console
// sessions and feeds the APM counters. It satisfies both the lifecycle and
// the availability notifier contracts.
type Notifier struct {
	hub     *websocket.Hub
	monitor *monitoring.NewRelicApp
}

// New creates a notifier over the hub.
func New(hub *websocket.Hub, monitor *monitoring.NewRelicApp) *Notifier {
	return &Notifier{hub: hub, monitor: monitor}
}

// RideUpdated pushes the ride's new canonical state.
func (n *Notifier) RideUpdated(r ride.Ride) {
	n.hub.BroadcastTopic("ride:"+r.ID, websocket.Message{
		Type: "ride_update",
		Data: r,
	})
}

// OfferUpdated pushes the latest offer snapshot for a (ride, driver) pair.
func (n *Notifier) OfferUpdated(rideID, driverID string, snap lifecycle.OfferSnapshot) {
	n.hub.BroadcastTopic("driver:"+driverID, websocket.Message{
		Type: "offer_update",
		Data: map[string]interface{}{
			"rideId":   rideID,
			"driverId": driverID,
			"offer":    snap,
			"expired":  snap.Expired(),
		},
	})
	if snap.Expired() && n.monitor != nil {
		n.monitor.RecordOfferExpired(rideID, driverID)
	}
}

// DriverUpdated pushes a driver's new availability or location.
func (n *Notifier) DriverUpdated(d driver.Driver) {
	n.hub.BroadcastTopic("driver:"+d.ID, websocket.Message{
		Type: "driver_update",
		Data: d,
	})
}
