package reconcile

import (
	"context"
	"time"

	"github.com/ranyal-tech/dispatch-frontend/internal/domain/driver"
	"github.com/ranyal-tech/dispatch-frontend/internal/gateway"
	"github.com/ranyal-tech/dispatch-frontend/pkg/logger"
)

// DriverLister is the roster slice the watcher scans.
type DriverLister interface {
	List() []driver.Driver
}

// OfferLister is the gateway slice the watcher polls per driver.
type OfferLister interface {
	ListRidesForDriver(ctx context.Context, driverID string) ([]gateway.DriverRide, error)
}

// Watcher scans the ride listings of online drivers on a fixed cadence and
// hands newly pinged offers to the manager, so countdown polling starts even
// before an operator opens that driver's view. Failures for one driver keep
// the stale picture and move on to the next.
type Watcher struct {
	interval time.Duration
	drivers  DriverLister
	lister   OfferLister
	offers   *Manager
	monitor  Monitor
	logger   *logger.Logger
}

// NewWatcher creates a driver-rides watcher. monitor may be nil.
func NewWatcher(interval time.Duration, drivers DriverLister, lister OfferLister, offers *Manager, monitor Monitor, log *logger.Logger) *Watcher {
	return &Watcher{
		interval: interval,
		drivers:  drivers,
		lister:   lister,
		offers:   offers,
		monitor:  monitor,
		logger:   log,
	}
}

// Run scans until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.scan(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.scan(ctx)
		}
	}
}

func (w *Watcher) scan(ctx context.Context) {
	for _, d := range w.drivers.List() {
		if !d.IsOnline() {
			continue
		}
		listing, err := w.lister.ListRidesForDriver(ctx, d.ID)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if w.monitor != nil {
				w.monitor.RecordPollFailure("driver_rides")
			}
			w.logger.Warn("Driver rides scan failed",
				logger.String("driver_id", d.ID),
				logger.Err(err),
			)
			continue
		}
		if ctx.Err() != nil {
			return
		}
		for _, r := range listing {
			if r.Pinged && !r.Expired && !r.RideStatus.IsTerminal() {
				w.offers.Track(r.RideID, d.ID)
			}
		}
	}
}
