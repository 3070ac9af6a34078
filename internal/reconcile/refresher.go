package reconcile

import (
	"context"
	"time"

	"github.com/ranyal-tech/dispatch-frontend/internal/domain/ride"
	"github.com/ranyal-tech/dispatch-frontend/pkg/logger"
)

// RideLister is the slice of the gateway the refresher polls.
type RideLister interface {
	ListRides(ctx context.Context) ([]ride.Ride, error)
}

// RideSink receives authoritative ride records.
type RideSink interface {
	ApplyRemote(r ride.Ride)
}

// Refresher keeps the aggregate ride collection in sync at a slower cadence
// than the per-offer loops. Failures keep the stale collection and retry.
type Refresher struct {
	interval time.Duration
	lister   RideLister
	sink     RideSink
	monitor  Monitor
	logger   *logger.Logger
}

// NewRefresher creates a ride-list refresher. monitor may be nil.
func NewRefresher(interval time.Duration, lister RideLister, sink RideSink, monitor Monitor, log *logger.Logger) *Refresher {
	return &Refresher{
		interval: interval,
		lister:   lister,
		sink:     sink,
		monitor:  monitor,
		logger:   log,
	}
}

// Run polls until ctx is cancelled.
func (f *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	f.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.refresh(ctx)
		}
	}
}

func (f *Refresher) refresh(ctx context.Context) {
	rides, err := f.lister.ListRides(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		if f.monitor != nil {
			f.monitor.RecordPollFailure("ride_list")
		}
		f.logger.Warn("Ride list refresh failed", logger.Err(err))
		return
	}
	if ctx.Err() != nil {
		return
	}
	for _, r := range rides {
		f.sink.ApplyRemote(r)
	}
	f.logger.Debug("Ride list refreshed", logger.Int("count", len(rides)))
}
