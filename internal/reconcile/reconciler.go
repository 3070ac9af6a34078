package reconcile

import (
	"context"
	"sync"
	"time"

	"github.com/ranyal-tech/dispatch-frontend/internal/gateway"
	"github.com/ranyal-tech/dispatch-frontend/internal/lifecycle"
	"github.com/ranyal-tech/dispatch-frontend/pkg/logger"
)

// PingSource is the slice of the gateway a reconciler polls.
type PingSource interface {
	GetPingStatus(ctx context.Context, rideID, driverID string) (gateway.PingStatus, error)
}

// OfferSink receives each authoritative snapshot wholesale.
type OfferSink interface {
	ApplyOffer(rideID, driverID string, status gateway.PingStatus) lifecycle.OfferSnapshot
}

// Monitor counts poll failures for APM. May be nil.
type Monitor interface {
	RecordPollFailure(kind string)
}

// Reconciler keeps one (ride, driver) offer in sync with the remote source.
// It owns its own cancellation: once stopped, no fetch result is ever applied.
type Reconciler struct {
	rideID   string
	driverID string
	interval time.Duration

	source  PingSource
	sink    OfferSink
	monitor Monitor
	logger  *logger.Logger

	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once
	done     chan struct{}

	// onExit lets the manager drop its handle when the loop ends on its own.
	onExit func()
}

// New creates a reconciler for the given offer. Run must be called to start it.
func New(rideID, driverID string, interval time.Duration, source PingSource, sink OfferSink, log *logger.Logger) *Reconciler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Reconciler{
		rideID:   rideID,
		driverID: driverID,
		interval: interval,
		source:   source,
		sink:     sink,
		logger:   log,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Run polls until the offer becomes terminal or Stop is called. The first
// fetch happens immediately; each success replaces the previous snapshot
// wholesale, each failure keeps the stale snapshot and retries on the next
// tick.
func (r *Reconciler) Run() {
	defer close(r.done)
	defer func() {
		if r.onExit != nil {
			r.onExit()
		}
	}()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	if terminal := r.poll(); terminal {
		return
	}
	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			if terminal := r.poll(); terminal {
				return
			}
		}
	}
}

// poll runs one fetch-and-apply cycle. It reports whether the loop should
// end because the offer reached a terminal state.
func (r *Reconciler) poll() bool {
	status, err := r.source.GetPingStatus(r.ctx, r.rideID, r.driverID)
	if err != nil {
		if r.ctx.Err() != nil {
			return true
		}
		// Background failure: keep the stale snapshot, log, retry next tick.
		if r.monitor != nil {
			r.monitor.RecordPollFailure("offer")
		}
		r.logger.Warn("Offer poll failed",
			logger.String("ride_id", r.rideID),
			logger.String("driver_id", r.driverID),
			logger.Err(err),
		)
		return false
	}

	// A fetch can complete just as teardown happens; never mutate after stop.
	if r.ctx.Err() != nil {
		return true
	}

	snap := r.sink.ApplyOffer(r.rideID, r.driverID, status)
	if snap.Expired() || snap.RideStatus.IsTerminal() {
		r.logger.Info("Offer reached terminal state, stopping poll",
			logger.String("ride_id", r.rideID),
			logger.String("driver_id", r.driverID),
			logger.String("status", string(snap.RideStatus)),
			logger.Int("remaining_seconds", snap.RemainingSeconds),
		)
		return true
	}
	return false
}

// Stop cancels the loop. Safe to call more than once; returns once the loop
// has fully exited, so no poll can fire afterwards.
func (r *Reconciler) Stop() {
	r.stopOnce.Do(func() {
		r.cancel()
	})
	<-r.done
}
