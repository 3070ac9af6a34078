package availability

import (
	"context"
	"sync"
	"time"

	"github.com/ranyal-tech/dispatch-frontend/internal/domain/driver"
	"github.com/ranyal-tech/dispatch-frontend/internal/roster"
	apperrors "github.com/ranyal-tech/dispatch-frontend/pkg/errors"
	"github.com/ranyal-tech/dispatch-frontend/pkg/logger"
)

// Gateway is the slice of the dispatch gateway the controller needs.
type Gateway interface {
	SetDriverAvailability(ctx context.Context, driverID string, target driver.Availability) error
	ListDrivers(ctx context.Context) ([]driver.Driver, error)
}

// Notifier receives driver updates for push to connected consoles.
type Notifier interface {
	DriverUpdated(d driver.Driver)
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) DriverUpdated(driver.Driver) {}

// pendingMutation is the Pending half of the availability field's tagged
// state: the optimistic value is already on display in the roster, rollback
// is what to restore on failure. Absence from the inflight map means the
// displayed value is Confirmed.
type pendingMutation struct {
	rollback driver.Availability
	target   driver.Availability
}

// Controller toggles driver availability with optimistic feedback. At most
// one mutation per driver id is in flight; the periodic re-sync never
// overwrites a driver whose mutation is still pending.
type Controller struct {
	gateway  Gateway
	store    *roster.Store
	notifier Notifier
	logger   *logger.Logger

	mu       sync.Mutex
	inflight map[string]pendingMutation
}

// NewController creates a controller over the given roster.
func NewController(gw Gateway, store *roster.Store, notifier Notifier, log *logger.Logger) *Controller {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Controller{
		gateway:  gw,
		store:    store,
		notifier: notifier,
		logger:   log,
		inflight: make(map[string]pendingMutation),
	}
}

// SetAvailability applies the target optimistically, issues the remote
// mutation, and restores the pre-mutation value exactly on failure. A second
// call for the same driver while one is pending fails with AlreadyInFlight
// and leaves the displayed value untouched.
func (c *Controller) SetAvailability(ctx context.Context, driverID string, target driver.Availability) error {
	if !target.IsValid() {
		return apperrors.BadRequest("availability must be ONLINE or OFFLINE", driver.ErrInvalidAvailability)
	}

	c.mu.Lock()
	if _, pending := c.inflight[driverID]; pending {
		c.mu.Unlock()
		return apperrors.AlreadyInFlight(driverID)
	}
	prev, err := c.store.SetAvailability(driverID, target)
	if err != nil {
		c.mu.Unlock()
		return apperrors.ErrDriverNotFound
	}
	c.inflight[driverID] = pendingMutation{rollback: prev, target: target}
	c.mu.Unlock()

	c.notifyDriver(driverID)
	c.logger.Info("Availability toggle started",
		logger.String("driver_id", driverID),
		logger.String("target", string(target)),
	)

	remoteErr := c.gateway.SetDriverAvailability(ctx, driverID, target)

	c.mu.Lock()
	mutation := c.inflight[driverID]
	delete(c.inflight, driverID)
	if remoteErr != nil {
		// Pending becomes Confirmed(rollback): restore the pre-mutation value.
		if _, rollbackErr := c.store.SetAvailability(driverID, mutation.rollback); rollbackErr != nil {
			c.logger.Error("Rollback failed, driver vanished from roster",
				logger.String("driver_id", driverID),
				logger.Err(rollbackErr),
			)
		}
	}
	c.mu.Unlock()

	if remoteErr != nil {
		c.notifyDriver(driverID)
		c.logger.Warn("Availability toggle failed, reverted",
			logger.String("driver_id", driverID),
			logger.String("restored", string(mutation.rollback)),
			logger.Err(remoteErr),
		)
		return remoteErr
	}

	// Pending becomes Confirmed(target); the optimistic value is canonical now.
	c.logger.Info("Availability confirmed",
		logger.String("driver_id", driverID),
		logger.String("availability", string(target)),
	)
	return nil
}

// InFlight reports whether a mutation for the driver is still pending; the
// console disables the toggle control while true.
func (c *Controller) InFlight(driverID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, pending := c.inflight[driverID]
	return pending
}

// Resync overwrites the roster with the authoritative driver list, skipping
// any driver whose mutation is still in flight so stale remote data cannot
// clobber an optimistic value.
func (c *Controller) Resync(ctx context.Context) error {
	drivers, err := c.gateway.ListDrivers(ctx)
	if err != nil {
		return err
	}
	for _, d := range drivers {
		// The pending check and the upsert stay under one lock so a toggle
		// starting between them cannot be clobbered by a stale record.
		c.mu.Lock()
		if _, pending := c.inflight[d.ID]; pending {
			c.mu.Unlock()
			continue
		}
		c.store.Upsert(d)
		c.mu.Unlock()
		c.notifier.DriverUpdated(d)
	}
	return nil
}

// Run re-syncs on the given cadence until ctx is cancelled. Failures keep the
// stale roster and retry on the next tick.
func (c *Controller) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.Resync(ctx); err != nil && ctx.Err() == nil {
				c.logger.Warn("Driver re-sync failed", logger.Err(err))
			}
		}
	}
}

func (c *Controller) notifyDriver(driverID string) {
	if d, ok := c.store.Get(driverID); ok {
		c.notifier.DriverUpdated(d)
	}
}
