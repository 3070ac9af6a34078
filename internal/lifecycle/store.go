package lifecycle

import (
	"context"
	"sync"
	"time"

	"github.com/ranyal-tech/dispatch-frontend/internal/domain/ride"
	"github.com/ranyal-tech/dispatch-frontend/internal/gateway"
	apperrors "github.com/ranyal-tech/dispatch-frontend/pkg/errors"
	"github.com/ranyal-tech/dispatch-frontend/pkg/logger"
)

// Dispatch is the slice of the gateway the lifecycle needs for its
// user-initiated actions.
type Dispatch interface {
	AcceptRide(ctx context.Context, rideID, driverID string) (*ride.Ride, error)
	CancelRide(ctx context.Context, rideID, driverID string) (*ride.Ride, error)
}

// Notifier receives state-change events for push to connected consoles.
type Notifier interface {
	RideUpdated(r ride.Ride)
	OfferUpdated(rideID, driverID string, snap OfferSnapshot)
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) RideUpdated(ride.Ride)                      {}
func (NopNotifier) OfferUpdated(string, string, OfferSnapshot) {}

// Provisional display states shown while a user action is still in flight.
// They are never written to the canonical status field and are discarded the
// moment an authoritative value arrives.
const (
	ProvisionalAccepting  = "ACCEPTING"
	ProvisionalCancelling = "CANCELLING"
)

// Store holds the console's view of the ride collection and the per-offer
// snapshots. Ride status is mutated only here; the remote value always wins
// over any local prediction.
type Store struct {
	mu          sync.RWMutex
	rides       map[string]ride.Ride
	offers      map[offerKey]OfferSnapshot
	provisional map[string]string

	dispatch Dispatch
	notifier Notifier
	logger   *logger.Logger
	now      func() time.Time
}

// NewStore creates an empty lifecycle store over the given dispatch actions.
func NewStore(dispatch Dispatch, notifier Notifier, log *logger.Logger) *Store {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Store{
		rides:       make(map[string]ride.Ride),
		offers:      make(map[offerKey]OfferSnapshot),
		provisional: make(map[string]string),
		dispatch:    dispatch,
		notifier:    notifier,
		logger:      log,
		now:         time.Now,
	}
}

// ApplyRemote merges an authoritative ride record into the collection. The
// remote status overwrites the local one unconditionally and clears any
// provisional display state for the ride.
func (s *Store) ApplyRemote(r ride.Ride) {
	if r.ID == "" {
		return
	}
	s.mu.Lock()
	existing, known := s.rides[r.ID]
	if known {
		if r.Status != "" {
			existing.Status = r.Status
		}
		if r.AssignedDriverID != "" {
			existing.AssignedDriverID = r.AssignedDriverID
		}
		if !r.Pickup.IsZero() {
			existing.Pickup = r.Pickup
		}
		if r.Drop != nil {
			existing.Drop = r.Drop
		}
		existing.UpdatedAt = s.now()
		s.rides[r.ID] = existing
	} else {
		r.UpdatedAt = s.now()
		s.rides[r.ID] = r
		existing = r
	}
	delete(s.provisional, r.ID)
	s.mu.Unlock()
	s.notifier.RideUpdated(existing)
}

// ApplyOffer replaces the snapshot for (ride, driver) wholesale. A snapshot
// carrying a status overwrites the ride's status; a snapshot of zero remaining
// seconds expires the offer and, if the ride is still in a pre-acceptance
// state, records EXPIRED.
func (s *Store) ApplyOffer(rideID, driverID string, status gateway.PingStatus) OfferSnapshot {
	snap := OfferSnapshot{
		RemainingSeconds:  status.RemainingSeconds,
		RideStatus:        status.RideStatus,
		Pinged:            status.Pinged,
		CurrentlyAssigned: status.CurrentlyAssigned,
		ReceivedAt:        s.now(),
	}

	s.mu.Lock()
	s.offers[offerKey{rideID, driverID}] = snap

	var updated *ride.Ride
	if r, known := s.rides[rideID]; known {
		if snap.RideStatus != "" {
			r.Status = snap.RideStatus
		}
		if snap.Expired() && r.Status.CanTransitionTo(ride.StatusExpired) {
			r.Status = ride.StatusExpired
		}
		r.UpdatedAt = snap.ReceivedAt
		s.rides[rideID] = r
		delete(s.provisional, rideID)
		updated = &r
	}
	s.mu.Unlock()

	if updated != nil {
		s.notifier.RideUpdated(*updated)
	}
	s.notifier.OfferUpdated(rideID, driverID, snap)
	return snap
}

// Ride returns the tracked ride, if known.
func (s *Store) Ride(rideID string) (ride.Ride, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rides[rideID]
	return r, ok
}

// Rides returns a copy of the tracked collection.
func (s *Store) Rides() []ride.Ride {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ride.Ride, 0, len(s.rides))
	for _, r := range s.rides {
		out = append(out, r)
	}
	return out
}

// Offer returns the latest snapshot for (ride, driver), if one exists.
func (s *Store) Offer(rideID, driverID string) (OfferSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.offers[offerKey{rideID, driverID}]
	return snap, ok
}

// DisplayStatus is what the console shows for a ride: the provisional state
// while an action is in flight, "EXPIRED" when the offer window has closed on
// a ride that is still awaiting a decision, otherwise the canonical status. A
// ride that was already accepted or otherwise resolved keeps its canonical
// status even when the offer snapshot has run out.
func (s *Store) DisplayStatus(rideID, driverID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.provisional[rideID]; ok {
		return p
	}
	r, known := s.rides[rideID]
	if snap, ok := s.offers[offerKey{rideID, driverID}]; ok && snap.Expired() {
		if !known || r.Status == ride.StatusExpired || r.Status.CanTransitionTo(ride.StatusExpired) {
			return string(ride.StatusExpired)
		}
	}
	if !known {
		return ""
	}
	return string(r.Status)
}

// Accept accepts the offer on behalf of the driver. It refuses locally,
// without a network call, when the ride is terminal or the offer window has
// closed.
func (s *Store) Accept(ctx context.Context, rideID, driverID string) error {
	if err := s.beginAction(rideID, driverID, ride.StatusAccepted, ProvisionalAccepting); err != nil {
		return err
	}
	updated, err := s.dispatch.AcceptRide(ctx, rideID, driverID)
	s.finishAction(rideID, updated)
	if err != nil {
		s.logger.Warn("Accept rejected",
			logger.String("ride_id", rideID),
			logger.String("driver_id", driverID),
			logger.Err(err),
		)
		return err
	}
	s.logger.Info("Ride accepted",
		logger.String("ride_id", rideID),
		logger.String("driver_id", driverID),
	)
	return nil
}

// Reject rejects the offer on behalf of the driver. Same local guards as
// Accept.
func (s *Store) Reject(ctx context.Context, rideID, driverID string) error {
	if err := s.beginAction(rideID, driverID, ride.StatusCancelled, ProvisionalCancelling); err != nil {
		return err
	}
	updated, err := s.dispatch.CancelRide(ctx, rideID, driverID)
	s.finishAction(rideID, updated)
	if err != nil {
		s.logger.Warn("Reject rejected",
			logger.String("ride_id", rideID),
			logger.String("driver_id", driverID),
			logger.Err(err),
		)
		return err
	}
	return nil
}

// Cancel is the rider-initiated cancel; it is not bound to an offer window
// but still refuses from a terminal state.
func (s *Store) Cancel(ctx context.Context, rideID string) error {
	s.mu.Lock()
	r, known := s.rides[rideID]
	if known && r.Status.IsTerminal() {
		s.mu.Unlock()
		return apperrors.InvalidTransition(string(r.Status), string(ride.StatusCancelled))
	}
	s.provisional[rideID] = ProvisionalCancelling
	s.mu.Unlock()

	updated, err := s.dispatch.CancelRide(ctx, rideID, "")
	s.finishAction(rideID, updated)
	return err
}

// beginAction runs the local legality guards and records the provisional
// display state. A failure here means no network call is made.
func (s *Store) beginAction(rideID, driverID string, target ride.Status, provisional string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, known := s.rides[rideID]; known && !r.Status.CanTransitionTo(target) {
		return apperrors.InvalidTransition(string(r.Status), string(target))
	}
	if snap, ok := s.offers[offerKey{rideID, driverID}]; ok && snap.Expired() {
		return apperrors.ErrOfferExpired
	}
	s.provisional[rideID] = provisional
	return nil
}

// finishAction clears the provisional state and applies any authoritative
// ride the action response carried.
func (s *Store) finishAction(rideID string, updated *ride.Ride) {
	s.mu.Lock()
	delete(s.provisional, rideID)
	s.mu.Unlock()
	if updated != nil {
		s.ApplyRemote(*updated)
	}
}
