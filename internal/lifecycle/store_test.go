package lifecycle

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranyal-tech/dispatch-frontend/internal/domain/geo"
	"github.com/ranyal-tech/dispatch-frontend/internal/domain/ride"
	"github.com/ranyal-tech/dispatch-frontend/internal/gateway"
	apperrors "github.com/ranyal-tech/dispatch-frontend/pkg/errors"
	"github.com/ranyal-tech/dispatch-frontend/pkg/logger"
)

// fakeDispatch counts calls and returns scripted results.
type fakeDispatch struct {
	mu          sync.Mutex
	acceptCalls int
	cancelCalls int
	acceptRide  *ride.Ride
	acceptErr   error
	cancelRide  *ride.Ride
	cancelErr   error
}

func (f *fakeDispatch) AcceptRide(_ context.Context, _, _ string) (*ride.Ride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acceptCalls++
	return f.acceptRide, f.acceptErr
}

func (f *fakeDispatch) CancelRide(_ context.Context, _, _ string) (*ride.Ride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelCalls++
	return f.cancelRide, f.cancelErr
}

func newTestStore(dispatch Dispatch) *Store {
	return NewStore(dispatch, nil, logger.NewNop())
}

// TestApplyRemote_StatusOverwritesLocal tests that the remote status always
// wins over the local one, whatever the local value is
func TestApplyRemote_StatusOverwritesLocal(t *testing.T) {
	s := newTestStore(&fakeDispatch{})

	s.ApplyRemote(ride.Ride{ID: "r1", Status: ride.StatusAccepted, AssignedDriverID: "d1"})
	s.ApplyRemote(ride.Ride{ID: "r1", Status: ride.StatusRequested})

	r, ok := s.Ride("r1")
	require.True(t, ok)
	assert.Equal(t, ride.StatusRequested, r.Status)
	assert.Equal(t, "d1", r.AssignedDriverID, "fields absent from the update are kept")
}

// TestApplyRemote_ClearsProvisionalState tests that an authoritative update
// discards any provisional display state for the ride
func TestApplyRemote_ClearsProvisionalState(t *testing.T) {
	s := newTestStore(&fakeDispatch{})
	s.ApplyRemote(ride.Ride{ID: "r1", Status: ride.StatusDriverPinged, AssignedDriverID: "d1"})

	s.mu.Lock()
	s.provisional["r1"] = ProvisionalAccepting
	s.mu.Unlock()
	assert.Equal(t, ProvisionalAccepting, s.DisplayStatus("r1", "d1"))

	s.ApplyRemote(ride.Ride{ID: "r1", Status: ride.StatusCancelled})
	assert.Equal(t, string(ride.StatusCancelled), s.DisplayStatus("r1", "d1"))
}

// TestApplyOffer_ReplacesSnapshotWholesale tests that each snapshot fully
// replaces the previous one, including backward jumps in the countdown
func TestApplyOffer_ReplacesSnapshotWholesale(t *testing.T) {
	s := newTestStore(&fakeDispatch{})
	s.ApplyRemote(ride.Ride{ID: "r1", Status: ride.StatusDriverPinged, AssignedDriverID: "d1"})

	s.ApplyOffer("r1", "d1", gateway.PingStatus{RemainingSeconds: 4, RideStatus: ride.StatusDriverPinged, Pinged: true})
	s.ApplyOffer("r1", "d1", gateway.PingStatus{RemainingSeconds: 9, RideStatus: ride.StatusDriverPinged, Pinged: true})

	snap, ok := s.Offer("r1", "d1")
	require.True(t, ok)
	assert.Equal(t, 9, snap.RemainingSeconds, "later snapshot wins even when it jumps backward in time")
	assert.False(t, snap.Expired())
}

// TestApplyOffer_ZeroRemainingExpiresRide tests that a zero countdown expires
// the offer and records EXPIRED on a still-pending ride
func TestApplyOffer_ZeroRemainingExpiresRide(t *testing.T) {
	s := newTestStore(&fakeDispatch{})
	s.ApplyRemote(ride.Ride{ID: "r1", Status: ride.StatusDriverPinged, AssignedDriverID: "d1"})

	snap := s.ApplyOffer("r1", "d1", gateway.PingStatus{RemainingSeconds: 0, RideStatus: ride.StatusDriverPinged, Pinged: true})

	assert.True(t, snap.Expired())
	r, ok := s.Ride("r1")
	require.True(t, ok)
	assert.Equal(t, ride.StatusExpired, r.Status)
	assert.Equal(t, string(ride.StatusExpired), s.DisplayStatus("r1", "d1"))
}

// TestApplyOffer_ZeroRemainingKeepsTerminalStatus tests that an expired window
// does not rewrite a ride that already reached a different terminal state
func TestApplyOffer_ZeroRemainingKeepsTerminalStatus(t *testing.T) {
	s := newTestStore(&fakeDispatch{})
	s.ApplyRemote(ride.Ride{ID: "r1", Status: ride.StatusCancelled, AssignedDriverID: "d1"})

	s.ApplyOffer("r1", "d1", gateway.PingStatus{RemainingSeconds: 0, RideStatus: ""})

	r, _ := s.Ride("r1")
	assert.Equal(t, ride.StatusCancelled, r.Status)
	assert.Equal(t, string(ride.StatusCancelled), s.DisplayStatus("r1", "d1"))
}

// TestApplyOffer_ZeroRemainingKeepsAcceptedStatus tests that the offer window
// running out never demotes a ride the driver already accepted
func TestApplyOffer_ZeroRemainingKeepsAcceptedStatus(t *testing.T) {
	s := newTestStore(&fakeDispatch{})
	s.ApplyRemote(ride.Ride{ID: "r2", Status: ride.StatusAccepted, AssignedDriverID: "d2"})

	snap := s.ApplyOffer("r2", "d2", gateway.PingStatus{RemainingSeconds: 0, RideStatus: ride.StatusAccepted, CurrentlyAssigned: true})

	assert.True(t, snap.Expired())
	r, ok := s.Ride("r2")
	require.True(t, ok)
	assert.Equal(t, ride.StatusAccepted, r.Status)
	assert.Equal(t, string(ride.StatusAccepted), s.DisplayStatus("r2", "d2"))
}

// TestAccept_RefusedLocallyOnExpiredOffer tests that an accept against a
// closed window fails locally with no network call at all
func TestAccept_RefusedLocallyOnExpiredOffer(t *testing.T) {
	dispatch := &fakeDispatch{}
	s := newTestStore(dispatch)
	s.ApplyRemote(ride.Ride{ID: "r1", Status: ride.StatusDriverPinged, AssignedDriverID: "d1"})
	s.ApplyOffer("r1", "d1", gateway.PingStatus{RemainingSeconds: 0, RideStatus: ride.StatusDriverPinged})

	err := s.Accept(context.Background(), "r1", "d1")

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidTransition))
	assert.Equal(t, 0, dispatch.acceptCalls, "no network call on a locally refused action")
}

// TestAccept_RefusedLocallyFromTerminalStatus tests the transition guard
func TestAccept_RefusedLocallyFromTerminalStatus(t *testing.T) {
	dispatch := &fakeDispatch{}
	s := newTestStore(dispatch)
	s.ApplyRemote(ride.Ride{ID: "r1", Status: ride.StatusCancelled})

	err := s.Accept(context.Background(), "r1", "d1")

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidTransition))
	assert.Equal(t, 0, dispatch.acceptCalls)
}

// TestAccept_AppliesEchoedRide tests that a successful accept applies the
// ride echoed by the service and clears the provisional state
func TestAccept_AppliesEchoedRide(t *testing.T) {
	dispatch := &fakeDispatch{
		acceptRide: &ride.Ride{ID: "r1", Status: ride.StatusAccepted, AssignedDriverID: "d1"},
	}
	s := newTestStore(dispatch)
	s.ApplyRemote(ride.Ride{ID: "r1", Status: ride.StatusDriverPinged, AssignedDriverID: "d1"})
	s.ApplyOffer("r1", "d1", gateway.PingStatus{RemainingSeconds: 7, RideStatus: ride.StatusDriverPinged, Pinged: true})

	err := s.Accept(context.Background(), "r1", "d1")

	require.NoError(t, err)
	assert.Equal(t, 1, dispatch.acceptCalls)
	r, _ := s.Ride("r1")
	assert.Equal(t, ride.StatusAccepted, r.Status)
	assert.Equal(t, string(ride.StatusAccepted), s.DisplayStatus("r1", "d1"))
}

// TestAccept_FailureClearsProvisionalState tests that a rejected accept never
// leaves the provisional ACCEPTING state behind
func TestAccept_FailureClearsProvisionalState(t *testing.T) {
	dispatch := &fakeDispatch{acceptErr: apperrors.RemoteRejected("ride already taken")}
	s := newTestStore(dispatch)
	s.ApplyRemote(ride.Ride{ID: "r1", Status: ride.StatusDriverPinged, AssignedDriverID: "d1"})

	err := s.Accept(context.Background(), "r1", "d1")

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeRemoteRejected))
	assert.Equal(t, string(ride.StatusDriverPinged), s.DisplayStatus("r1", "d1"))
}

// TestReject_RefusedLocallyOnExpiredOffer tests the same window guard on the
// reject path
func TestReject_RefusedLocallyOnExpiredOffer(t *testing.T) {
	dispatch := &fakeDispatch{}
	s := newTestStore(dispatch)
	s.ApplyRemote(ride.Ride{ID: "r1", Status: ride.StatusDriverPinged, AssignedDriverID: "d1"})
	s.ApplyOffer("r1", "d1", gateway.PingStatus{RemainingSeconds: 0})

	err := s.Reject(context.Background(), "r1", "d1")

	require.Error(t, err)
	assert.Equal(t, 0, dispatch.cancelCalls)
}

// TestCancel_RefusedFromTerminalStatus tests the rider-initiated cancel guard
func TestCancel_RefusedFromTerminalStatus(t *testing.T) {
	dispatch := &fakeDispatch{}
	s := newTestStore(dispatch)
	s.ApplyRemote(ride.Ride{ID: "r1", Status: ride.StatusCompleted})

	err := s.Cancel(context.Background(), "r1")

	require.Error(t, err)
	assert.Equal(t, 0, dispatch.cancelCalls)
}

// TestOfferCountdown_PollSequence tests a full offer lifetime: a countdown
// polled down to zero expires the ride and blocks the accept
func TestOfferCountdown_PollSequence(t *testing.T) {
	dispatch := &fakeDispatch{}
	s := newTestStore(dispatch)
	s.ApplyRemote(ride.Ride{ID: "r1", Status: ride.StatusDriverPinged, AssignedDriverID: "d1", Pickup: geo.Point{Lat: 12.97, Lng: 77.59}})

	for remaining := 9; remaining >= 0; remaining-- {
		snap := s.ApplyOffer("r1", "d1", gateway.PingStatus{
			RemainingSeconds: remaining,
			RideStatus:       ride.StatusDriverPinged,
			Pinged:           true,
		})
		assert.Equal(t, remaining, snap.RemainingSeconds)
	}

	r, _ := s.Ride("r1")
	assert.Equal(t, ride.StatusExpired, r.Status)
	err := s.Accept(context.Background(), "r1", "d1")
	require.Error(t, err)
	assert.Equal(t, 0, dispatch.acceptCalls)
}
