package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranyal-tech/dispatch-frontend/internal/domain/driver"
	"github.com/ranyal-tech/dispatch-frontend/internal/domain/ride"
	apperrors "github.com/ranyal-tech/dispatch-frontend/pkg/errors"
	"github.com/ranyal-tech/dispatch-frontend/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 2*time.Second, logger.NewNop())
}

// TestListDrivers_NormalizesIDAliases tests that every observed id spelling
// maps onto the canonical field
func TestListDrivers_NormalizesIDAliases(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": "d1", "name": "Asha", "status": "ONLINE"},
			{"driverId": "d2", "name": "Ravi", "online": true},
			{"_id": "d3", "name": "Meera", "isOnline": false}
		]`))
	})

	drivers, err := c.ListDrivers(context.Background())

	require.NoError(t, err)
	require.Len(t, drivers, 3)
	assert.Equal(t, "d1", drivers[0].ID)
	assert.Equal(t, "d2", drivers[1].ID)
	assert.Equal(t, "d3", drivers[2].ID)
}

// TestListDrivers_NormalizesAvailabilitySpellings tests the availability
// spellings observed from the dispatch service
func TestListDrivers_NormalizesAvailabilitySpellings(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id": "d1", "status": "ONLINE"},
			{"id": "d2", "status": "ACTIVE"},
			{"id": "d3", "online": true},
			{"id": "d4", "isOnline": true},
			{"id": "d5", "available": true},
			{"id": "d6", "status": "OFFLINE"},
			{"id": "d7"}
		]`))
	})

	drivers, err := c.ListDrivers(context.Background())

	require.NoError(t, err)
	require.Len(t, drivers, 7)
	for i := 0; i < 5; i++ {
		assert.Equal(t, driver.Online, drivers[i].Availability, "driver %s", drivers[i].ID)
	}
	assert.Equal(t, driver.Offline, drivers[5].Availability)
	assert.Equal(t, driver.Offline, drivers[6].Availability, "absent flags default to offline")
}

// TestListRides_UnwrapsDataEnvelope tests that an enveloped response decodes
// the same as a bare one
func TestListRides_UnwrapsDataEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [{"rideId": "r1", "status": "driver_pinged", "assignedDriverId": "d1"}]}`))
	})

	rides, err := c.ListRides(context.Background())

	require.NoError(t, err)
	require.Len(t, rides, 1)
	assert.Equal(t, "r1", rides[0].ID)
	assert.Equal(t, ride.StatusDriverPinged, rides[0].Status, "status is upper-cased on the way in")
	assert.Equal(t, "d1", rides[0].AssignedDriverID)
}

// TestListRides_DestinationAliasForDrop tests the drop field doubling as
// destination
func TestListRides_DestinationAliasForDrop(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": "r1", "status": "REQUESTED", "destination": {"lat": 12.9, "lng": 77.6}}]`))
	})

	rides, err := c.ListRides(context.Background())

	require.NoError(t, err)
	require.Len(t, rides, 1)
	require.NotNil(t, rides[0].Drop)
	assert.InDelta(t, 12.9, rides[0].Drop.Lat, 1e-9)
}

// TestGetPingStatus_StatusAlias tests the rideStatus/status alias on the
// ping-status response
func TestGetPingStatus_StatusAlias(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rides/r1/drivers/d1/ping-status", r.URL.Path)
		w.Write([]byte(`{"remainingSeconds": 7, "status": "driver_pinged", "pinged": true}`))
	})

	status, err := c.GetPingStatus(context.Background(), "r1", "d1")

	require.NoError(t, err)
	assert.Equal(t, 7, status.RemainingSeconds)
	assert.Equal(t, ride.StatusDriverPinged, status.RideStatus)
	assert.True(t, status.Pinged)
}

// TestDo_NonSuccessMapsToRemoteRejected tests the error mapping with the
// server message carried through
func TestDo_NonSuccessMapsToRemoteRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message": "ride already assigned"}`))
	})

	_, err := c.GetPingStatus(context.Background(), "r1", "d1")

	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeRemoteRejected, appErr.Code)
	assert.Equal(t, "ride already assigned", appErr.Message)
	assert.Equal(t, http.StatusConflict, appErr.Status)
}

// TestDo_ErrorBodyFallsBackToErrorField tests the alternate error body shape
func TestDo_ErrorBodyFallsBackToErrorField(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "pickup out of service area"}`))
	})

	_, err := c.ListRides(context.Background())

	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "pickup out of service area", appErr.Message)
}

// TestDo_TransportFailureMapsToNetworkFailure tests the connection-level
// mapping
func TestDo_TransportFailureMapsToNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()
	c := New(srv.URL, time.Second, logger.NewNop())

	_, err := c.ListDrivers(context.Background())

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNetworkFailure))
}

// TestAcceptRide_AckOnlyResponse tests that an ack body without a ride
// payload yields no ride and no error
func TestAcceptRide_AckOnlyResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"message": "accepted"}`))
	})

	updated, err := c.AcceptRide(context.Background(), "r1", "d1")

	require.NoError(t, err)
	assert.Nil(t, updated)
}

// TestAcceptRide_EchoedRideResponse tests that an echoed ride decodes
func TestAcceptRide_EchoedRideResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"id": "r1", "status": "ACCEPTED", "assignedDriverId": "d1"}}`))
	})

	updated, err := c.AcceptRide(context.Background(), "r1", "d1")

	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, ride.StatusAccepted, updated.Status)
}

// TestCancelRide_DriverScopedRoute tests that a driver id routes through the
// driver-scoped cancel path
func TestCancelRide_DriverScopedRoute(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{}`))
	})

	_, err := c.CancelRide(context.Background(), "r1", "d1")
	require.NoError(t, err)
	assert.Equal(t, "/rides/r1/cancel/driver/d1", gotPath)

	_, err = c.CancelRide(context.Background(), "r1", "")
	require.NoError(t, err)
	assert.Equal(t, "/rides/r1/cancel", gotPath)
}

// TestListRidesForDriver_FillsMissingDriverID tests the listing backfill
func TestListRidesForDriver_FillsMissingDriverID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/drivers/d1/rides", r.URL.Path)
		w.Write([]byte(`[{"rideId": "r1", "rideStatus": "DRIVER_PINGED", "pinged": true, "currentlyAssigned": false}]`))
	})

	listing, err := c.ListRidesForDriver(context.Background(), "d1")

	require.NoError(t, err)
	require.Len(t, listing, 1)
	assert.Equal(t, "d1", listing[0].DriverID)
	assert.True(t, listing[0].Pinged)
}

// TestSetDriverAvailability_Routes tests the online/offline path selection
func TestSetDriverAvailability_Routes(t *testing.T) {
	var gotMethod, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.Write([]byte(`{}`))
	})

	require.NoError(t, c.SetDriverAvailability(context.Background(), "d1", driver.Online))
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/drivers/d1/online", gotPath)

	require.NoError(t, c.SetDriverAvailability(context.Background(), "d1", driver.Offline))
	assert.Equal(t, "/drivers/d1/offline", gotPath)
}
