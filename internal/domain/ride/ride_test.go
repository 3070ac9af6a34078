package ride

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestStatus_IsTerminal tests terminal state classification
func TestStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status   Status
		terminal bool
	}{
		{StatusRequested, false},
		{StatusDriverPinged, false},
		{StatusAccepted, false},
		{StatusCancelled, true},
		{StatusExpired, true},
		{StatusCompleted, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
		})
	}
}

// TestStatus_CanTransitionTo tests the transition legality table
func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"Requested to accepted", StatusRequested, StatusAccepted, true},
		{"Requested to cancelled", StatusRequested, StatusCancelled, true},
		{"Pinged to accepted", StatusDriverPinged, StatusAccepted, true},
		{"Pinged to cancelled", StatusDriverPinged, StatusCancelled, true},
		{"Pinged to expired", StatusDriverPinged, StatusExpired, true},
		{"Accepted to accepted", StatusAccepted, StatusAccepted, false},
		{"Accepted to cancelled", StatusAccepted, StatusCancelled, false},
		{"Cancelled to accepted", StatusCancelled, StatusAccepted, false},
		{"Expired to accepted", StatusExpired, StatusAccepted, false},
		{"Expired to cancelled", StatusExpired, StatusCancelled, false},
		{"Completed to anything", StatusCompleted, StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

// TestRide_CanAcceptCanCancel tests the action guards on a ride
func TestRide_CanAcceptCanCancel(t *testing.T) {
	requested := Ride{ID: "r1", Status: StatusRequested}
	assert.True(t, requested.CanAccept())
	assert.True(t, requested.CanCancel())

	expired := Ride{ID: "r2", Status: StatusExpired}
	assert.False(t, expired.CanAccept())
	assert.False(t, expired.CanCancel())

	accepted := Ride{ID: "r3", Status: StatusAccepted}
	assert.False(t, accepted.CanAccept())
}
