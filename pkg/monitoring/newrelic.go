package monitoring

import (
	"fmt"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
)

// Config holds New Relic configuration
type Config struct {
	LicenseKey string
	AppName    string
	Enabled    bool
}

// NewRelicApp wraps the New Relic application
type NewRelicApp struct {
	*newrelic.Application
	enabled bool
}

// New creates a new New Relic application
func New(cfg Config) (*NewRelicApp, error) {
	if !cfg.Enabled || cfg.LicenseKey == "" {
		// Return disabled app
		return &NewRelicApp{nil, false}, nil
	}

	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName(cfg.AppName),
		newrelic.ConfigLicense(cfg.LicenseKey),
		newrelic.ConfigDistributedTracerEnabled(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create New Relic application: %w", err)
	}

	return &NewRelicApp{app, true}, nil
}

// RecordCustomEvent records a custom event
func (nr *NewRelicApp) RecordCustomEvent(eventType string, params map[string]interface{}) {
	if !nr.enabled || nr.Application == nil {
		return
	}
	nr.Application.RecordCustomEvent(eventType, params)
}

// RecordCustomMetric records a custom metric
func (nr *NewRelicApp) RecordCustomMetric(name string, value float64) {
	if !nr.enabled || nr.Application == nil {
		return
	}
	nr.Application.RecordCustomMetric(name, value)
}

// Shutdown gracefully shuts down the New Relic application
func (nr *NewRelicApp) Shutdown(timeout time.Duration) {
	if !nr.enabled || nr.Application == nil {
		return
	}
	nr.Application.Shutdown(timeout)
}

// Custom metric helpers

// RecordOfferExpired records an offer reaching zero remaining seconds
func (nr *NewRelicApp) RecordOfferExpired(rideID, driverID string) {
	nr.RecordCustomEvent("OfferExpired", map[string]interface{}{
		"ride_id":   rideID,
		"driver_id": driverID,
		"timestamp": time.Now().Unix(),
	})
}

// RecordPollFailure records a failed reconciliation poll cycle
func (nr *NewRelicApp) RecordPollFailure(kind string) {
	nr.RecordCustomMetric(fmt.Sprintf("custom/console/poll_failure/%s", kind), 1)
}

// RecordAvailabilityRollback records an optimistic toggle reverted on failure
func (nr *NewRelicApp) RecordAvailabilityRollback(driverID string) {
	nr.RecordCustomEvent("AvailabilityRollback", map[string]interface{}{
		"driver_id": driverID,
		"timestamp": time.Now().Unix(),
	})
}

// RecordRideCreated records ride creation through the console
func (nr *NewRelicApp) RecordRideCreated(rideID string) {
	nr.RecordCustomEvent("RideCreated", map[string]interface{}{
		"ride_id":   rideID,
		"timestamp": time.Now().Unix(),
	})
}

// IsEnabled returns whether New Relic is enabled
func (nr *NewRelicApp) IsEnabled() bool {
	return nr.enabled
}
