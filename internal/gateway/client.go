package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ranyal-tech/dispatch-frontend/internal/domain/driver"
	"github.com/ranyal-tech/dispatch-frontend/internal/domain/geo"
	"github.com/ranyal-tech/dispatch-frontend/internal/domain/ride"
	apperrors "github.com/ranyal-tech/dispatch-frontend/pkg/errors"
	"github.com/ranyal-tech/dispatch-frontend/pkg/logger"
)

// Client is the typed adapter over the remote dispatch HTTP API. It owns all
// response-shape normalization; components above it only ever see canonical
// records. It keeps no state of its own.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *logger.Logger
}

// New creates a gateway client against the dispatch service base URL.
func New(baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  log,
	}
}

// ListDrivers fetches the full driver roster.
func (c *Client) ListDrivers(ctx context.Context) ([]driver.Driver, error) {
	body, err := c.do(ctx, http.MethodGet, "/drivers", nil)
	if err != nil {
		return nil, err
	}
	var records []driverRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, apperrors.NetworkFailure(fmt.Errorf("decode drivers: %w", err))
	}
	drivers := make([]driver.Driver, 0, len(records))
	for _, r := range records {
		drivers = append(drivers, r.canonical())
	}
	return drivers, nil
}

// RegisterDriver registers a new driver at the given location. The id is
// operator-supplied; the service may still issue its own, which wins.
func (c *Client) RegisterDriver(ctx context.Context, id string, location geo.Point) (driver.Driver, error) {
	payload := map[string]interface{}{
		"id":       id,
		"location": location,
	}
	body, err := c.do(ctx, http.MethodPost, "/drivers", payload)
	if err != nil {
		return driver.Driver{}, err
	}
	var record driverRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return driver.Driver{}, apperrors.NetworkFailure(fmt.Errorf("decode driver: %w", err))
	}
	registered := record.canonical()
	if registered.ID == "" {
		registered.ID = id
	}
	return registered, nil
}

// SetDriverAvailability flips the driver's online/offline flag remotely.
func (c *Client) SetDriverAvailability(ctx context.Context, driverID string, target driver.Availability) error {
	path := fmt.Sprintf("/drivers/%s/offline", driverID)
	if target == driver.Online {
		path = fmt.Sprintf("/drivers/%s/online", driverID)
	}
	_, err := c.do(ctx, http.MethodPatch, path, nil)
	return err
}

// CreateRide submits a new ride request. Drop is optional.
func (c *Client) CreateRide(ctx context.Context, pickup geo.Point, drop *geo.Point, idempotencyKey string) (ride.Ride, error) {
	payload := map[string]interface{}{
		"pickup": pickup,
	}
	if drop != nil {
		payload["drop"] = drop
	}
	if idempotencyKey != "" {
		payload["idempotencyKey"] = idempotencyKey
	}
	body, err := c.do(ctx, http.MethodPost, "/rides", payload)
	if err != nil {
		return ride.Ride{}, err
	}
	var record rideRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return ride.Ride{}, apperrors.NetworkFailure(fmt.Errorf("decode ride: %w", err))
	}
	return record.canonical(), nil
}

// ListRides fetches the full ride collection.
func (c *Client) ListRides(ctx context.Context) ([]ride.Ride, error) {
	body, err := c.do(ctx, http.MethodGet, "/rides", nil)
	if err != nil {
		return nil, err
	}
	var records []rideRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, apperrors.NetworkFailure(fmt.Errorf("decode rides: %w", err))
	}
	rides := make([]ride.Ride, 0, len(records))
	for _, r := range records {
		rides = append(rides, r.canonical())
	}
	return rides, nil
}

// ListRidesForDriver fetches the per-driver listing with assignment flags.
func (c *Client) ListRidesForDriver(ctx context.Context, driverID string) ([]DriverRide, error) {
	body, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/drivers/%s/rides", driverID), nil)
	if err != nil {
		return nil, err
	}
	var records []driverRideRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, apperrors.NetworkFailure(fmt.Errorf("decode driver rides: %w", err))
	}
	rides := make([]DriverRide, 0, len(records))
	for _, r := range records {
		dr := r.canonical()
		if dr.DriverID == "" {
			dr.DriverID = driverID
		}
		rides = append(rides, dr)
	}
	return rides, nil
}

// AcceptRide accepts the offer on behalf of the driver. When the service
// echoes the updated ride it is returned; an ack-only response yields nil.
func (c *Client) AcceptRide(ctx context.Context, rideID, driverID string) (*ride.Ride, error) {
	payload := map[string]interface{}{"driverId": driverID}
	body, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/rides/%s/accept", rideID), payload)
	if err != nil {
		return nil, err
	}
	return decodeOptionalRide(body)
}

// CancelRide cancels or rejects the ride. A non-empty driverID routes through
// the driver-scoped cancel endpoint.
func (c *Client) CancelRide(ctx context.Context, rideID, driverID string) (*ride.Ride, error) {
	path := fmt.Sprintf("/rides/%s/cancel", rideID)
	if driverID != "" {
		path = fmt.Sprintf("/rides/%s/cancel/driver/%s", rideID, driverID)
	}
	body, err := c.do(ctx, http.MethodPost, path, nil)
	if err != nil {
		return nil, err
	}
	return decodeOptionalRide(body)
}

// GetPingStatus fetches the authoritative offer snapshot for (ride, driver).
func (c *Client) GetPingStatus(ctx context.Context, rideID, driverID string) (PingStatus, error) {
	body, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/rides/%s/drivers/%s/ping-status", rideID, driverID), nil)
	if err != nil {
		return PingStatus{}, err
	}
	var record pingStatusRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return PingStatus{}, apperrors.NetworkFailure(fmt.Errorf("decode ping status: %w", err))
	}
	return record.canonical(), nil
}

// do issues the request and returns the unwrapped response body. Transport
// failures map to NetworkFailure, non-2xx responses to RemoteRejected carrying
// the server message when one is present.
func (c *Client) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, apperrors.Internal("failed to encode request", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, apperrors.Internal("failed to build request", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.NetworkFailure(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NetworkFailure(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var remote remoteError
		_ = json.Unmarshal(unwrap(body), &remote)
		message := remote.Message
		if message == "" {
			message = remote.Error
		}
		c.logger.Debug("Dispatch service rejected request",
			logger.String("method", method),
			logger.String("path", path),
			logger.Int("status", resp.StatusCode),
			logger.String("message", message),
		)
		rejected := apperrors.RemoteRejected(message)
		rejected.Status = resp.StatusCode
		return nil, rejected
	}

	return unwrap(body), nil
}

func decodeOptionalRide(body []byte) (*ride.Ride, error) {
	if len(body) == 0 {
		return nil, nil
	}
	var record rideRecord
	if err := json.Unmarshal(body, &record); err != nil {
		// Ack bodies without a ride payload are fine.
		return nil, nil
	}
	canonical := record.canonical()
	if canonical.ID == "" || canonical.Status == "" {
		return nil, nil
	}
	return &canonical, nil
}
