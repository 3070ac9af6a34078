package reconcile

import (
	"sync"
	"time"

	"github.com/ranyal-tech/dispatch-frontend/pkg/logger"
)

type managerKey struct {
	rideID   string
	driverID string
}

// Manager owns the active reconcilers, one per tracked (ride, driver) offer.
// Loops that end on their own deregister themselves; teardown stops the rest.
type Manager struct {
	mu       sync.Mutex
	active   map[managerKey]*Reconciler
	interval time.Duration
	source   PingSource
	sink     OfferSink
	monitor  Monitor
	logger   *logger.Logger
}

// NewManager creates an empty manager. monitor may be nil.
func NewManager(interval time.Duration, source PingSource, sink OfferSink, monitor Monitor, log *logger.Logger) *Manager {
	return &Manager{
		active:   make(map[managerKey]*Reconciler),
		interval: interval,
		source:   source,
		sink:     sink,
		monitor:  monitor,
		logger:   log,
	}
}

// Track starts a reconciler for the offer unless one is already running.
func (m *Manager) Track(rideID, driverID string) {
	key := managerKey{rideID, driverID}

	m.mu.Lock()
	if _, running := m.active[key]; running {
		m.mu.Unlock()
		return
	}
	rec := New(rideID, driverID, m.interval, m.source, m.sink, m.logger)
	rec.monitor = m.monitor
	rec.onExit = func() { m.drop(key, rec) }
	m.active[key] = rec
	m.mu.Unlock()

	m.logger.Debug("Tracking offer",
		logger.String("ride_id", rideID),
		logger.String("driver_id", driverID),
	)
	go rec.Run()
}

// Stop tears down the reconciler for the offer, if any, and waits for it.
func (m *Manager) Stop(rideID, driverID string) {
	key := managerKey{rideID, driverID}

	m.mu.Lock()
	rec := m.active[key]
	delete(m.active, key)
	m.mu.Unlock()

	if rec != nil {
		rec.Stop()
	}
}

// StopAll tears down every active reconciler; used on shutdown.
func (m *Manager) StopAll() {
	m.mu.Lock()
	recs := make([]*Reconciler, 0, len(m.active))
	for _, rec := range m.active {
		recs = append(recs, rec)
	}
	m.active = make(map[managerKey]*Reconciler)
	m.mu.Unlock()

	for _, rec := range recs {
		rec.Stop()
	}
}

// Active reports how many offers are currently being polled.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}

// drop removes a loop that ended on its own.
func (m *Manager) drop(key managerKey, rec *Reconciler) {
	m.mu.Lock()
	if current, ok := m.active[key]; ok && current == rec {
		delete(m.active, key)
	}
	m.mu.Unlock()
}
