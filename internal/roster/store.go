package roster

import (
	"sort"
	"sync"
	"time"

	"github.com/ranyal-tech/dispatch-frontend/internal/domain/driver"
)

// Store is the console's driver collection. Availability is written only by
// the availability controller; everything else reads.
type Store struct {
	mu      sync.RWMutex
	drivers map[string]driver.Driver
	now     func() time.Time
}

// NewStore creates an empty roster.
func NewStore() *Store {
	return &Store{
		drivers: make(map[string]driver.Driver),
		now:     time.Now,
	}
}

// Upsert records an authoritative driver record, replacing any local copy.
func (s *Store) Upsert(d driver.Driver) {
	if d.ID == "" {
		return
	}
	s.mu.Lock()
	d.UpdatedAt = s.now()
	s.drivers[d.ID] = d
	s.mu.Unlock()
}

// Get returns the driver, if known.
func (s *Store) Get(id string) (driver.Driver, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drivers[id]
	return d, ok
}

// List returns all drivers ordered by id for stable display.
func (s *Store) List() []driver.Driver {
	s.mu.RLock()
	out := make([]driver.Driver, 0, len(s.drivers))
	for _, d := range s.drivers {
		out = append(out, d)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SetAvailability updates the displayed flag for one driver. Returns the
// previous value so callers can roll back.
func (s *Store) SetAvailability(id string, target driver.Availability) (driver.Availability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drivers[id]
	if !ok {
		return "", driver.ErrDriverNotFound
	}
	prev := d.Availability
	d.Availability = target
	d.UpdatedAt = s.now()
	s.drivers[id] = d
	return prev, nil
}
