package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranyal-tech/dispatch-frontend/internal/domain/driver"
)

// TestStore_UpsertAndList tests the roster round trip and stable ordering
func TestStore_UpsertAndList(t *testing.T) {
	s := NewStore()
	s.Upsert(driver.Driver{ID: "d2", Name: "Ravi"})
	s.Upsert(driver.Driver{ID: "d1", Name: "Asha"})
	s.Upsert(driver.Driver{ID: "", Name: "ignored"})

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "d1", list[0].ID)
	assert.Equal(t, "d2", list[1].ID)
}

// TestStore_UpsertReplaces tests that a later record overwrites the local one
func TestStore_UpsertReplaces(t *testing.T) {
	s := NewStore()
	s.Upsert(driver.Driver{ID: "d1", Name: "Asha", Availability: driver.Offline})
	s.Upsert(driver.Driver{ID: "d1", Name: "Asha", Availability: driver.Online})

	d, ok := s.Get("d1")
	require.True(t, ok)
	assert.Equal(t, driver.Online, d.Availability)
}

// TestStore_SetAvailability tests the toggle and the returned previous value
func TestStore_SetAvailability(t *testing.T) {
	s := NewStore()
	s.Upsert(driver.Driver{ID: "d1", Availability: driver.Offline})

	prev, err := s.SetAvailability("d1", driver.Online)
	require.NoError(t, err)
	assert.Equal(t, driver.Offline, prev)

	d, _ := s.Get("d1")
	assert.Equal(t, driver.Online, d.Availability)

	_, err = s.SetAvailability("ghost", driver.Online)
	assert.ErrorIs(t, err, driver.ErrDriverNotFound)
}
