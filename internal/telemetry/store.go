package telemetry

import (
	"sync"
	"time"
)

// Store holds the latest Reading per unit.
//
// State is deliberately ephemeral: readings live in memory only and are lost
// on restart. Exactly one Reading exists per unit id; writes merge into it.
//
// All public methods are thread-safe. Readers always observe a fully-merged
// Reading, never a partial write.
type Store struct {
	mu       sync.RWMutex
	readings map[string]*Reading
	now      func() time.Time // injectable for tests
}

// NewStore creates an empty state store.
func NewStore() *Store {
	return &Store{
		readings: make(map[string]*Reading),
		now:      time.Now,
	}
}

// Upsert merges an update into the unit's stored Reading and returns the
// result.
//
// Fields present in the update overwrite the stored value; nil fields retain
// the previous value. Status is always recomputed from the merged vitals and
// LastUpdate is stamped by the store — neither is ever taken from the caller.
// LastUpdate is monotonically non-decreasing per unit: if the wall clock
// reads earlier than the stored stamp, the stored stamp is reused.
//
// Returns ErrMissingUnitID when the update carries no unit id; no state is
// touched in that case.
func (s *Store) Upsert(update Update) (Reading, error) {
	if update.ID == "" {
		return Reading{}, ErrMissingUnitID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.readings[update.ID]
	if !ok {
		current = &Reading{ID: update.ID}
		s.readings[update.ID] = current
	}

	merge(current, update)
	current.Status = Classify(current.HR, current.O2Pct, current.CO2PPM)

	now := s.now().UTC()
	if now.After(current.LastUpdate) {
		current.LastUpdate = now
	}

	return current.clone(), nil
}

// Get retrieves the latest Reading for a unit.
// Returns ErrUnitNotFound if the unit has never reported.
func (s *Store) Get(id string) (Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.readings[id]
	if !ok {
		return Reading{}, ErrUnitNotFound
	}
	return r.clone(), nil
}

// List returns a snapshot of all readings. Order is unspecified.
// The snapshot reflects state at call time; later writes do not affect it.
func (s *Store) List() []Reading {
	s.mu.RLock()
	defer s.mu.RUnlock()

	readings := make([]Reading, 0, len(s.readings))
	for _, r := range s.readings {
		readings = append(readings, r.clone())
	}
	return readings
}

// Count returns the number of tracked units.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.readings)
}

// merge copies every non-nil update field onto the stored reading.
func merge(dst *Reading, update Update) {
	if update.HR != nil {
		dst.HR = clonePtr(update.HR)
	}
	if update.O2Pct != nil {
		dst.O2Pct = clonePtr(update.O2Pct)
	}
	if update.CO2PPM != nil {
		dst.CO2PPM = clonePtr(update.CO2PPM)
	}
	if update.TempC != nil {
		dst.TempC = clonePtr(update.TempC)
	}
	if update.SkinTempC != nil {
		dst.SkinTempC = clonePtr(update.SkinTempC)
	}
	if update.BatteryLevel != nil {
		dst.BatteryLevel = clonePtr(update.BatteryLevel)
	}
	if update.AirTankPressure != nil {
		dst.AirTankPressure = clonePtr(update.AirTankPressure)
	}
	if update.Lat != nil {
		dst.Lat = clonePtr(update.Lat)
	}
	if update.Lng != nil {
		dst.Lng = clonePtr(update.Lng)
	}
}
