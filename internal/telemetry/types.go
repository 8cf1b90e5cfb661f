package telemetry

import "time"

// Status is the derived safety tier for a unit.
type Status string

// Status tiers, ordered by severity.
const (
	StatusOK      Status = "OK"
	StatusWarning Status = "WARNING"
	StatusAlert   Status = "ALERT"
)

// Reading is the latest known snapshot for a single wearable unit.
//
// Vitals and coordinates are pointers because units report them
// independently: a unit with no GPS fix sends no lat/lng, a unit whose
// tank sensor is offline sends no air_tank_pressure. A nil field means
// "never reported", not zero.
type Reading struct {
	ID string `json:"id"`

	// Vitals
	HR              *float64 `json:"hr,omitempty"`
	O2Pct           *float64 `json:"o2pct,omitempty"`
	CO2PPM          *float64 `json:"co2ppm,omitempty"`
	TempC           *float64 `json:"temp_c,omitempty"`
	SkinTempC       *float64 `json:"skin_temp_c,omitempty"`
	BatteryLevel    *float64 `json:"battery_level,omitempty"`
	AirTankPressure *float64 `json:"air_tank_pressure,omitempty"`

	// Location
	Lat *float64 `json:"lat,omitempty"`
	Lng *float64 `json:"lng,omitempty"`

	// Derived by the store on every write; never accepted from callers.
	Status     Status    `json:"status"`
	LastUpdate time.Time `json:"last_update"`
}

// Update is a partial reading submitted by a unit. Fields left nil retain
// the previously stored value during merge.
type Update struct {
	ID string `json:"id"`

	HR              *float64 `json:"hr,omitempty"`
	O2Pct           *float64 `json:"o2pct,omitempty"`
	CO2PPM          *float64 `json:"co2ppm,omitempty"`
	TempC           *float64 `json:"temp_c,omitempty"`
	SkinTempC       *float64 `json:"skin_temp_c,omitempty"`
	BatteryLevel    *float64 `json:"battery_level,omitempty"`
	AirTankPressure *float64 `json:"air_tank_pressure,omitempty"`

	Lat *float64 `json:"lat,omitempty"`
	Lng *float64 `json:"lng,omitempty"`
}

// clone returns an independent copy of the Reading. Pointer fields are
// re-allocated so callers can never mutate store-owned values.
func (r *Reading) clone() Reading {
	cpy := *r
	cpy.HR = clonePtr(r.HR)
	cpy.O2Pct = clonePtr(r.O2Pct)
	cpy.CO2PPM = clonePtr(r.CO2PPM)
	cpy.TempC = clonePtr(r.TempC)
	cpy.SkinTempC = clonePtr(r.SkinTempC)
	cpy.BatteryLevel = clonePtr(r.BatteryLevel)
	cpy.AirTankPressure = clonePtr(r.AirTankPressure)
	cpy.Lat = clonePtr(r.Lat)
	cpy.Lng = clonePtr(r.Lng)
	return cpy
}

func clonePtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	cpy := *v
	return &cpy
}
