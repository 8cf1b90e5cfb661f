package telemetry

import "errors"

// Domain errors for the telemetry package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, telemetry.ErrUnitNotFound) {
//	    // handle not found case
//	}
var (
	// ErrUnitNotFound is returned when a unit id does not exist in the store.
	ErrUnitNotFound = errors.New("telemetry: unit not found")

	// ErrMissingUnitID is returned when an update arrives without a unit id.
	ErrMissingUnitID = errors.New("telemetry: unit id is required")
)
