package telemetry

// Vitals thresholds. Comparisons are strict: a value exactly on an ALERT
// threshold classifies as WARNING.
const (
	alertO2Pct    = 19.0
	alertHR       = 150.0
	alertCO2PPM   = 2000.0
	warningO2Pct  = 20.0
	warningHR     = 130.0
	warningCO2PPM = 1500.0
)

// Classify derives the safety tier from the three classified vitals.
//
// Tiers are evaluated in priority order (ALERT, then WARNING, else OK) with
// OR semantics inside each tier: any single vital crossing its threshold is
// sufficient. A nil vital never crosses a threshold, so a unit that has only
// reported a heart rate is classified on heart rate alone.
func Classify(hr, o2pct, co2ppm *float64) Status {
	if below(o2pct, alertO2Pct) || above(hr, alertHR) || above(co2ppm, alertCO2PPM) {
		return StatusAlert
	}
	if below(o2pct, warningO2Pct) || above(hr, warningHR) || above(co2ppm, warningCO2PPM) {
		return StatusWarning
	}
	return StatusOK
}

func below(v *float64, threshold float64) bool {
	return v != nil && *v < threshold
}

func above(v *float64, threshold float64) bool {
	return v != nil && *v > threshold
}
