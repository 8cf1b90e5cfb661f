package telemetry

import "testing"

func f(v float64) *float64 { return &v }

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		hr     *float64
		o2pct  *float64
		co2ppm *float64
		want   Status
	}{
		{"all nominal", f(80), f(21), f(400), StatusOK},
		{"low oxygen alert", f(100), f(18), f(500), StatusAlert},
		{"high heart rate alert", f(151), f(21), f(400), StatusAlert},
		{"high co2 alert", f(80), f(21), f(2001), StatusAlert},
		{"oxygen warning", f(140), f(19.5), f(100), StatusWarning},
		{"heart rate warning", f(131), f(21), f(400), StatusWarning},
		{"co2 warning", f(80), f(21), f(1501), StatusWarning},
		// Boundary values use strict comparisons: exactly on the ALERT
		// threshold falls into WARNING.
		{"alert boundaries are warning", f(150), f(19), f(2000), StatusWarning},
		{"warning boundaries are ok", f(130), f(20), f(1500), StatusOK},
		// Missing vitals never trigger a tier.
		{"all missing", nil, nil, nil, StatusOK},
		{"only bad hr reported", f(160), nil, nil, StatusAlert},
		{"only bad o2 reported", nil, f(19.5), nil, StatusWarning},
		// ALERT takes priority over WARNING when both tiers are crossed.
		{"alert wins over warning", f(135), f(18.5), f(1600), StatusAlert},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.hr, tt.o2pct, tt.co2ppm); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	for i := 0; i < 100; i++ {
		if got := Classify(f(150), f(19), f(2000)); got != StatusWarning {
			t.Fatalf("Classify() = %v, want WARNING", got)
		}
	}
}
