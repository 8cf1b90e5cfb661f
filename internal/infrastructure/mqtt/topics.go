package mqtt

import (
	"fmt"
	"strings"
)

// Topic prefixes for the CrewSense MQTT namespace.
//
// The scheme is flat: crewsense/{category}/{unit_id}. Units publish raw
// vitals under telemetry/, Core publishes merged readings retained under
// state/, and system/ carries Core's own liveness status.
const (
	// TopicPrefix is the base for all CrewSense topics.
	TopicPrefix = "crewsense"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "crewsense/system"
)

// Topics provides builders for CrewSense MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	stateTopic := topics.UnitState("FF1")
//	// Returns: "crewsense/state/FF1"
type Topics struct{}

// UnitTelemetry returns the topic a unit publishes vitals to.
//
// Example: crewsense/telemetry/FF1
func (Topics) UnitTelemetry(unitID string) string {
	return fmt.Sprintf("%s/telemetry/%s", TopicPrefix, unitID)
}

// AllUnitTelemetry returns the wildcard subscription covering telemetry
// from every unit.
//
// Example: crewsense/telemetry/+
func (Topics) AllUnitTelemetry() string {
	return TopicPrefix + "/telemetry/+"
}

// UnitState returns the topic Core publishes a unit's merged reading to.
// Messages on this topic are retained so late subscribers see current state.
//
// Example: crewsense/state/FF1
func (Topics) UnitState(unitID string) string {
	return fmt.Sprintf("%s/state/%s", TopicPrefix, unitID)
}

// SystemStatus returns the topic for Core's online/offline status.
// Used for both the LWT and graceful shutdown messages.
//
// Example: crewsense/system/status
func (Topics) SystemStatus() string {
	return TopicPrefixSystem + "/status"
}

// UnitIDFromTopic extracts the unit id segment from a per-unit topic such as
// crewsense/telemetry/FF1. Returns "" when the topic has no unit segment.
func UnitIDFromTopic(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) != 3 || parts[0] != TopicPrefix {
		return ""
	}
	return parts[2]
}
