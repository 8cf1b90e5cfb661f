// Package mqtt wraps paho.mqtt.golang for the CrewSense broker link.
//
// Core subscribes to crewsense/telemetry/+ for vitals published by wearable
// units in the field, republishes merged readings retained on
// crewsense/state/{unit_id}, and announces its own liveness on
// crewsense/system/status (with an LWT for crash detection).
//
// The client handles reconnection with exponential backoff and restores
// subscriptions automatically after a connection drop.
package mqtt
