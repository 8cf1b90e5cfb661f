// Package ingest routes incoming unit data to its destinations.
//
// The Gateway is the single entry point for telemetry and media regardless
// of transport: the HTTP handlers and the MQTT bridge both feed it. Every
// accepted submission updates the authoritative store, then fans out to
// observers (WebSocket hub), the optional vitals history sink (InfluxDB),
// and the optional retained state topic (MQTT).
//
// Fan-out is best-effort: a slow or absent observer never blocks or fails
// an ingestion. Only store errors surface to the submitting unit.
package ingest
