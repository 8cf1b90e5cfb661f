package ingest

import (
	"context"
	"io"

	"github.com/crewsense/crewsense-core/internal/media"
	"github.com/crewsense/crewsense-core/internal/telemetry"
)

// Event types broadcast to observers on every accepted submission.
const (
	EventTelemetryUpdated = "telemetry.updated"
	EventMediaCreated     = "media.created"
)

// Broadcaster fans an event out to connected observers.
// Implementations must not block; slow observers are the hub's problem.
type Broadcaster interface {
	Broadcast(eventType string, payload any)
}

// VitalsSink receives a time-series copy of each reported vital.
// Satisfied by influxdb.Client.
type VitalsSink interface {
	WriteVital(unitID, vital string, value float64)
	WritePosition(unitID string, lat, lng float64)
}

// ReadingPublisher pushes a merged reading to an external state channel,
// such as a retained MQTT topic.
type ReadingPublisher interface {
	PublishReading(reading telemetry.Reading) error
}

// Logger defines the logging interface used by the Gateway.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Gateway is the single ingestion path for unit data.
//
// HTTP handlers and the MQTT bridge both submit through it, so merge,
// classification, broadcast, and history sinking behave identically no
// matter how a sample arrived.
//
// All methods are safe for concurrent use.
type Gateway struct {
	units *telemetry.Store
	media *media.Store
	hub   Broadcaster

	// Optional destinations; nil when not configured.
	vitals    VitalsSink
	publisher ReadingPublisher

	logger Logger
}

// NewGateway creates a gateway over the unit store, media store, and hub.
func NewGateway(units *telemetry.Store, mediaStore *media.Store, hub Broadcaster) *Gateway {
	return &Gateway{
		units:  units,
		media:  mediaStore,
		hub:    hub,
		logger: noopLogger{},
	}
}

// SetVitalsSink enables time-series copies of reported vitals.
func (g *Gateway) SetVitalsSink(sink VitalsSink) {
	g.vitals = sink
}

// SetPublisher enables external state publication of merged readings.
func (g *Gateway) SetPublisher(publisher ReadingPublisher) {
	g.publisher = publisher
}

// SetLogger sets the logger for the gateway.
func (g *Gateway) SetLogger(logger Logger) {
	g.logger = logger
}

// SubmitTelemetry merges a partial update into the unit store and fans the
// resulting reading out to observers.
//
// The returned Reading is the post-merge snapshot with derived status. On
// store error nothing is broadcast or sunk.
func (g *Gateway) SubmitTelemetry(_ context.Context, update telemetry.Update) (telemetry.Reading, error) {
	reading, err := g.units.Upsert(update)
	if err != nil {
		return telemetry.Reading{}, err
	}

	g.hub.Broadcast(EventTelemetryUpdated, reading)
	g.sinkVitals(update)
	g.publishState(reading)

	g.logger.Debug("telemetry accepted",
		"unit_id", reading.ID,
		"status", string(reading.Status),
	)
	return reading, nil
}

// SubmitImage runs a sample buffer through the media pipeline and announces
// the stored capture to observers.
func (g *Gateway) SubmitImage(ctx context.Context, deviceID string, samples []int) (media.Record, error) {
	record, err := g.media.CreateImage(ctx, deviceID, samples)
	if err != nil {
		return media.Record{}, err
	}

	g.hub.Broadcast(EventMediaCreated, record)
	return record, nil
}

// SubmitVideo persists a video payload and announces the stored capture to
// observers.
func (g *Gateway) SubmitVideo(ctx context.Context, deviceID, ext string, payload io.Reader) (media.Record, error) {
	record, err := g.media.CreateVideo(ctx, deviceID, ext, payload)
	if err != nil {
		return media.Record{}, err
	}

	g.hub.Broadcast(EventMediaCreated, record)
	return record, nil
}

// sinkVitals writes the fields present in this update to the history sink.
// Only what the unit actually reported is written; merged carry-over values
// would fabricate samples.
func (g *Gateway) sinkVitals(update telemetry.Update) {
	if g.vitals == nil {
		return
	}

	vitals := []struct {
		name  string
		value *float64
	}{
		{"hr", update.HR},
		{"o2pct", update.O2Pct},
		{"co2ppm", update.CO2PPM},
		{"temp_c", update.TempC},
		{"skin_temp_c", update.SkinTempC},
		{"battery_level", update.BatteryLevel},
		{"air_tank_pressure", update.AirTankPressure},
	}
	for _, v := range vitals {
		if v.value != nil {
			g.vitals.WriteVital(update.ID, v.name, *v.value)
		}
	}

	if update.Lat != nil && update.Lng != nil {
		g.vitals.WritePosition(update.ID, *update.Lat, *update.Lng)
	}
}

// publishState pushes the merged reading to the external state channel.
// Publication can block on broker acknowledgement, so it runs detached;
// failures are logged, never surfaced to the submitting unit.
func (g *Gateway) publishState(reading telemetry.Reading) {
	if g.publisher == nil {
		return
	}

	go func() {
		if err := g.publisher.PublishReading(reading); err != nil {
			g.logger.Warn("state publish failed",
				"unit_id", reading.ID,
				"error", err,
			)
		}
	}()
}
