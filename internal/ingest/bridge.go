package ingest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/crewsense/crewsense-core/internal/infrastructure/mqtt"
	"github.com/crewsense/crewsense-core/internal/telemetry"
)

// Subscriber is the slice of the MQTT client the bridge needs.
type Subscriber interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// Bridge feeds telemetry published on the broker into the Gateway.
//
// Units in the field publish partial vitals as JSON to
// crewsense/telemetry/{unit_id}; the bridge decodes each message and submits
// it through the same path HTTP submissions take.
type Bridge struct {
	gateway *Gateway
	qos     byte
}

// NewBridge creates a bridge that submits broker telemetry to the gateway.
func NewBridge(gateway *Gateway, qos byte) *Bridge {
	return &Bridge{gateway: gateway, qos: qos}
}

// Attach subscribes the bridge to the unit telemetry wildcard topic.
// Subscriptions survive reconnects; Attach is called once at startup.
func (b *Bridge) Attach(client Subscriber) error {
	return client.Subscribe(mqtt.Topics{}.AllUnitTelemetry(), b.qos, b.HandleMessage)
}

// HandleMessage decodes one telemetry message and submits it.
//
// The unit id normally rides in the topic; a body id wins when both are
// present so units can relay for each other.
func (b *Bridge) HandleMessage(topic string, payload []byte) error {
	var update telemetry.Update
	if err := json.Unmarshal(payload, &update); err != nil {
		return fmt.Errorf("ingest: decoding telemetry on %s: %w", topic, err)
	}

	if update.ID == "" {
		update.ID = mqtt.UnitIDFromTopic(topic)
	}

	if _, err := b.gateway.SubmitTelemetry(context.Background(), update); err != nil {
		return fmt.Errorf("ingest: submitting telemetry on %s: %w", topic, err)
	}
	return nil
}

// StatePublisher publishes merged readings retained on the broker so any
// subscriber sees current unit state immediately. Implements ReadingPublisher.
type StatePublisher struct {
	client *mqtt.Client
}

// NewStatePublisher creates a publisher over a connected MQTT client.
func NewStatePublisher(client *mqtt.Client) *StatePublisher {
	return &StatePublisher{client: client}
}

// PublishReading publishes the reading retained on crewsense/state/{unit_id}.
func (p *StatePublisher) PublishReading(reading telemetry.Reading) error {
	payload, err := json.Marshal(reading)
	if err != nil {
		return fmt.Errorf("ingest: encoding reading for %s: %w", reading.ID, err)
	}
	return p.client.PublishRetained(mqtt.Topics{}.UnitState(reading.ID), payload)
}
