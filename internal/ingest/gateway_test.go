package ingest

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/crewsense/crewsense-core/internal/media"
	"github.com/crewsense/crewsense-core/internal/telemetry"
)

// mockBroadcaster records broadcast events for assertions.
type mockBroadcaster struct {
	mu     sync.Mutex
	events []broadcastEvent
}

type broadcastEvent struct {
	eventType string
	payload   any
}

func (m *mockBroadcaster) Broadcast(eventType string, payload any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, broadcastEvent{eventType, payload})
}

func (m *mockBroadcaster) all() []broadcastEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]broadcastEvent(nil), m.events...)
}

// mockVitalsSink records vitals writes.
type mockVitalsSink struct {
	mu        sync.Mutex
	vitals    map[string]float64 // "unitID/vital" -> value
	positions int
}

func newMockVitalsSink() *mockVitalsSink {
	return &mockVitalsSink{vitals: make(map[string]float64)}
}

func (m *mockVitalsSink) WriteVital(unitID, vital string, value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vitals[unitID+"/"+vital] = value
}

func (m *mockVitalsSink) WritePosition(string, float64, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positions++
}

// mockPublisher signals each publication on a channel so tests can wait for
// the detached publish goroutine.
type mockPublisher struct {
	published chan telemetry.Reading
	err       error
}

func (m *mockPublisher) PublishReading(reading telemetry.Reading) error {
	m.published <- reading
	return m.err
}

// memRepository is a minimal in-memory media.Repository.
type memRepository struct {
	mu      sync.Mutex
	records map[int64]media.Record
	nextID  int64
}

func newMemRepository() *memRepository {
	return &memRepository{records: make(map[int64]media.Record)}
}

func (m *memRepository) Create(_ context.Context, record *media.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	record.ID = m.nextID
	m.records[record.ID] = *record
	return nil
}

func (m *memRepository) GetByID(_ context.Context, id int64) (*media.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.records[id]; ok {
		return &r, nil
	}
	return nil, media.ErrNotFound
}

func (m *memRepository) List(_ context.Context, _ media.Filter) ([]media.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	records := make([]media.Record, 0, len(m.records))
	for _, r := range m.records {
		records = append(records, r)
	}
	return records, nil
}

func (m *memRepository) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return media.ErrNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *memRepository) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records), nil
}

func testGateway(t *testing.T) (*Gateway, *mockBroadcaster) {
	t.Helper()

	blobs, err := media.NewBlobStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewBlobStore: %v", err)
	}
	mediaStore := media.NewStore(newMemRepository(), blobs, media.Options{
		Frame:         media.FrameSpec{Width: 4, Height: 4, PadShort: true},
		MaxVideoBytes: 1 << 20,
	})

	hub := &mockBroadcaster{}
	return NewGateway(telemetry.NewStore(), mediaStore, hub), hub
}

func f(v float64) *float64 { return &v }

func TestSubmitTelemetryBroadcasts(t *testing.T) {
	gw, hub := testGateway(t)

	reading, err := gw.SubmitTelemetry(context.Background(), telemetry.Update{
		ID: "FF1",
		HR: f(165),
	})
	if err != nil {
		t.Fatalf("SubmitTelemetry() error: %v", err)
	}
	if reading.Status != telemetry.StatusAlert {
		t.Errorf("Status = %v, want ALERT", reading.Status)
	}

	events := hub.all()
	if len(events) != 1 {
		t.Fatalf("broadcast %d events, want 1", len(events))
	}
	if events[0].eventType != EventTelemetryUpdated {
		t.Errorf("event type = %q", events[0].eventType)
	}
	got, ok := events[0].payload.(telemetry.Reading)
	if !ok || got.ID != "FF1" {
		t.Errorf("payload = %+v", events[0].payload)
	}
}

func TestSubmitTelemetryRejectedNothingBroadcast(t *testing.T) {
	gw, hub := testGateway(t)

	_, err := gw.SubmitTelemetry(context.Background(), telemetry.Update{HR: f(80)})
	if !errors.Is(err, telemetry.ErrMissingUnitID) {
		t.Fatalf("err = %v, want ErrMissingUnitID", err)
	}
	if len(hub.all()) != 0 {
		t.Error("rejected submission must not be broadcast")
	}
}

func TestSubmitTelemetrySinksOnlyReportedVitals(t *testing.T) {
	gw, hub := testGateway(t)
	_ = hub
	sink := newMockVitalsSink()
	gw.SetVitalsSink(sink)

	// First update establishes o2pct; second reports only hr. The sink must
	// not see a fabricated o2pct sample on the second write.
	if _, err := gw.SubmitTelemetry(context.Background(), telemetry.Update{ID: "FF1", O2Pct: f(20.5)}); err != nil {
		t.Fatal(err)
	}

	sink.mu.Lock()
	sink.vitals = make(map[string]float64)
	sink.mu.Unlock()

	if _, err := gw.SubmitTelemetry(context.Background(), telemetry.Update{ID: "FF1", HR: f(90)}); err != nil {
		t.Fatal(err)
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.vitals) != 1 {
		t.Fatalf("sank %d vitals, want 1: %v", len(sink.vitals), sink.vitals)
	}
	if sink.vitals["FF1/hr"] != 90 {
		t.Errorf("hr sample = %v", sink.vitals["FF1/hr"])
	}
}

func TestSubmitTelemetrySinksPosition(t *testing.T) {
	gw, _ := testGateway(t)
	sink := newMockVitalsSink()
	gw.SetVitalsSink(sink)

	if _, err := gw.SubmitTelemetry(context.Background(), telemetry.Update{
		ID: "FF1", Lat: f(51.5), Lng: f(-0.12),
	}); err != nil {
		t.Fatal(err)
	}
	// Lat without lng must not produce a half fix.
	if _, err := gw.SubmitTelemetry(context.Background(), telemetry.Update{
		ID: "FF1", Lat: f(51.6),
	}); err != nil {
		t.Fatal(err)
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if sink.positions != 1 {
		t.Errorf("sank %d positions, want 1", sink.positions)
	}
}

func TestSubmitTelemetryPublishesMergedState(t *testing.T) {
	gw, _ := testGateway(t)
	pub := &mockPublisher{published: make(chan telemetry.Reading, 1)}
	gw.SetPublisher(pub)

	if _, err := gw.SubmitTelemetry(context.Background(), telemetry.Update{ID: "FF1", HR: f(100)}); err != nil {
		t.Fatal(err)
	}

	select {
	case reading := <-pub.published:
		if reading.ID != "FF1" || reading.HR == nil || *reading.HR != 100 {
			t.Errorf("published reading = %+v", reading)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("reading was never published")
	}
}

func TestSubmitImageBroadcasts(t *testing.T) {
	gw, hub := testGateway(t)

	record, err := gw.SubmitImage(context.Background(), "FF1", []int{10, 20, 30})
	if err != nil {
		t.Fatalf("SubmitImage() error: %v", err)
	}

	events := hub.all()
	if len(events) != 1 || events[0].eventType != EventMediaCreated {
		t.Fatalf("events = %+v", events)
	}
	got, ok := events[0].payload.(media.Record)
	if !ok || got.ID != record.ID {
		t.Errorf("payload = %+v", events[0].payload)
	}
}

func TestSubmitVideoBroadcasts(t *testing.T) {
	gw, hub := testGateway(t)

	payload := bytes.Repeat([]byte{7}, 512)
	record, err := gw.SubmitVideo(context.Background(), "FF2", ".mp4", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("SubmitVideo() error: %v", err)
	}
	if record.SizeBytes != 512 {
		t.Errorf("SizeBytes = %d", record.SizeBytes)
	}

	events := hub.all()
	if len(events) != 1 || events[0].eventType != EventMediaCreated {
		t.Fatalf("events = %+v", events)
	}
}

func TestSubmitImageRejectedNothingBroadcast(t *testing.T) {
	gw, hub := testGateway(t)

	if _, err := gw.SubmitImage(context.Background(), "", []int{1}); !errors.Is(err, media.ErrMissingDeviceID) {
		t.Fatalf("err = %v, want ErrMissingDeviceID", err)
	}
	if len(hub.all()) != 0 {
		t.Error("rejected capture must not be broadcast")
	}
}
