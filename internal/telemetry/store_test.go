package telemetry

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestUpsertCreatesReading(t *testing.T) {
	store := NewStore()

	got, err := store.Upsert(Update{ID: "FF1", HR: f(80), O2Pct: f(21)})
	if err != nil {
		t.Fatalf("Upsert() error: %v", err)
	}

	if got.ID != "FF1" {
		t.Errorf("ID = %q, want FF1", got.ID)
	}
	if got.HR == nil || *got.HR != 80 {
		t.Errorf("HR = %v, want 80", got.HR)
	}
	if got.CO2PPM != nil {
		t.Errorf("CO2PPM = %v, want nil (never reported)", got.CO2PPM)
	}
	if got.Status != StatusOK {
		t.Errorf("Status = %v, want OK", got.Status)
	}
	if got.LastUpdate.IsZero() {
		t.Error("LastUpdate not stamped")
	}
}

func TestUpsertMergesFields(t *testing.T) {
	store := NewStore()

	if _, err := store.Upsert(Update{ID: "FF1", HR: f(80), O2Pct: f(21)}); err != nil {
		t.Fatalf("first Upsert: %v", err)
	}

	got, err := store.Upsert(Update{ID: "FF1", HR: f(90)})
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	if got.HR == nil || *got.HR != 90 {
		t.Errorf("HR = %v, want 90 (overwritten)", got.HR)
	}
	if got.O2Pct == nil || *got.O2Pct != 21 {
		t.Errorf("O2Pct = %v, want 21 (retained)", got.O2Pct)
	}
}

func TestUpsertRecomputesStatus(t *testing.T) {
	store := NewStore()

	got, _ := store.Upsert(Update{ID: "FF1", O2Pct: f(18)})
	if got.Status != StatusAlert {
		t.Fatalf("Status = %v, want ALERT", got.Status)
	}

	// Recovery: status derives from merged vitals, not the previous tier.
	got, _ = store.Upsert(Update{ID: "FF1", O2Pct: f(21)})
	if got.Status != StatusOK {
		t.Errorf("Status = %v, want OK after recovery", got.Status)
	}
}

func TestUpsertMissingID(t *testing.T) {
	store := NewStore()

	if _, err := store.Upsert(Update{HR: f(80)}); !errors.Is(err, ErrMissingUnitID) {
		t.Fatalf("err = %v, want ErrMissingUnitID", err)
	}
	if store.Count() != 0 {
		t.Error("rejected update must not mutate the store")
	}
}

func TestLastUpdateMonotonic(t *testing.T) {
	store := NewStore()

	later := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return later }
	first, _ := store.Upsert(Update{ID: "FF1"})

	// Clock regression: stamp must not go backwards.
	store.now = func() time.Time { return later.Add(-time.Minute) }
	second, _ := store.Upsert(Update{ID: "FF1"})

	if second.LastUpdate.Before(first.LastUpdate) {
		t.Errorf("LastUpdate went backwards: %v -> %v", first.LastUpdate, second.LastUpdate)
	}
}

func TestGet(t *testing.T) {
	store := NewStore()
	store.Upsert(Update{ID: "FF1", HR: f(80)}) //nolint:errcheck

	if _, err := store.Get("FF1"); err != nil {
		t.Errorf("Get(FF1) error: %v", err)
	}
	if _, err := store.Get("nope"); !errors.Is(err, ErrUnitNotFound) {
		t.Errorf("Get(nope) err = %v, want ErrUnitNotFound", err)
	}
}

func TestListSnapshot(t *testing.T) {
	store := NewStore()
	store.Upsert(Update{ID: "FF1", HR: f(80)}) //nolint:errcheck
	store.Upsert(Update{ID: "FF2", HR: f(90)}) //nolint:errcheck

	snapshot := store.List()
	if len(snapshot) != 2 {
		t.Fatalf("len(List()) = %d, want 2", len(snapshot))
	}

	// Mutating the snapshot must not leak into the store.
	*snapshot[0].HR = 999
	fresh, _ := store.Get(snapshot[0].ID)
	if *fresh.HR == 999 {
		t.Error("List() returned store-owned pointers")
	}
}

func TestConcurrentUpserts(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(hr float64) {
			defer wg.Done()
			store.Upsert(Update{ID: "FF1", HR: f(hr), O2Pct: f(21)}) //nolint:errcheck
		}(float64(60 + i))
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.List()
			store.Get("FF1") //nolint:errcheck
		}()
	}
	wg.Wait()

	got, err := store.Get("FF1")
	if err != nil {
		t.Fatalf("Get after concurrent writes: %v", err)
	}
	// Whatever write won, the merged reading must be internally consistent.
	if got.HR == nil || got.O2Pct == nil {
		t.Error("partially-applied merge observed")
	}
	if store.Count() != 1 {
		t.Errorf("Count = %d, want 1", store.Count())
	}
}
