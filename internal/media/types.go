package media

import "time"

// Kind distinguishes the two capture shapes units can submit.
type Kind string

// Supported media kinds.
const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Valid reports whether k is a recognised media kind.
func (k Kind) Valid() bool {
	return k == KindImage || k == KindVideo
}

// Record is the index entry for a stored capture.
//
// Records are immutable once created; the only lifecycle transition is
// deletion, which removes both the index entry and the backing binary.
// IDs are assigned by the index in creation order.
type Record struct {
	ID         int64     `json:"id"`
	DeviceID   string    `json:"device_id"`
	Kind       Kind      `json:"kind"`
	StorageRef string    `json:"storage_ref"`
	SizeBytes  int64     `json:"size_bytes"`
	CapturedAt time.Time `json:"captured_at"`
}

// Filter narrows List results. Zero-value fields match everything;
// when both are set the predicates are ANDed.
type Filter struct {
	DeviceID string
	Kind     Kind
}
