package media

import (
	"context"
	"io"
	"time"
)

// Logger defines the logging interface used by the Store.
// This allows different logging implementations to be used.
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

// Options configures the media ingestion pipeline.
type Options struct {
	// Frame is the geometry and padding policy for image sample buffers.
	Frame FrameSpec

	// MaxVideoBytes is the size ceiling for a single video payload.
	MaxVideoBytes int64
}

// Store is the media ingestion pipeline and index.
//
// It pairs the record index (Repository) with binary storage (BlobStore)
// and keeps the two consistent: a record is only created after its binary
// is durably written, and a failed index insert rolls the binary back.
//
// All public methods are thread-safe.
type Store struct {
	repo   Repository
	blobs  *BlobStore
	opts   Options
	logger Logger
	now    func() time.Time // injectable for tests
}

// NewStore creates a media store over the given index and blob storage.
func NewStore(repo Repository, blobs *BlobStore, opts Options) *Store {
	return &Store{
		repo:   repo,
		blobs:  blobs,
		opts:   opts,
		logger: noopLogger{},
		now:    time.Now,
	}
}

// SetLogger sets the logger for the store.
func (s *Store) SetLogger(logger Logger) {
	s.logger = logger
}

// MaxVideoBytes returns the configured video payload ceiling.
func (s *Store) MaxVideoBytes() int64 {
	return s.opts.MaxVideoBytes
}

// CreateImage reconstructs a PNG from a flat intensity sample buffer,
// persists it, and indexes the result.
//
// Validation (device id present, payload present, buffer length policy)
// happens before any storage side effect. SizeBytes on the returned record
// is the encoded PNG size.
func (s *Store) CreateImage(ctx context.Context, deviceID string, samples []int) (Record, error) {
	if deviceID == "" {
		return Record{}, ErrMissingDeviceID
	}
	if len(samples) == 0 {
		return Record{}, ErrMissingPayload
	}

	data, err := encodeFrame(samples, s.opts.Frame)
	if err != nil {
		return Record{}, err
	}

	capturedAt := s.now().UTC()
	ref, err := s.blobs.Save(KindImage, deviceID, capturedAt, ".png", data)
	if err != nil {
		return Record{}, err
	}

	record := Record{
		DeviceID:   deviceID,
		Kind:       KindImage,
		StorageRef: ref,
		SizeBytes:  int64(len(data)),
		CapturedAt: capturedAt,
	}
	if err := s.index(ctx, &record); err != nil {
		return Record{}, err
	}

	s.logger.Info("image stored",
		"device_id", deviceID,
		"storage_ref", ref,
		"size_bytes", record.SizeBytes,
	)
	return record, nil
}

// CreateVideo persists an opaque video payload byte-for-byte and indexes it.
//
// The ext parameter preserves the uploaded file extension so stored blobs
// stay playable; callers pass ".mp4" when the upload carries none. Payloads
// over the configured ceiling are rejected with ErrVideoTooLarge and leave
// no trace on disk.
func (s *Store) CreateVideo(ctx context.Context, deviceID, ext string, payload io.Reader) (Record, error) {
	if deviceID == "" {
		return Record{}, ErrMissingDeviceID
	}
	if payload == nil {
		return Record{}, ErrMissingPayload
	}

	capturedAt := s.now().UTC()
	ref, size, err := s.blobs.SaveStream(KindVideo, deviceID, capturedAt, ext, payload, s.opts.MaxVideoBytes)
	if err != nil {
		return Record{}, err
	}
	if size == 0 {
		// An empty stream produced an empty file: treat as a missing payload.
		s.blobs.Remove(ref) //nolint:errcheck // Best-effort cleanup
		return Record{}, ErrMissingPayload
	}

	record := Record{
		DeviceID:   deviceID,
		Kind:       KindVideo,
		StorageRef: ref,
		SizeBytes:  size,
		CapturedAt: capturedAt,
	}
	if err := s.index(ctx, &record); err != nil {
		return Record{}, err
	}

	s.logger.Info("video stored",
		"device_id", deviceID,
		"storage_ref", ref,
		"size_bytes", size,
	)
	return record, nil
}

// index inserts the record, rolling the binary back if the insert fails so
// the index never references a binary that was not durably recorded and the
// disk never accumulates unindexed blobs from failed creates.
func (s *Store) index(ctx context.Context, record *Record) error {
	if err := s.repo.Create(ctx, record); err != nil {
		if rmErr := s.blobs.Remove(record.StorageRef); rmErr != nil {
			s.logger.Error("failed to roll back blob after index error",
				"storage_ref", record.StorageRef,
				"error", rmErr,
			)
		}
		return err
	}
	return nil
}

// List returns records matching the filter, newest captured_at first.
func (s *Store) List(ctx context.Context, filter Filter) ([]Record, error) {
	return s.repo.List(ctx, filter)
}

// Get retrieves a single record by id.
func (s *Store) Get(ctx context.Context, id int64) (*Record, error) {
	return s.repo.GetByID(ctx, id)
}

// Delete removes the index entry and the backing binary.
//
// Returns ErrNotFound only when the index entry is absent. A missing backing
// file is tolerated: once the row is gone the delete has succeeded from the
// caller's perspective.
func (s *Store) Delete(ctx context.Context, id int64) error {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.blobs.Remove(record.StorageRef); err != nil {
		// The index entry is already gone; the orphaned blob is logged, not
		// surfaced, so delete stays idempotent for callers.
		s.logger.Warn("failed to remove media blob",
			"id", id,
			"storage_ref", record.StorageRef,
			"error", err,
		)
	}

	s.logger.Info("media deleted", "id", id, "storage_ref", record.StorageRef)
	return nil
}

// Count returns the number of indexed records.
func (s *Store) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
