// Package media implements the capture ingestion pipeline and index.
//
// Units submit two capture shapes: flat grayscale sample buffers that the
// pipeline reconstructs into PNG images, and opaque video blobs persisted
// byte-for-byte. Binaries are written to disk first and indexed second, so
// an index entry never outlives (or predates) its binary.
//
// The index lives in SQLite so stored binaries remain discoverable across
// restarts; unit state, by contrast, is ephemeral (see package telemetry).
package media
