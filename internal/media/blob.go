package media

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Filesystem permission modes for blob storage.
const (
	blobDirPermissions  = 0o750
	blobFilePermissions = 0o640
)

// BlobStore persists media binaries on the local filesystem.
//
// Binaries live under root/images and root/videos. Storage refs are paths
// relative to root (e.g. "images/FF1-20260828T101500Z-1a2b3c4d.png") so the
// index stays valid if the root directory moves.
type BlobStore struct {
	root string
}

// NewBlobStore creates a blob store rooted at dir, creating the directory
// tree if needed.
func NewBlobStore(dir string) (*BlobStore, error) {
	for _, sub := range []string{subdirFor(KindImage), subdirFor(KindVideo)} {
		if err := os.MkdirAll(filepath.Join(dir, sub), blobDirPermissions); err != nil {
			return nil, fmt.Errorf("creating media directory: %w", err)
		}
	}
	return &BlobStore{root: dir}, nil
}

// Root returns the blob store's root directory.
func (b *BlobStore) Root() string {
	return b.root
}

// Save writes data to a new uniquely-named file and returns its storage ref.
func (b *BlobStore) Save(kind Kind, deviceID string, capturedAt time.Time, ext string, data []byte) (string, error) {
	ref := b.newRef(kind, deviceID, capturedAt, ext)
	if err := os.WriteFile(filepath.Join(b.root, ref), data, blobFilePermissions); err != nil {
		return "", fmt.Errorf("writing media blob: %w", err)
	}
	return ref, nil
}

// SaveStream copies from r into a new uniquely-named file, enforcing the
// byte limit. Returns the storage ref and the number of bytes written.
// If the stream exceeds limit the partial file is removed and
// ErrVideoTooLarge is returned.
func (b *BlobStore) SaveStream(kind Kind, deviceID string, capturedAt time.Time, ext string, r io.Reader, limit int64) (string, int64, error) {
	ref := b.newRef(kind, deviceID, capturedAt, ext)
	path := filepath.Join(b.root, ref)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, blobFilePermissions)
	if err != nil {
		return "", 0, fmt.Errorf("creating media blob: %w", err)
	}

	// Read one byte past the limit to distinguish "exactly limit" from "over".
	size, err := io.Copy(f, io.LimitReader(r, limit+1))
	closeErr := f.Close()

	switch {
	case err != nil:
		os.Remove(path) //nolint:errcheck // Best-effort cleanup of partial blob
		return "", 0, fmt.Errorf("writing media blob: %w", err)
	case closeErr != nil:
		os.Remove(path) //nolint:errcheck // Best-effort cleanup of partial blob
		return "", 0, fmt.Errorf("closing media blob: %w", closeErr)
	case size > limit:
		os.Remove(path) //nolint:errcheck // Best-effort cleanup of oversized blob
		return "", 0, fmt.Errorf("%w: limit %d bytes", ErrVideoTooLarge, limit)
	}

	return ref, size, nil
}

// Remove deletes the binary for a storage ref.
//
// A missing file is not an error: disk and index can diverge after external
// interference, and delete semantics only require that the binary is gone.
func (b *BlobStore) Remove(ref string) error {
	if err := os.Remove(filepath.Join(b.root, ref)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing media blob: %w", err)
	}
	return nil
}

// newRef builds a unique storage ref. The uuid fragment guarantees two
// captures from the same device in the same second get distinct files;
// uniqueness never depends on clock resolution.
func (b *BlobStore) newRef(kind Kind, deviceID string, capturedAt time.Time, ext string) string {
	name := fmt.Sprintf("%s-%s-%s%s",
		sanitizeID(deviceID),
		capturedAt.UTC().Format("20060102T150405Z"),
		uuid.NewString()[:8],
		ext,
	)
	return filepath.Join(subdirFor(kind), name)
}

// subdirFor maps a media kind to its storage subdirectory.
func subdirFor(kind Kind) string {
	if kind == KindVideo {
		return "videos"
	}
	return "images"
}

// sanitizeID strips characters from a device id that would be unsafe in a
// filename. Path separators and parent references must not reach the
// filesystem layer.
func sanitizeID(id string) string {
	var sb strings.Builder
	sb.Grow(len(id))
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String()
}
