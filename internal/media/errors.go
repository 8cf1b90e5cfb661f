package media

import "errors"

// Domain errors for the media package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, media.ErrNotFound) {
//	    // handle not found case
//	}
var (
	// ErrNotFound is returned when a media id does not exist in the index.
	ErrNotFound = errors.New("media: not found")

	// ErrMissingDeviceID is returned when a capture arrives without a device id.
	ErrMissingDeviceID = errors.New("media: device id is required")

	// ErrMissingPayload is returned when a capture arrives with no payload.
	ErrMissingPayload = errors.New("media: payload is required")

	// ErrShortSampleBuffer is returned for an undersized image sample buffer
	// when zero-fill padding is disabled.
	ErrShortSampleBuffer = errors.New("media: sample buffer shorter than frame")

	// ErrVideoTooLarge is returned when a video payload exceeds the size ceiling.
	ErrVideoTooLarge = errors.New("media: video exceeds size limit")
)
