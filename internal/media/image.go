package media

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
)

// FrameSpec describes the fixed geometry of inbound image sample buffers
// and the policy for undersized buffers.
type FrameSpec struct {
	Width  int
	Height int

	// PadShort zero-fills missing samples when the buffer is shorter than
	// Width*Height. When false, a short buffer is rejected with
	// ErrShortSampleBuffer. Padding matches the capture firmware's
	// behaviour of sending truncated frames on partial reads.
	PadShort bool
}

// encodeFrame reconstructs a PNG from a flat sequence of intensity samples.
//
// Each sample becomes one opaque gray pixel (equal red/green/blue, full
// alpha), row-major. Samples are clamped to the 0..255 intensity range.
// Samples beyond Width*Height are ignored.
func encodeFrame(samples []int, spec FrameSpec) ([]byte, error) {
	total := spec.Width * spec.Height
	if len(samples) < total && !spec.PadShort {
		return nil, fmt.Errorf("%w: got %d samples, frame needs %d", ErrShortSampleBuffer, len(samples), total)
	}

	img := image.NewNRGBA(image.Rect(0, 0, spec.Width, spec.Height))
	for y := 0; y < spec.Height; y++ {
		for x := 0; x < spec.Width; x++ {
			idx := y*spec.Width + x
			var v uint8
			if idx < len(samples) {
				v = clampIntensity(samples[idx])
			}
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding frame: %w", err)
	}
	return buf.Bytes(), nil
}

// clampIntensity bounds a sample to the representable 0..255 range.
func clampIntensity(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}
