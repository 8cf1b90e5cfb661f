package media

import (
	"bytes"
	"errors"
	"image/png"
	"testing"
)

func TestEncodeFrameGrayReplication(t *testing.T) {
	spec := FrameSpec{Width: 2, Height: 2, PadShort: true}

	data, err := encodeFrame([]int{0, 64, 128, 255}, spec)
	if err != nil {
		t.Fatalf("encodeFrame() error: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding produced PNG: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != 2 || bounds.Dy() != 2 {
		t.Fatalf("image size = %dx%d, want 2x2", bounds.Dx(), bounds.Dy())
	}

	wants := []uint32{0, 64, 128, 255}
	for i, want := range wants {
		x, y := i%2, i/2
		r, g, b, a := img.At(x, y).RGBA()
		// RGBA() scales 8-bit channels to 16-bit.
		if r>>8 != want || g>>8 != want || b>>8 != want {
			t.Errorf("pixel (%d,%d) = (%d,%d,%d), want gray %d", x, y, r>>8, g>>8, b>>8, want)
		}
		if a>>8 != 255 {
			t.Errorf("pixel (%d,%d) alpha = %d, want 255 (opaque)", x, y, a>>8)
		}
	}
}

func TestEncodeFrameShortBufferZeroFills(t *testing.T) {
	spec := FrameSpec{Width: 4, Height: 4, PadShort: true}

	// Only 3 of 16 samples: the remaining 13 pixels must be black.
	data, err := encodeFrame([]int{200, 200, 200}, spec)
	if err != nil {
		t.Fatalf("encodeFrame() error: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding produced PNG: %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 4 {
		t.Fatal("short buffer must still produce a full-size image")
	}

	r, _, _, a := img.At(3, 3).RGBA()
	if r != 0 {
		t.Errorf("unfilled pixel intensity = %d, want 0", r>>8)
	}
	if a>>8 != 255 {
		t.Error("unfilled pixel must still be opaque")
	}
}

func TestEncodeFrameShortBufferRejected(t *testing.T) {
	spec := FrameSpec{Width: 4, Height: 4, PadShort: false}

	if _, err := encodeFrame([]int{1, 2, 3}, spec); !errors.Is(err, ErrShortSampleBuffer) {
		t.Fatalf("err = %v, want ErrShortSampleBuffer", err)
	}
}

func TestEncodeFrameExcessSamplesIgnored(t *testing.T) {
	spec := FrameSpec{Width: 2, Height: 1, PadShort: true}

	data, err := encodeFrame([]int{10, 20, 99, 99, 99}, spec)
	if err != nil {
		t.Fatalf("encodeFrame() error: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding produced PNG: %v", err)
	}
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 1 {
		t.Errorf("image size = %dx%d, want 2x1", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestClampIntensity(t *testing.T) {
	tests := []struct {
		in   int
		want uint8
	}{
		{-1, 0},
		{0, 0},
		{128, 128},
		{255, 255},
		{256, 255},
		{100000, 255},
	}
	for _, tt := range tests {
		if got := clampIntensity(tt.in); got != tt.want {
			t.Errorf("clampIntensity(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
