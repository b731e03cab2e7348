package imageproc

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// pngBytes encodes a small solid-color PNG for use as a valid upload.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestProcessValidPNG(t *testing.T) {
	raw := pngBytes(t, 4, 3)

	got, err := Process(raw, "image/png")
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}

	if got.MimeType != "image/png" {
		t.Errorf("MimeType = %q, want image/png", got.MimeType)
	}
	if got.Size != len(raw) {
		t.Errorf("Size = %d, want %d", got.Size, len(raw))
	}
	if got.Width != 4 || got.Height != 3 {
		t.Errorf("dimensions = %dx%d, want 4x3", got.Width, got.Height)
	}

	decoded, err := base64.StdEncoding.DecodeString(got.Data)
	if err != nil {
		t.Fatalf("Data is not valid base64: %v", err)
	}
	if !bytes.Equal(decoded, raw) {
		t.Error("Data does not round-trip to the original bytes")
	}
}

func TestProcessSniffsDeclaredMimeMismatch(t *testing.T) {
	// Declared type is wrong; the sniffed content type wins.
	got, err := Process(pngBytes(t, 1, 1), "image/jpeg")
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	if got.MimeType != "image/png" {
		t.Errorf("MimeType = %q, want sniffed image/png", got.MimeType)
	}
}

func TestProcessRejectsEmptyInput(t *testing.T) {
	_, err := Process(nil, "image/png")

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	if ve.Message != "no image file provided" {
		t.Errorf("Message = %q", ve.Message)
	}
}

func TestProcessRejectsOversizedInput(t *testing.T) {
	_, err := Process(make([]byte, MaxImageSize+1), "image/png")

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	if ve.Message != "file too large: maximum size is 10MB" {
		t.Errorf("Message = %q", ve.Message)
	}
}

func TestProcessRejectsDisallowedType(t *testing.T) {
	_, err := Process([]byte("%PDF-1.4 not an image"), "application/pdf")

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
}

func TestProcessDeclaredTypeFallback(t *testing.T) {
	// Content the sniffer cannot place in the allow-list, with an
	// allowed declared type: the declared type is trusted.
	got, err := Process([]byte("not really pixels"), "image/jpeg")
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	if got.MimeType != "image/jpeg" {
		t.Errorf("MimeType = %q, want declared image/jpeg", got.MimeType)
	}
	if got.Width != 0 || got.Height != 0 {
		t.Error("dimensions should stay zero when the image cannot be decoded")
	}
}
