package images

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func encodeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestIsDataURI(t *testing.T) {
	if !IsDataURI("data:image/png;base64,abc") {
		t.Error("expected true for data URI")
	}
	if IsDataURI("/path/to/file.png") {
		t.Error("expected false for file path")
	}
	if IsDataURI("") {
		t.Error("expected false for empty string")
	}
}

func TestSizeFromDataURI(t *testing.T) {
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(encodeTestPNG(t, 2, 3))
	s, err := NewCache("").Size(uri)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Width != 2 || s.Height != 3 {
		t.Errorf("expected 2x3, got %dx%d", s.Width, s.Height)
	}
}

func TestSizeFromDataURI_Invalid(t *testing.T) {
	tests := []string{
		"data:image/png;base64",                      // no comma
		"data:image/png,plain",                       // not base64
		"data:image/png;base64,!!!invalid-base64!!!", // bad payload
		"data:image/png;base64,aGVsbG8=",             // valid base64 but not an image
	}
	c := NewCache("")
	for _, uri := range tests {
		if _, err := c.Size(uri); err == nil {
			t.Errorf("expected error for %q", uri)
		}
	}
}

func TestSizeFromFileIsCached(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pic.png")
	if err := os.WriteFile(path, encodeTestPNG(t, 5, 4), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	c := NewCache(dir)
	s, err := c.Size("pic.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Width != 5 || s.Height != 4 {
		t.Errorf("expected 5x4, got %dx%d", s.Width, s.Height)
	}

	// Once cached, the file is no longer needed.
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := c.Size("pic.png"); err != nil {
		t.Errorf("expected cached size, got %v", err)
	}
}

func TestSizeMissingFile(t *testing.T) {
	if _, err := NewCache(t.TempDir()).Size("nope.png"); err == nil {
		t.Error("expected error for missing file")
	}
}
