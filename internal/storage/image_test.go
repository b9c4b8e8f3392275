package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

func encodePNG(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 10 {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return &buf
}

func TestOptimizeImageScalesDown(t *testing.T) {
	src := encodePNG(t, 3000, 1500)

	encoded, contentType, err := OptimizeImage(src)
	if err != nil {
		t.Fatalf("OptimizeImage failed: %v", err)
	}
	if contentType != "image/jpeg" {
		t.Errorf("content type = %q, want image/jpeg", contentType)
	}

	out, err := jpeg.Decode(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	bounds := out.Bounds()
	if bounds.Dx() > MaxImageWidth || bounds.Dy() > MaxImageHeight {
		t.Errorf("output %dx%d exceeds bounding box", bounds.Dx(), bounds.Dy())
	}
	// Aspect ratio is preserved: 2:1 input stays 2:1.
	if bounds.Dx() != 2*bounds.Dy() {
		t.Errorf("aspect ratio changed: %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestOptimizeImageNeverUpscales(t *testing.T) {
	src := encodePNG(t, 100, 80)

	encoded, _, err := OptimizeImage(src)
	if err != nil {
		t.Fatalf("OptimizeImage failed: %v", err)
	}
	out, err := jpeg.Decode(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if out.Bounds().Dx() != 100 || out.Bounds().Dy() != 80 {
		t.Errorf("small image resized to %dx%d, want 100x80", out.Bounds().Dx(), out.Bounds().Dy())
	}
}

func TestOptimizeImageRejectsGarbage(t *testing.T) {
	if _, _, err := OptimizeImage(strings.NewReader("not an image")); err == nil {
		t.Error("garbage input accepted")
	}
}

func TestSafeImageKey(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		want      string
		shouldErr bool
	}{
		{"Plain key", "1/photo.jpg", "posts/1/photo.jpg", false},
		{"Already prefixed", "posts/1/photo.jpg", "posts/1/photo.jpg", false},
		{"Leading slash stripped", "/1/photo.jpg", "posts/1/photo.jpg", false},
		{"Traversal rejected", "../secrets", "", true},
		{"Backslash rejected", `1\photo.jpg`, "", true},
		{"Empty rejected", "  ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SafeImageKey(tt.key)
			if (err != nil) != tt.shouldErr {
				t.Errorf("SafeImageKey(%q) error = %v, wantErr %v", tt.key, err, tt.shouldErr)
			}
			if !tt.shouldErr && got != tt.want {
				t.Errorf("SafeImageKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}
