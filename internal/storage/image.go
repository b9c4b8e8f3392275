package storage

import (
	"bytes"
	"errors"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	// Post images are bounded before upload so a 12MP photo doesn't get
	// served straight to every feed view.
	MaxImageWidth  = 1280
	MaxImageHeight = 1280

	jpegQuality = 85
)

// OptimizeImage decodes JPEG/PNG/GIF/WebP, scales down to fit the bounding
// box (never up), and re-encodes as JPEG. Returns the encoded bytes and the
// content type to store.
func OptimizeImage(r io.Reader) ([]byte, string, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, "", errors.New("unsupported or corrupt image")
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, "", errors.New("empty image")
	}

	scale := 1.0
	if w > MaxImageWidth {
		scale = float64(MaxImageWidth) / float64(w)
	}
	if s := float64(MaxImageHeight) / float64(h); h > MaxImageHeight && s < scale {
		scale = s
	}

	out := src
	if scale < 1.0 {
		dw := int(float64(w) * scale)
		dh := int(float64(h) * scale)
		dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		out = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), "image/jpeg", nil
}
