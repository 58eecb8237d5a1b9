// Package imaging provides the client-side image pipeline: validation,
// bounded resize, JPEG encoding, and base64 transport helpers. Everything
// here is pure; validation in particular must run before any network
// submission.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/image/draw"
)

var (
	// ErrUnsupportedType is returned for files outside the allowed image types.
	ErrUnsupportedType = errors.New("unsupported image type")
	// ErrTooLarge is returned for files over the configured size ceiling.
	ErrTooLarge = errors.New("image exceeds size limit")
	// ErrDecode wraps failures to decode image data.
	ErrDecode = errors.New("could not decode image")
)

// allowedTypes are the MIME types accepted for submission. Detection is
// content-based (magic bytes), not extension-based.
var allowedTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

// Validate checks the image type and size ceiling. It never touches the
// network and never mutates data.
func Validate(name string, data []byte, maxBytes int64) error {
	if int64(len(data)) > maxBytes {
		return fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrTooLarge, name, len(data), maxBytes)
	}

	contentType := http.DetectContentType(data)
	if _, ok := allowedTypes[contentType]; !ok {
		return fmt.Errorf("%w: %s detected as %s (allowed: jpeg, png, webp)", ErrUnsupportedType, name, contentType)
	}
	return nil
}

// Resize decodes data, scales it preserving aspect ratio so neither
// dimension exceeds maxW x maxH, and re-encodes as JPEG at the given
// quality. Images already inside the bound are re-encoded without scaling;
// Resize never upscales.
func Resize(data []byte, maxW, maxH, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width <= maxW && height <= maxH {
		return EncodeJPEG(img, quality)
	}

	newWidth, newHeight := fitWithin(width, height, maxW, maxH)
	resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)

	return EncodeJPEG(resized, quality)
}

// fitWithin computes the largest dimensions that fit within maxW x maxH
// while preserving the source aspect ratio.
func fitWithin(width, height, maxW, maxH int) (int, int) {
	scaleW := float64(maxW) / float64(width)
	scaleH := float64(maxH) / float64(height)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}

	newWidth := int(float64(width) * scale)
	newHeight := int(float64(height) * scale)
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}
	return newWidth, newHeight
}

// EncodeJPEG encodes an image as JPEG at the given quality.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("could not encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// ToBase64 encodes image bytes for JSON transport.
func ToBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// FromBase64 decodes base64 image data, tolerating a data-URL prefix
// ("data:image/jpeg;base64,...").
func FromBase64(s string) ([]byte, error) {
	if idx := strings.Index(s, ","); idx >= 0 && strings.HasPrefix(s, "data:") {
		s = s[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("could not decode base64 image: %w", err)
	}
	return data, nil
}
