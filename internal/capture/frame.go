package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"time"

	"github.com/vladimirvivien/go4vl/v4l2"
)

// Frame is one captured video frame, still in the device's pixel format.
type Frame struct {
	Data       []byte
	Width      int
	Height     int
	Format     v4l2.FourCCType
	CapturedAt time.Time
}

// Decode converts the raw frame into an image.Image.
func (f *Frame) Decode() (image.Image, error) {
	switch f.Format {
	case v4l2.PixelFmtMJPEG:
		img, err := jpeg.Decode(bytes.NewReader(f.Data))
		if err != nil {
			return nil, fmt.Errorf("could not decode MJPEG frame: %w", err)
		}
		return img, nil
	case v4l2.PixelFmtYUYV:
		return yuyvToImage(f.Data, f.Width, f.Height), nil
	case v4l2.PixelFmtRGB24:
		return rgb24ToImage(f.Data, f.Width, f.Height), nil
	case v4l2.PixelFmtGrey:
		return greyToImage(f.Data, f.Width, f.Height), nil
	default:
		return nil, fmt.Errorf("unsupported pixel format: %v", f.Format)
	}
}

func yuyvToImage(data []byte, width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x += 2 {
			// YUYV packs two pixels into four bytes.
			idx := (y*width + x) * 2
			if idx+3 >= len(data) {
				break
			}

			y0 := int(data[idx])
			u := int(data[idx+1]) - 128
			y1 := int(data[idx+2])
			v := int(data[idx+3]) - 128

			r0, g0, b0 := yuvToRGB(y0, u, v)
			img.Set(x, y, color.RGBA{R: r0, G: g0, B: b0, A: 255})
			if x+1 < width {
				r1, g1, b1 := yuvToRGB(y1, u, v)
				img.Set(x+1, y, color.RGBA{R: r1, G: g1, B: b1, A: 255})
			}
		}
	}

	return img
}

// yuvToRGB applies the BT.601 conversion.
func yuvToRGB(y, u, v int) (uint8, uint8, uint8) {
	c := y - 16

	r := (298*c + 409*v + 128) >> 8
	g := (298*c - 100*u - 208*v + 128) >> 8
	b := (298*c + 516*u + 128) >> 8

	return clampUint8(r), clampUint8(g), clampUint8(b)
}

func clampUint8(val int) uint8 {
	if val < 0 {
		return 0
	}
	if val > 255 {
		return 255
	}
	return uint8(val)
}

func rgb24ToImage(data []byte, width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := (y*width + x) * 3
			if idx+2 >= len(data) {
				break
			}
			img.Set(x, y, color.RGBA{R: data[idx], G: data[idx+1], B: data[idx+2], A: 255})
		}
	}

	return img
}

func greyToImage(data []byte, width, height int) image.Image {
	img := image.NewGray(image.Rect(0, 0, width, height))
	copy(img.Pix, data)
	return img
}
