package util

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"

	"golang.org/x/image/draw"
)

// MaxPixels is the largest image (w*h) sent to the vision model as is.
const MaxPixels = 18_000_000

// decodeFactor bounds how far over budget an image may be and still get
// decoded for rescaling.
const decodeFactor = 4

// ErrTooLargeToDecode is returned for images whose header reports more than
// decodeFactor*maxPixels pixels. They are never decoded.
var ErrTooLargeToDecode = errors.New("image: too large to decode")

// FitPixels downscales a JPEG/PNG so that w*h <= maxPixels, keeping the format.
// The input is returned untouched when it already fits. The bool reports
// whether the image was rescaled. Images far over the budget are rejected
// with ErrTooLargeToDecode before any pixel data is read.
func FitPixels(data []byte, mime string, maxPixels int) ([]byte, bool, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("image: decode config: %w", err)
	}
	total := cfg.Width * cfg.Height
	if maxPixels <= 0 || total <= maxPixels {
		return data, false, nil
	}
	if total/decodeFactor > maxPixels || cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, false, fmt.Errorf("%w: %dx%d", ErrTooLargeToDecode, cfg.Width, cfg.Height)
	}

	src, err := decodeStrict(data, mime)
	if err != nil {
		return nil, false, fmt.Errorf("image: decode: %w", err)
	}

	scale := math.Sqrt(float64(maxPixels) / float64(total))
	newW := max(int(float64(cfg.Width)*scale), 1)
	newH := max(int(float64(cfg.Height)*scale), 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	var out bytes.Buffer
	switch mime {
	case MimePNG:
		err = png.Encode(&out, dst)
	default:
		err = jpeg.Encode(&out, dst, &jpeg.Options{Quality: 90})
	}
	if err != nil {
		return nil, false, fmt.Errorf("image: encode: %w", err)
	}
	return out.Bytes(), true, nil
}

func decodeStrict(b []byte, mime string) (image.Image, error) {
	switch mime {
	case MimeJPEG:
		return jpeg.Decode(bytes.NewReader(b))
	case MimePNG:
		return png.Decode(bytes.NewReader(b))
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	return img, err
}
