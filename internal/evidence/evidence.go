// Package evidence loads and shrinks the photos attached to reports. Images
// travel as base64 data URIs.
package evidence

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	// MaxFileSize is the largest image LoadFile accepts.
	MaxFileSize = 10 << 20

	// MaxPixels bounds the decoded size. The header is checked before any
	// pixel data is read.
	MaxPixels = 40_000_000

	DefaultMaxWidth = 800
	DefaultQuality  = 70
)

var (
	ErrTooLarge   = errors.New("image exceeds 10 MB")
	ErrNotImage   = errors.New("file is not an image")
	ErrBadDataURI = errors.New("malformed data URI")
	ErrTooManyPx  = errors.New("image dimensions exceed 40 megapixels")
)

// LoadFile reads the image at path and returns it as a data URI.
func LoadFile(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("could not read image: %w", err)
	}
	if info.Size() > MaxFileSize {
		return "", ErrTooLarge
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("could not read image: %w", err)
	}

	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%w: %s", ErrNotImage, mime)
	}
	return EncodeDataURI(mime, data), nil
}

// EncodeDataURI formats data as a base64 data URI.
func EncodeDataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURI splits a base64 data URI into its MIME type and payload.
func DecodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, ErrBadDataURI
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrBadDataURI
	}
	mime, ok := strings.CutSuffix(header, ";base64")
	if !ok {
		return "", nil, ErrBadDataURI
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrBadDataURI, err)
	}
	return mime, data, nil
}

// Compress decodes the image in dataURI, scales it down to maxWidth keeping
// the aspect ratio, and re-encodes it as JPEG at quality (1-100). Images
// narrower than maxWidth keep their size.
func Compress(dataURI string, maxWidth, quality int) (string, error) {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}

	_, data, err := DecodeDataURI(dataURI)
	if err != nil {
		return "", err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return "", fmt.Errorf("%w: %dx%d", ErrTooManyPx, cfg.Width, cfg.Height)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return "", fmt.Errorf("decode image: empty bounds")
	}
	if w > maxWidth {
		h = (h*maxWidth + w/2) / w
		if h < 1 {
			h = 1
		}
		w = maxWidth
	}

	// JPEG has no alpha; transparent pixels land on white.
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}
	return EncodeDataURI("image/jpeg", buf.Bytes()), nil
}

// CompressOrOriginal is Compress that falls back to the input on failure.
func CompressOrOriginal(dataURI string, maxWidth, quality int) string {
	out, err := Compress(dataURI, maxWidth, quality)
	if err != nil {
		return dataURI
	}
	return out
}
