package helpers

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

const (
	// MaxImageBytes caps how much of an upload Thumbnail reads.
	MaxImageBytes = 5 << 20
	// MaxImageSide caps either dimension of an upload, checked before decoding pixels.
	MaxImageSide = 4096
)

var (
	// ErrUnsupportedImage is returned for extensions outside the avatar allowlist.
	ErrUnsupportedImage = errors.New("unsupported image format")
	ErrImageTooLarge    = errors.New("image too large")
)

// ImageExt normalises a filename's extension to ".jpg" or ".png".
func ImageExt(filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return ".jpg", nil
	case ".png":
		return ".png", nil
	default:
		return "", ErrUnsupportedImage
	}
}

// Thumbnail decodes r and scales it down to fit within max x max, keeping the
// aspect ratio. Images already small enough are re-encoded unchanged. The
// output format follows ext; the content type is returned alongside.
// Uploads over MaxImageBytes or with a side over MaxImageSide are rejected
// with ErrImageTooLarge before any pixel data is allocated.
func Thumbnail(r io.Reader, ext string, max int) ([]byte, string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return nil, "", err
	}
	if len(data) > MaxImageBytes {
		return nil, "", ErrImageTooLarge
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	if cfg.Width > MaxImageSide || cfg.Height > MaxImageSide {
		return nil, "", ErrImageTooLarge
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > max || h > max {
		if w >= h {
			h = h * max / w
			w = max
		} else {
			w = w * max / h
			h = max
		}
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	switch ext {
	case ".png":
		err = png.Encode(&buf, src)
		return buf.Bytes(), "image/png", err
	case ".jpg":
		err = jpeg.Encode(&buf, src, &jpeg.Options{Quality: 90})
		return buf.Bytes(), "image/jpeg", err
	default:
		return nil, "", ErrUnsupportedImage
	}
}
