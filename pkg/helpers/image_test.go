package helpers

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngOf(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestImageExt(t *testing.T) {
	ext, err := ImageExt("me.JPEG")
	require.NoError(t, err)
	assert.Equal(t, ".jpg", ext)

	ext, err = ImageExt("me.png")
	require.NoError(t, err)
	assert.Equal(t, ".png", ext)

	_, err = ImageExt("me.gif")
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestThumbnail_ScalesDownKeepingAspect(t *testing.T) {
	out, ct, err := Thumbnail(pngOf(t, 300, 200), ".png", 125)
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)

	cfg, err := png.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 125, cfg.Width)
	assert.Equal(t, 83, cfg.Height)
}

func TestThumbnail_SmallImageUnchanged(t *testing.T) {
	out, ct, err := Thumbnail(pngOf(t, 40, 60), ".jpg", 125)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", ct)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Width)
	assert.Equal(t, 60, cfg.Height)
}

func TestThumbnail_NotAnImage(t *testing.T) {
	_, _, err := Thumbnail(bytes.NewBufferString("hello"), ".png", 125)
	assert.Error(t, err)
}

func TestThumbnail_RejectsHugeDimensionsBeforeDecoding(t *testing.T) {
	// a single-row image is tiny on disk but wider than allowed
	img := image.NewGray(image.Rect(0, 0, MaxImageSide+1, 1))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	_, _, err := Thumbnail(&buf, ".png", 125)
	assert.ErrorIs(t, err, ErrImageTooLarge)

	_, _, err = Thumbnail(pngOf(t, MaxImageSide, 1), ".png", 125)
	assert.NoError(t, err)
}

func TestThumbnail_RejectsOversizedUpload(t *testing.T) {
	_, _, err := Thumbnail(bytes.NewReader(make([]byte, MaxImageBytes+1)), ".png", 125)
	assert.ErrorIs(t, err, ErrImageTooLarge)
}
