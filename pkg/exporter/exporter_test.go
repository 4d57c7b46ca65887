package exporter

import (
	"context"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menta2k/meme-maker/pkg/codec"
	"github.com/menta2k/meme-maker/pkg/compositor"
)

func createTestImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 255 / width), uint8(y * 255 / height), 128, 255})
		}
	}
	return img
}

func renderedSurface(t *testing.T, width, height int) *compositor.Surface {
	t.Helper()
	s := compositor.NewSurface()
	compositor.New().Render(s, createTestImage(width, height), nil, nil, "")
	require.False(t, s.Empty())
	return s
}

func TestFilename(t *testing.T) {
	now := time.UnixMilli(1712345678901)

	assert.Equal(t, "meme_1712345678901.png", New(nil).Filename(now))

	webp := NewWithOptions(nil, codec.Options{Format: codec.WebP}, nil)
	assert.Equal(t, "meme_1712345678901.webp", webp.Filename(now))
}

func TestDefaults(t *testing.T) {
	opts := NewWithOptions(nil, codec.Options{}, nil).Options()
	assert.Equal(t, codec.PNG, opts.Format)
	assert.Equal(t, 95, opts.Quality)
}

func TestEncode(t *testing.T) {
	s := renderedSurface(t, 64, 48)

	data, err := New(nil).Encode(s)
	require.NoError(t, err)
	img, format, err := codec.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, s.Bounds(), img.Bounds())

	_, err = New(nil).Encode(compositor.NewSurface())
	assert.ErrorIs(t, err, ErrEmptySurface)
}

func TestSave(t *testing.T) {
	caps := &fakePlatform{}
	e := NewWithOptions(caps, codec.Options{Format: codec.JPEG}, nil)
	e.now = func() time.Time { return time.UnixMilli(42) }

	location, err := e.Save(context.Background(), renderedSurface(t, 32, 32))
	require.NoError(t, err)
	assert.Equal(t, "/data/meme_42.jpg", location)
	require.Len(t, caps.persisted, 1)
	assert.Equal(t, "meme_42.jpg", caps.persisted[0].filename)

	_, format, err := codec.Decode(caps.persisted[0].data)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestSaveFailures(t *testing.T) {
	disk := errors.New("disk full")
	caps := &fakePlatform{persistErr: disk}

	_, err := New(caps).Save(context.Background(), renderedSurface(t, 8, 8))
	assert.ErrorIs(t, err, disk)

	_, err = New(caps).Save(context.Background(), compositor.NewSurface())
	assert.ErrorIs(t, err, ErrEmptySurface)
}

func TestShare(t *testing.T) {
	caps := &fakePlatform{}
	require.NoError(t, New(caps).Share(context.Background(), renderedSurface(t, 16, 16)))

	require.Len(t, caps.shared, 1)
	assert.Equal(t, "My Meme", caps.shared[0].title)
	assert.True(t, strings.HasPrefix(caps.shared[0].filename, "meme_"))
	assert.Equal(t, "image/png", caps.shared[0].mimeType)
	assert.NotEmpty(t, caps.shared[0].data)

	gone := errors.New("no share sheet")
	caps.shareErr = gone
	assert.ErrorIs(t, New(caps).Share(context.Background(), renderedSurface(t, 16, 16)), gone)
}

func TestSaveAndShareUseOneName(t *testing.T) {
	caps := &fakePlatform{}
	e := NewWithOptions(caps, codec.Options{Format: codec.WebP}, nil)
	e.now = func() time.Time { return time.UnixMilli(1700000000123) }

	_, err := e.Save(context.Background(), renderedSurface(t, 16, 16))
	require.NoError(t, err)
	require.NoError(t, e.Share(context.Background(), renderedSurface(t, 16, 16)))

	require.Len(t, caps.persisted, 1)
	require.Len(t, caps.shared, 1)
	assert.Equal(t, "meme_1700000000123.webp", caps.shared[0].filename)
	assert.Equal(t, caps.persisted[0].filename, caps.shared[0].filename)
	assert.Equal(t, "image/webp", caps.shared[0].mimeType)
}
