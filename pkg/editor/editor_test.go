package editor

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menta2k/meme-maker/pkg/codec"
	"github.com/menta2k/meme-maker/pkg/platform"
	"github.com/menta2k/meme-maker/pkg/types"
)

func createTestImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 90, 255})
		}
	}
	return img
}

func encoded(t *testing.T, width, height int) []byte {
	t.Helper()
	data, err := codec.EncodeBytes(createTestImage(width, height), codec.Options{Format: codec.PNG})
	require.NoError(t, err)
	return data
}

func newEditor(caps *fakePlatform) (*Editor, *bytes.Buffer) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewWithConfig(caps, Config{Logger: logger}), &logs
}

func TestChooseSaveShare(t *testing.T) {
	caps := &fakePlatform{images: [][]byte{encoded(t, 400, 300)}}
	ed, _ := newEditor(caps)
	ctx := context.Background()

	require.NoError(t, ed.ChooseImage(ctx))
	assert.Equal(t, types.Size{Width: 400, Height: 300}, ed.Session().Size())

	c, err := ed.Session().AddCaption()
	require.NoError(t, err)
	ed.Session().UpdateCaption(c.ID, types.CaptionPatch{Text: types.String("Hello")})

	location, err := ed.Save(ctx)
	require.NoError(t, err)
	require.Len(t, caps.persisted, 1)
	for name, data := range caps.persisted {
		assert.Equal(t, "saved/"+name, location)
		img, format, err := codec.Decode(data)
		require.NoError(t, err)
		assert.Equal(t, "png", format)
		assert.Equal(t, image.Rect(0, 0, 400, 300), img.Bounds())
	}

	require.NoError(t, ed.Share(ctx))
	assert.Equal(t, 1, caps.sharedN)
}

func TestChooseImageFromDataURL(t *testing.T) {
	url := codec.DataURL(encoded(t, 64, 32), "image/png")
	ed, logs := newEditor(&fakePlatform{images: [][]byte{[]byte(url)}})

	require.NoError(t, ed.ChooseImage(context.Background()))
	assert.Equal(t, types.Size{Width: 64, Height: 32}, ed.Session().Size())
	assert.Contains(t, logs.String(), "image loaded")
	assert.Contains(t, logs.String(), "aspect=2.00")
}

func TestCancelledPickKeepsState(t *testing.T) {
	caps := &fakePlatform{images: [][]byte{encoded(t, 200, 100)}}
	ed, logs := newEditor(caps)
	ctx := context.Background()

	require.NoError(t, ed.ChooseImage(ctx))
	c, _ := ed.Session().AddCaption()
	before := ed.Session().Surface().Snapshot()

	caps.acquireErr = platform.ErrCancelled
	err := ed.ChooseImage(ctx)
	assert.ErrorIs(t, err, platform.ErrCancelled)
	assert.Contains(t, logs.String(), "image selection cancelled")

	assert.Equal(t, types.Size{Width: 200, Height: 100}, ed.Session().Size())
	_, ok := ed.Session().Caption(c.ID)
	assert.True(t, ok)
	assert.Equal(t, before.Pix, ed.Session().Surface().Image().Pix)
}

func TestBadImageKeepsState(t *testing.T) {
	caps := &fakePlatform{images: [][]byte{encoded(t, 200, 100), []byte("definitely not an image")}}
	ed, logs := newEditor(caps)
	ctx := context.Background()

	require.NoError(t, ed.ChooseImage(ctx))
	err := ed.ChooseImage(ctx)
	assert.Error(t, err)
	assert.Contains(t, logs.String(), "image load failed")
	assert.Equal(t, types.Size{Width: 200, Height: 100}, ed.Session().Size())
}

func TestAcquisitionFailureIsLogged(t *testing.T) {
	denied := errors.New("camera permission denied")
	ed, logs := newEditor(&fakePlatform{acquireErr: denied})

	assert.ErrorIs(t, ed.ChooseImage(context.Background()), denied)
	assert.Contains(t, logs.String(), "level=ERROR")
	assert.False(t, ed.Session().HasImage())
}

func TestExportWithoutImage(t *testing.T) {
	caps := &fakePlatform{}
	ed, _ := newEditor(caps)

	_, err := ed.Save(context.Background())
	assert.ErrorIs(t, err, ErrNoImage)
	assert.ErrorIs(t, ed.Share(context.Background()), ErrNoImage)
	assert.Empty(t, caps.persisted)
	assert.Zero(t, caps.sharedN)
}

func TestShareFailureIsReturned(t *testing.T) {
	unavailable := errors.New("bridge crashed")
	caps := &fakePlatform{images: [][]byte{encoded(t, 20, 20)}, shareErr: unavailable}
	ed, logs := newEditor(caps)

	require.NoError(t, ed.ChooseImage(context.Background()))
	assert.ErrorIs(t, ed.Share(context.Background()), unavailable)
	assert.Contains(t, logs.String(), "share failed")
}
