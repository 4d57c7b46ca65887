package source

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"testing"

	"github.com/menta2k/meme-maker/pkg/codec"
)

// createTestImage creates a simple test image
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	// Fill with a gradient pattern
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r := uint8((x * 255) / width)
			g := uint8((y * 255) / height)
			img.Set(x, y, color.RGBA{r, g, 128, 255})
		}
	}

	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	data, err := codec.EncodeBytes(img, codec.Options{Format: codec.PNG})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return data
}

func TestNew(t *testing.T) {
	loader := New()
	if loader == nil {
		t.Fatal("New() returned nil")
	}

	if loader.config.MinImageSize != 1 {
		t.Errorf("Expected min size 1, got %d", loader.config.MinImageSize)
	}
}

func TestLoadImageFromBytes(t *testing.T) {
	loader := New()

	img, err := loader.LoadImageFromBytes(encodePNG(t, createTestImage(400, 300)))
	if err != nil {
		t.Fatalf("LoadImageFromBytes failed: %v", err)
	}

	if img.Bounds().Dx() != 400 || img.Bounds().Dy() != 300 {
		t.Errorf("Expected 400x300, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestLoadImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.png")
	if err := os.WriteFile(path, encodePNG(t, createTestImage(50, 40)), 0o644); err != nil {
		t.Fatal(err)
	}

	img, err := New().LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}
	if img.Bounds().Dx() != 50 {
		t.Errorf("Expected width 50, got %d", img.Bounds().Dx())
	}

	if _, err := New().LoadImage(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestLoadDataURL(t *testing.T) {
	url := codec.DataURL(encodePNG(t, createTestImage(30, 20)), "image/png")

	loader := New()
	img, err := loader.LoadDataURL(url)
	if err != nil {
		t.Fatalf("LoadDataURL failed: %v", err)
	}
	if img.Bounds().Dx() != 30 || img.Bounds().Dy() != 20 {
		t.Errorf("Expected 30x20, got %v", img.Bounds())
	}

	// Load sniffs the data URL prefix
	img, err = loader.Load([]byte(url))
	if err != nil {
		t.Fatalf("Load(data URL) failed: %v", err)
	}
	if img.Bounds().Dx() != 30 {
		t.Errorf("Expected width 30, got %d", img.Bounds().Dx())
	}
}

func TestLoadImageFromReader(t *testing.T) {
	img, err := New().LoadImageFromReader(bytes.NewReader(encodePNG(t, createTestImage(10, 10))))
	if err != nil {
		t.Fatalf("LoadImageFromReader failed: %v", err)
	}
	if img.Bounds().Dx() != 10 {
		t.Errorf("Expected width 10, got %d", img.Bounds().Dx())
	}
}

func TestUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := gif.Encode(&buf, createTestImage(10, 10), nil); err != nil {
		t.Fatal(err)
	}

	loader := NewWithConfig(Config{SupportedFormats: []string{"png", "jpg"}, MinImageSize: 1})
	_, err := loader.LoadImageFromBytes(buf.Bytes())
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}

	if _, err := New().LoadImageFromBytes(buf.Bytes()); err != nil {
		t.Errorf("gif should be accepted by default: %v", err)
	}
}

func TestGetImageInfo(t *testing.T) {
	loader := New()
	img := createTestImage(400, 300)

	info := loader.GetImageInfo(img)

	if info.Width != 400 {
		t.Errorf("Expected width 400, got %d", info.Width)
	}

	if info.Height != 300 {
		t.Errorf("Expected height 300, got %d", info.Height)
	}

	expectedRatio := float64(400) / float64(300)
	if info.AspectRatio != expectedRatio {
		t.Errorf("Expected aspect ratio %f, got %f", expectedRatio, info.AspectRatio)
	}

	if info.Area != 120000 {
		t.Errorf("Expected area 120000, got %d", info.Area)
	}
}

func TestValidateImage(t *testing.T) {
	loader := NewWithConfig(Config{SupportedFormats: []string{"png"}, MinImageSize: 100, MaxImageSize: 300})

	if err := loader.ValidateImage(createTestImage(200, 200)); err != nil {
		t.Errorf("Valid image should pass validation: %v", err)
	}

	if err := loader.ValidateImage(createTestImage(50, 50)); !errors.Is(err, ErrTooSmall) {
		t.Errorf("Small image should fail with ErrTooSmall, got %v", err)
	}

	if err := loader.ValidateImage(createTestImage(400, 200)); !errors.Is(err, ErrTooLarge) {
		t.Errorf("Large image should fail with ErrTooLarge, got %v", err)
	}
}

// pngHeader returns the signature and IHDR chunk of an RGB PNG of the
// given size, with no pixel data after it
func pngHeader(width, height uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")

	chunk := make([]byte, 0, 17)
	chunk = append(chunk, "IHDR"...)
	chunk = binary.BigEndian.AppendUint32(chunk, width)
	chunk = binary.BigEndian.AppendUint32(chunk, height)
	chunk = append(chunk, 8, 2, 0, 0, 0)

	binary.Write(&buf, binary.BigEndian, uint32(len(chunk)-4))
	buf.Write(chunk)
	binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func TestOversizedHeaderRejectedBeforeDecode(t *testing.T) {
	loader := NewWithConfig(Config{SupportedFormats: []string{"png"}, MinImageSize: 1, MaxImageSize: 100})

	// the header alone claims 8000x8000; a full decode would fail on the
	// missing pixel data instead
	_, err := loader.LoadImageFromBytes(pngHeader(8000, 8000))
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("Expected ErrTooLarge, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "huge.png")
	if err := os.WriteFile(path, pngHeader(100, 9000), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loader.LoadImage(path); !errors.Is(err, ErrTooLarge) {
		t.Errorf("Expected ErrTooLarge from file, got %v", err)
	}

	_, err = NewWithConfig(Config{SupportedFormats: []string{"jpeg"}, MinImageSize: 1}).LoadImageFromBytes(pngHeader(10, 10))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}

	// within limits the header passes and the truncated body fails to decode
	_, err = loader.LoadImageFromBytes(pngHeader(50, 50))
	if err == nil || errors.Is(err, ErrTooLarge) {
		t.Errorf("Expected a decode error, got %v", err)
	}
}

func TestIsFormatSupported(t *testing.T) {
	loader := NewWithConfig(Config{SupportedFormats: []string{"jpg", "png"}})

	for _, format := range []string{"jpeg", "jpg", "PNG", "JPEG"} {
		if !loader.isFormatSupported(format) {
			t.Errorf("Format %s should be supported", format)
		}
	}

	for _, format := range []string{"gif", "webp", "bmp"} {
		if loader.isFormatSupported(format) {
			t.Errorf("Format %s should not be supported", format)
		}
	}
}

func BenchmarkLoadImageFromBytes(b *testing.B) {
	loader := New()
	data, _ := codec.EncodeBytes(createTestImage(1920, 1080), codec.Options{Format: codec.PNG})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		loader.LoadImageFromBytes(data)
	}
}
