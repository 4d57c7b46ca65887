package mememaker

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/menta2k/meme-maker/pkg/codec"
	"github.com/menta2k/meme-maker/pkg/compositor"
	"github.com/menta2k/meme-maker/pkg/source"
)

// createTestImage creates a simple test image
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{64, 64, 64, 255})
		}
	}
	return img
}

func TestNew(t *testing.T) {
	mm := New()
	if mm == nil {
		t.Fatal("New() returned nil")
	}
	if mm.loader == nil {
		t.Error("loader component is nil")
	}
	if mm.compositor == nil {
		t.Error("compositor component is nil")
	}
	if mm.export.Format != codec.PNG {
		t.Errorf("expected png export, got %s", mm.export.Format)
	}
}

func TestNewWithConfig(t *testing.T) {
	mm := NewWithConfig(source.Config{SupportedFormats: []string{"png"}, MinImageSize: 10}, compositor.NewFontBook(), codec.Options{Format: codec.WebP})
	if mm.export.Quality != codec.DefaultQuality {
		t.Errorf("expected default quality, got %d", mm.export.Quality)
	}
	if mm.compositor.Fonts() == nil {
		t.Error("font book is nil")
	}
}

func TestCaption(t *testing.T) {
	mm := New()
	s, err := mm.Caption(createTestImage(400, 300), "TOP", "SECOND")
	if err != nil {
		t.Fatalf("Caption failed: %v", err)
	}

	captions := s.Captions()
	if len(captions) != 2 {
		t.Fatalf("expected 2 captions, got %d", len(captions))
	}
	if captions[0].X != 200 || captions[0].Y != 40 {
		t.Errorf("first caption at (%v, %v), want (200, 40)", captions[0].X, captions[0].Y)
	}
	if captions[1].Y <= captions[0].Y {
		t.Errorf("second caption should be below the first")
	}
	if s.Surface().Width() != 400 || s.Surface().Height() != 300 {
		t.Errorf("surface is %dx%d, want 400x300", s.Surface().Width(), s.Surface().Height())
	}

	if _, err := mm.Caption(nil, "x"); err == nil {
		t.Error("expected error for nil image")
	}
}

func TestSaveImage(t *testing.T) {
	mm := New()
	s, err := mm.Caption(createTestImage(120, 80), "HI")
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	for _, name := range []string{"out.png", "out.jpg", "out.webp"} {
		path := filepath.Join(dir, name)
		if err := mm.SaveImage(s, path); err != nil {
			t.Fatalf("SaveImage(%s) failed: %v", name, err)
		}
		img, _, err := codec.LoadFile(path)
		if err != nil {
			t.Fatalf("reload %s: %v", name, err)
		}
		if img.Bounds().Dx() != 120 || img.Bounds().Dy() != 80 {
			t.Errorf("%s has size %v", name, img.Bounds())
		}
	}

	if err := mm.SaveImage(mm.NewSession(), filepath.Join(dir, "empty.png")); err == nil {
		t.Error("expected error saving an empty session")
	}
	if _, err := mm.Encode(mm.NewSession()); err == nil {
		t.Error("expected error encoding an empty session")
	}
}

func TestProcessRecipeFile(t *testing.T) {
	dir := t.TempDir()
	photo, err := codec.EncodeBytes(createTestImage(200, 150), codec.Options{Format: codec.PNG})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "photo.png"), photo, 0o644); err != nil {
		t.Fatal(err)
	}
	recipePath := filepath.Join(dir, "meme.json")
	doc := `{"image": "photo.png", "filter": "invert", "captions": [{"text": "HELLO"}]}`
	if err := os.WriteFile(recipePath, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "meme.png")
	if err := New().ProcessRecipeFile(recipePath, out); err != nil {
		t.Fatalf("ProcessRecipeFile failed: %v", err)
	}
	img, format, err := codec.LoadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if format != "png" {
		t.Errorf("expected png, got %s", format)
	}
	r, g, b, _ := img.At(2, 2).RGBA()
	if r>>8 != 191 || g>>8 != 191 || b>>8 != 191 {
		t.Errorf("expected inverted background, got %d,%d,%d", r>>8, g>>8, b>>8)
	}

	if err := New().ProcessRecipeFile(filepath.Join(dir, "missing.yaml"), out); err == nil {
		t.Error("expected error for missing recipe")
	}
}

func TestConcurrentSessions(t *testing.T) {
	mm := New()
	want, err := mm.Caption(createTestImage(240, 160), "SAME FACE", "RACING")
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				s, err := mm.Caption(createTestImage(240, 160), "SAME FACE", "RACING")
				if err != nil {
					errs <- err
					return
				}
				got := s.Surface().Image().Pix
				for k := range got {
					if got[k] != want.Surface().Image().Pix[k] {
						errs <- fmt.Errorf("session output differs at byte %d", k)
						return
					}
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestGetVersion(t *testing.T) {
	if GetVersion() != Version {
		t.Errorf("GetVersion() = %s, want %s", GetVersion(), Version)
	}
}
