package compositor

import (
	"fmt"
	"math"
	"os"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// DefaultFamily is the display font used when a caption names none
const DefaultFamily = "Impact"

// maxFaces bounds the face cache; it is emptied when full
const maxFaces = 64

// FontBook resolves caption font families to faces. Families are matched
// case-insensitively; faces are cached per font and size, sizes rounded
// to half a pixel.
//
// Faces keep scratch buffers and must not be used concurrently. Callers
// measuring or drawing with a face hold the book's face lock (see
// lockFaces) for as long as they use it.
type FontBook struct {
	mu      sync.Mutex
	faceUse sync.Mutex

	fonts    map[string]*opentype.Font
	faces    map[faceKey]font.Face
	fallback string
}

type faceKey struct {
	font *opentype.Font
	size float64
}

// NewFontBook returns a book preloaded with the Go fonts. Impact is not
// redistributable, so it maps to Go Bold.
func NewFontBook() *FontBook {
	fb := &FontBook{
		fonts:    make(map[string]*opentype.Font),
		faces:    make(map[faceKey]font.Face),
		fallback: normalizeFamily(DefaultFamily),
	}
	builtins := []struct {
		ttf   []byte
		names []string
	}{
		{gobold.TTF, []string{"Impact", "Go Bold", "Anton", "bold"}},
		{goregular.TTF, []string{"Go", "Go Regular", "Arial", "Helvetica", "sans-serif"}},
		{gomono.TTF, []string{"Go Mono", "monospace", "Courier", "Courier New"}},
		{goitalic.TTF, []string{"Go Italic", "italic"}},
	}
	for _, b := range builtins {
		f, err := opentype.Parse(b.ttf)
		if err != nil {
			// embedded fonts always parse
			panic(fmt.Sprintf("compositor: parse builtin font: %v", err))
		}
		for _, name := range b.names {
			fb.fonts[normalizeFamily(name)] = f
		}
	}
	return fb
}

// Register adds a TrueType/OpenType font under a family name
func (fb *FontBook) Register(family string, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %q: %w", family, err)
	}
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.fonts[normalizeFamily(family)] = f
	return nil
}

// RegisterFile reads a font file and registers it under family
func (fb *FontBook) RegisterFile(family, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font file: %w", err)
	}
	return fb.Register(family, data)
}

// SetFallback changes the family used when nothing in a caption's list matches
func (fb *FontBook) SetFallback(family string) error {
	key := normalizeFamily(family)
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if _, ok := fb.fonts[key]; !ok {
		return fmt.Errorf("unknown font family %q", family)
	}
	fb.fallback = key
	return nil
}

// Has reports whether family is known
func (fb *FontBook) Has(family string) bool {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	_, ok := fb.fonts[normalizeFamily(family)]
	return ok
}

// Face returns a face for a CSS-style family list such as "Impact, Arial".
// The first known family wins; empty or unknown lists use the fallback.
func (fb *FontBook) Face(families string, size float64) (font.Face, error) {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	family := fb.fallback
	for _, name := range strings.Split(families, ",") {
		key := normalizeFamily(name)
		if _, ok := fb.fonts[key]; ok && key != "" {
			family = key
			break
		}
	}

	size = roundSize(size)
	f := fb.fonts[family]
	k := faceKey{font: f, size: size}
	if face, ok := fb.faces[k]; ok {
		return face, nil
	}
	if len(fb.faces) >= maxFaces {
		clear(fb.faces)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create face %s@%.1f: %w", family, size, err)
	}
	fb.faces[k] = face
	return face, nil
}

// lockFaces serializes use of the book's faces across compositors and
// goroutines sharing it
func (fb *FontBook) lockFaces() func() {
	fb.faceUse.Lock()
	return fb.faceUse.Unlock
}

func roundSize(size float64) float64 {
	return math.Round(size*2) / 2
}

func normalizeFamily(name string) string {
	name = strings.TrimSpace(name)
	name = strings.Trim(name, `"'`)
	return strings.ToLower(name)
}
