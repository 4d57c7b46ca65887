// Package mememaker puts captions on photos.
//
// A photo is loaded into an editing session, captions are added and styled,
// and the session's surface is exported as PNG, JPEG or WebP.
//
// Basic usage:
//
//	package main
//
//	import (
//		"log"
//
//		mememaker "github.com/menta2k/meme-maker"
//		"github.com/menta2k/meme-maker/pkg/types"
//	)
//
//	func main() {
//		mm := mememaker.New()
//
//		img, err := mm.LoadImage("cat.jpg")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		s, err := mm.Caption(img, "I CAN HAS", "CHEEZBURGER")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		// restyle the selected (last added) caption
//		s.UpdateCaption(s.SelectedID(), types.CaptionPatch{Color: types.String("#ffcc00")})
//
//		if err := mm.SaveImage(s, "cat_meme.png"); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// The package consists of these main components:
//
//  1. Caption model (pkg/caption): ordered captions and the selection
//  2. Compositor (pkg/compositor): renders photo, frame and captions
//  3. Session (pkg/session): editing state, re-rendered after every change
//  4. Editor (pkg/editor): choose/save/share against a platform
//  5. Platform (pkg/platform): native shell and browser hosts
//
// Captions are drawn in insertion order, each with a black outline a tenth
// of its size wide, horizontally centered on its anchor with the baseline on
// the anchor's y. The rendered surface always has the photo's intrinsic size.
package mememaker

import (
	"fmt"
	"image"
	"os"

	"github.com/menta2k/meme-maker/internal/utils"
	"github.com/menta2k/meme-maker/pkg/codec"
	"github.com/menta2k/meme-maker/pkg/compositor"
	"github.com/menta2k/meme-maker/pkg/recipe"
	"github.com/menta2k/meme-maker/pkg/session"
	"github.com/menta2k/meme-maker/pkg/source"
)

// Version of the meme maker library
const Version = "1.0.0"

// MemeMaker provides a high-level interface for captioning images.
// Sessions it creates share one compositor and may be used from different
// goroutines; a single session may not.
type MemeMaker struct {
	loader     *source.Loader
	compositor *compositor.Compositor
	export     codec.Options
}

// New creates a new MemeMaker with default configuration
func New() *MemeMaker {
	return &MemeMaker{
		loader:     source.New(),
		compositor: compositor.New(),
		export:     codec.Options{Format: codec.PNG, Quality: codec.DefaultQuality},
	}
}

// NewWithConfig creates a new MemeMaker with custom configuration
func NewWithConfig(loaderConfig source.Config, fonts *compositor.FontBook, export codec.Options) *MemeMaker {
	if export.Quality <= 0 {
		export.Quality = codec.DefaultQuality
	}
	return &MemeMaker{
		loader:     source.NewWithConfig(loaderConfig),
		compositor: compositor.NewWithFonts(fonts, nil),
		export:     export,
	}
}

// NewSession starts an empty editing session
func (mm *MemeMaker) NewSession() *session.Session {
	return session.NewWithOptions(session.Options{Compositor: mm.compositor})
}

// LoadImage loads an image from file
func (mm *MemeMaker) LoadImage(path string) (image.Image, error) {
	return mm.loader.LoadImage(path)
}

// Caption starts a session on img with one top caption per line of text,
// stacked downwards
func (mm *MemeMaker) Caption(img image.Image, lines ...string) (*session.Session, error) {
	s := mm.NewSession()
	if err := s.SetImage(img); err != nil {
		return nil, err
	}
	r := &recipe.Recipe{}
	for _, line := range lines {
		r.Captions = append(r.Captions, recipe.Caption{Text: line})
	}
	if err := r.Apply(s, mm.loader); err != nil {
		return nil, err
	}
	return s, nil
}

// ApplyRecipe builds a session from a recipe
func (mm *MemeMaker) ApplyRecipe(r *recipe.Recipe) (*session.Session, error) {
	s := mm.NewSession()
	if err := r.Apply(s, mm.loader); err != nil {
		return nil, err
	}
	return s, nil
}

// Encode encodes the session's surface with the configured export options
func (mm *MemeMaker) Encode(s *session.Session) ([]byte, error) {
	if !s.HasImage() {
		return nil, session.ErrNoImage
	}
	return codec.EncodeBytes(s.Surface().Image(), mm.export)
}

// SaveImage writes the session's surface to path; the extension picks the
// format
func (mm *MemeMaker) SaveImage(s *session.Session, path string) error {
	if !s.HasImage() {
		return session.ErrNoImage
	}
	opts := mm.export
	if f, err := codec.ParseFormat(utils.GetFileExtension(path)); err == nil {
		opts.Format = f
	}
	data, err := codec.EncodeBytes(s.Surface().Image(), opts)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ProcessRecipeFile is a convenience function that loads a recipe, renders
// it and saves the result
func (mm *MemeMaker) ProcessRecipeFile(recipePath, outputPath string) error {
	r, err := recipe.Load(recipePath)
	if err != nil {
		return err
	}
	s, err := mm.ApplyRecipe(r)
	if err != nil {
		return fmt.Errorf("failed to apply recipe: %w", err)
	}
	return mm.SaveImage(s, outputPath)
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
