// Package compositor renders a base photo, an optional decorative frame and
// the caption collection onto a raster surface.
//
// Every render starts from scratch:
//
//  1. the surface is resized to the base image's intrinsic size and cleared
//  2. the (filtered) base image fills the surface
//  3. the frame, if any, is stretched over the full surface
//  4. captions are drawn in collection order, each as a black stroke pass
//     followed by a fill pass over the same glyph outline
//
// Output depends only on the inputs, so rendering twice with identical
// inputs gives identical pixels.
package compositor

import (
	"errors"
	"image"
	"image/draw"
	"log/slog"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/menta2k/meme-maker/pkg/caption"
	"github.com/menta2k/meme-maker/pkg/types"
)

var errEmptyText = errors.New("empty caption text")

// Compositor draws captioned images
type Compositor struct {
	fonts  *FontBook
	logger *slog.Logger
}

// New creates a compositor with the built-in fonts
func New() *Compositor {
	return NewWithFonts(NewFontBook(), nil)
}

// NewWithFonts creates a compositor using a custom font book
func NewWithFonts(fonts *FontBook, logger *slog.Logger) *Compositor {
	if fonts == nil {
		fonts = NewFontBook()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Compositor{fonts: fonts, logger: logger}
}

// Fonts returns the font book used for captions
func (c *Compositor) Fonts() *FontBook {
	return c.fonts
}

// Render redraws the surface. A nil base leaves the surface untouched.
func (c *Compositor) Render(s *Surface, base, frame image.Image, captions []types.Caption, filter string) {
	if base == nil {
		return
	}
	bb := base.Bounds()
	s.setSize(bb.Dx(), bb.Dy())
	dst := s.Image()

	filtered := ApplyFilter(filter, base)
	draw.Draw(dst, dst.Bounds(), filtered, filtered.Bounds().Min, draw.Over)

	if frame != nil && !frame.Bounds().Empty() {
		if frame.Bounds().Size() == dst.Bounds().Size() {
			draw.Draw(dst, dst.Bounds(), frame, frame.Bounds().Min, draw.Over)
		} else {
			xdraw.BiLinear.Scale(dst, dst.Bounds(), frame, frame.Bounds(), xdraw.Over, nil)
		}
	}

	if len(captions) == 0 {
		return
	}
	defer c.fonts.lockFaces()()
	for _, cp := range captions {
		c.drawCaption(dst, cp)
	}
}

// StrokeWidth returns the outline width for a font size: a tenth of the
// size, never below 2px.
func StrokeWidth(size float64) int {
	return max(2, int(math.Floor(size/10)))
}

// TextBounds returns the pixel area a caption covers, stroke included.
// Empty text covers nothing.
func (c *Compositor) TextBounds(cp types.Caption) image.Rectangle {
	defer c.fonts.lockFaces()()
	l, err := c.layout(cp)
	if err != nil {
		return image.Rectangle{}
	}
	return l.rect
}

type textLayout struct {
	face   font.Face
	dot    fixed.Point26_6
	radius float64
	rect   image.Rectangle
}

// layout measures a caption. The caller holds the font book's face lock.
func (c *Compositor) layout(cp types.Caption) (textLayout, error) {
	if cp.Text == "" {
		return textLayout{}, errEmptyText
	}
	size := caption.ClampSize(cp.Size)
	face, err := c.fonts.Face(cp.Font, size)
	if err != nil {
		return textLayout{}, err
	}

	advance := font.MeasureString(face, cp.Text)
	dot := fixed.Point26_6{
		X: toFixed(cp.X) - advance/2,
		Y: toFixed(cp.Y),
	}

	bounds, _ := font.BoundString(face, cp.Text)
	radius := float64(StrokeWidth(size)) / 2
	pad := int(math.Ceil(radius)) + 1
	rect := image.Rect(
		(dot.X+bounds.Min.X).Floor()-pad,
		(dot.Y+bounds.Min.Y).Floor()-pad,
		(dot.X+bounds.Max.X).Ceil()+pad,
		(dot.Y+bounds.Max.Y).Ceil()+pad,
	)
	return textLayout{face: face, dot: dot, radius: radius, rect: rect}, nil
}

// drawCaption strokes then fills one caption. Both passes use the same
// glyph mask; the stroke is that mask dilated by half the line width.
func (c *Compositor) drawCaption(dst draw.Image, cp types.Caption) {
	l, err := c.layout(cp)
	if err != nil {
		if err != errEmptyText {
			c.logger.Warn("caption skipped", "id", cp.ID, "err", err)
		}
		return
	}
	if !l.rect.Overlaps(dst.Bounds()) {
		return
	}

	glyphs := image.NewAlpha(l.rect)
	d := &font.Drawer{Dst: glyphs, Src: image.Opaque, Face: l.face, Dot: l.dot}
	d.DrawString(cp.Text)

	outline := image.NewAlpha(l.rect)
	for _, off := range strokeOffsets(l.radius) {
		draw.Draw(outline, l.rect, glyphs, l.rect.Min.Sub(off), draw.Over)
	}

	draw.DrawMask(dst, l.rect, image.NewUniform(StrokeColor), image.Point{}, outline, l.rect.Min, draw.Over)
	draw.DrawMask(dst, l.rect, image.NewUniform(fillColor(cp.Color)), image.Point{}, glyphs, l.rect.Min, draw.Over)
}

// strokeOffsets returns the integer offsets inside a disc of the given radius
func strokeOffsets(radius float64) []image.Point {
	r := int(math.Ceil(radius))
	var pts []image.Point
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if float64(dx*dx+dy*dy) <= radius*radius {
				pts = append(pts, image.Pt(dx, dy))
			}
		}
	}
	return pts
}

// maxCoord keeps coordinates inside the range of fixed.Int26_6
const maxCoord = 1 << 24

func toFixed(v float64) fixed.Int26_6 {
	if math.IsNaN(v) {
		return 0
	}
	v = math.Max(-maxCoord, math.Min(maxCoord, v))
	return fixed.Int26_6(math.Round(v * 64))
}
