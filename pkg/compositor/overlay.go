package compositor

import (
	"image"
	"image/color"
	"math"

	"github.com/menta2k/meme-maker/pkg/types"
)

// DebugOverlay marks every caption anchor with a crosshair and outlines the
// selected caption's text bounds. It draws onto a copy of the surface.
func (c *Compositor) DebugOverlay(s *Surface, captions []types.Caption, selected types.CaptionID) *image.RGBA {
	out := s.Snapshot()
	w, h := out.Bounds().Dx(), out.Bounds().Dy()
	if w == 0 || h == 0 {
		return out
	}

	// Colors
	red := color.RGBA{255, 0, 0, 255}    // caption anchor
	gold := color.RGBA{255, 204, 0, 255} // selected bounds
	blue := color.RGBA{0, 170, 255, 255} // image center
	stroke := int(math.Max(2, 0.004*float64(min(w, h))))
	cross := int(math.Max(4, 0.01*float64(min(w, h))))

	for _, cp := range captions {
		px := int(math.Round(cp.X))
		py := int(math.Round(cp.Y))
		drawHLine(out, py, px-cross, px+cross, red)
		drawVLine(out, px, py-cross, py+cross, red)

		if cp.ID == selected {
			if r := c.TextBounds(cp); !r.Empty() {
				drawRect(out, r, gold, stroke)
			}
		}
	}

	// Draw image center marker
	ix, iy := w/2, h/2
	drawHLine(out, iy, ix-6, ix+6, blue)
	drawVLine(out, ix, iy-6, iy+6, blue)

	return out
}

func drawRect(img *image.RGBA, r image.Rectangle, c color.RGBA, stroke int) {
	for s := 0; s < stroke; s++ {
		drawHLine(img, r.Min.Y+s, r.Min.X, r.Max.X, c)
		drawHLine(img, r.Max.Y-1-s, r.Min.X, r.Max.X, c)
		drawVLine(img, r.Min.X+s, r.Min.Y, r.Max.Y, c)
		drawVLine(img, r.Max.X-1-s, r.Min.Y, r.Max.Y, c)
	}
}

func drawHLine(img *image.RGBA, y, x0, x1 int, c color.RGBA) {
	b := img.Bounds()
	if y < b.Min.Y || y >= b.Max.Y {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	x0 = max(x0, b.Min.X)
	x1 = min(x1, b.Max.X)
	for x := x0; x < x1; x++ {
		img.SetRGBA(x, y, c)
	}
}

func drawVLine(img *image.RGBA, x, y0, y1 int, c color.RGBA) {
	b := img.Bounds()
	if x < b.Min.X || x >= b.Max.X {
		return
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	y0 = max(y0, b.Min.Y)
	y1 = min(y1, b.Max.Y)
	for y := y0; y < y1; y++ {
		img.SetRGBA(x, y, c)
	}
}
