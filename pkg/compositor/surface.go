package compositor

import (
	"image"
	"image/draw"
)

// Surface is the raster buffer the compositor draws onto. Its size always
// follows the base image of the last render.
type Surface struct {
	img *image.RGBA
}

// NewSurface creates an empty surface
func NewSurface() *Surface {
	return &Surface{img: image.NewRGBA(image.Rectangle{})}
}

// Image returns the backing buffer. It is replaced when the size changes.
func (s *Surface) Image() *image.RGBA {
	return s.img
}

// Bounds returns the surface bounds
func (s *Surface) Bounds() image.Rectangle {
	return s.img.Bounds()
}

// Width returns the surface width in pixels
func (s *Surface) Width() int { return s.img.Bounds().Dx() }

// Height returns the surface height in pixels
func (s *Surface) Height() int { return s.img.Bounds().Dy() }

// Empty reports whether nothing has been rendered yet
func (s *Surface) Empty() bool {
	return s.img.Bounds().Empty()
}

// setSize makes the surface exactly w×h and clears it
func (s *Surface) setSize(w, h int) {
	r := image.Rect(0, 0, w, h)
	if s.img.Bounds() != r {
		s.img = image.NewRGBA(r)
		return
	}
	s.clear()
}

func (s *Surface) clear() {
	draw.Draw(s.img, s.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

// Snapshot returns a copy of the current pixels
func (s *Surface) Snapshot() *image.RGBA {
	out := image.NewRGBA(s.img.Bounds())
	copy(out.Pix, s.img.Pix)
	return out
}
