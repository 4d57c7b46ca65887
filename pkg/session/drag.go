package session

import (
	"image"
	"math"

	"github.com/menta2k/meme-maker/pkg/types"
)

// HitTest returns the topmost caption whose text covers p. Later captions
// paint over earlier ones, so the search runs in reverse paint order.
func (s *Session) HitTest(p Point) (types.Caption, bool) {
	pt := image.Pt(int(math.Floor(p.X)), int(math.Floor(p.Y)))
	captions := s.captions.Captions()
	for i := len(captions) - 1; i >= 0; i-- {
		if pt.In(s.comp.TextBounds(captions[i])) {
			return captions[i], true
		}
	}
	return types.Caption{}, false
}

// BeginDrag picks up the caption under p, selects it and marks it as
// dragging. A press on empty space clears the selection.
func (s *Session) BeginDrag(p Point) (types.CaptionID, bool) {
	s.EndDrag()
	c, ok := s.HitTest(p)
	if !ok {
		s.captions.Deselect()
		return 0, false
	}
	s.captions.Select(c.ID)
	s.captions.SetDragging(c.ID, true)
	s.drag = &dragState{id: c.ID, last: p}
	s.Render()
	return c.ID, true
}

// DragTo moves the dragged caption by the pointer movement since the last
// call
func (s *Session) DragTo(p Point) bool {
	if s.drag == nil {
		return false
	}
	c, ok := s.captions.Get(s.drag.id)
	if !ok {
		s.drag = nil
		return false
	}
	dx, dy := p.X-s.drag.last.X, p.Y-s.drag.last.Y
	s.drag.last = p
	return s.MoveCaption(c.ID, c.X+dx, c.Y+dy)
}

// EndDrag drops the dragged caption
func (s *Session) EndDrag() bool {
	if s.drag == nil {
		return false
	}
	id := s.drag.id
	s.drag = nil
	if s.captions.SetDragging(id, false) {
		s.Render()
	}
	return true
}

// Dragging returns the id of the caption being dragged, or 0
func (s *Session) Dragging() types.CaptionID {
	if s.drag == nil {
		return 0
	}
	return s.drag.id
}

// DisplayToImage maps a pointer position on a surface shown at
// displayW×displayH to base image pixels
func (s *Session) DisplayToImage(p Point, displayW, displayH float64) Point {
	if s.dims.Empty() || displayW <= 0 || displayH <= 0 {
		return p
	}
	return Point{
		X: p.X * float64(s.dims.Width) / displayW,
		Y: p.Y * float64(s.dims.Height) / displayH,
	}
}
