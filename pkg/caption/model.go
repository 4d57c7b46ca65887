// Package caption holds the ordered caption collection and the selection
// of an editing session.
package caption

import (
	"math"

	"github.com/menta2k/meme-maker/pkg/types"
)

// Size bounds and defaults for new captions
const (
	MinSize          = 12
	MaxSize          = 200
	MinDefaultSize   = 24
	SizeDivisor      = 12
	DefaultTopOffset = 40
	DefaultText      = "Meme text"
	DefaultColor     = "white"
	DefaultFont      = "Impact"
)

// Defaults configures the captions created by Add
type Defaults struct {
	Text      string
	Color     string
	Font      string
	TopOffset float64
}

// Model is an ordered caption collection plus the current selection.
// Insertion order is paint order.
type Model struct {
	captions []types.Caption
	selected types.CaptionID
	nextID   types.CaptionID
	defaults Defaults
}

// New creates an empty model with the standard caption defaults
func New() *Model {
	return NewWithDefaults(Defaults{
		Text:      DefaultText,
		Color:     DefaultColor,
		Font:      DefaultFont,
		TopOffset: DefaultTopOffset,
	})
}

// NewWithDefaults creates an empty model using d for new captions
func NewWithDefaults(d Defaults) *Model {
	if d.Color == "" {
		d.Color = DefaultColor
	}
	if d.TopOffset <= 0 {
		d.TopOffset = DefaultTopOffset
	}
	return &Model{defaults: d}
}

// ClampSize bounds a font size to [MinSize, MaxSize]
func ClampSize(size float64) float64 {
	if math.IsNaN(size) || size < MinSize {
		return MinSize
	}
	if size > MaxSize {
		return MaxSize
	}
	return size
}

// DefaultSize returns the initial font size for an image of the given width
func DefaultSize(width int) float64 {
	return ClampSize(math.Max(MinDefaultSize, math.Round(float64(width)/SizeDivisor)))
}

// Add creates a caption centered horizontally near the top of an image of
// the given dimensions and selects it. Without an image it does nothing.
func (m *Model) Add(dims types.Size) (types.Caption, bool) {
	if dims.Empty() {
		return types.Caption{}, false
	}
	m.nextID++
	c := types.Caption{
		ID:    m.nextID,
		X:     float64(dims.Width) / 2,
		Y:     m.defaults.TopOffset,
		Text:  m.defaults.Text,
		Size:  DefaultSize(dims.Width),
		Color: m.defaults.Color,
		Font:  m.defaults.Font,
	}
	m.captions = append(m.captions, c)
	m.selected = c.ID
	return c, true
}

// Update merges the non-nil fields of patch into the caption with the given id.
// Unknown ids are ignored.
func (m *Model) Update(id types.CaptionID, patch types.CaptionPatch) bool {
	i := m.index(id)
	if i < 0 {
		return false
	}
	c := &m.captions[i]
	if patch.X != nil {
		c.X = *patch.X
	}
	if patch.Y != nil {
		c.Y = *patch.Y
	}
	if patch.Text != nil {
		c.Text = *patch.Text
	}
	if patch.Size != nil {
		c.Size = ClampSize(*patch.Size)
	}
	if patch.Color != nil {
		c.Color = *patch.Color
	}
	if patch.Font != nil {
		c.Font = *patch.Font
	}
	return true
}

// Move sets the position of a caption
func (m *Model) Move(id types.CaptionID, x, y float64) bool {
	return m.Update(id, types.CaptionPatch{X: &x, Y: &y})
}

// SetDragging flags a caption as being dragged
func (m *Model) SetDragging(id types.CaptionID, dragging bool) bool {
	i := m.index(id)
	if i < 0 {
		return false
	}
	m.captions[i].Dragging = dragging
	return true
}

// Remove deletes a caption, clearing the selection if it pointed at it
func (m *Model) Remove(id types.CaptionID) bool {
	i := m.index(id)
	if i < 0 {
		return false
	}
	m.captions = append(m.captions[:i], m.captions[i+1:]...)
	if m.selected == id {
		m.selected = 0
	}
	return true
}

// Select makes id the current selection. Unknown ids leave it unchanged.
func (m *Model) Select(id types.CaptionID) bool {
	if m.index(id) < 0 {
		return false
	}
	m.selected = id
	return true
}

// Deselect clears the selection
func (m *Model) Deselect() {
	m.selected = 0
}

// SelectedID returns the selected caption id, or zero
func (m *Model) SelectedID() types.CaptionID {
	return m.selected
}

// Selected returns the selected caption
func (m *Model) Selected() (types.Caption, bool) {
	return m.Get(m.selected)
}

// Get returns the caption with the given id
func (m *Model) Get(id types.CaptionID) (types.Caption, bool) {
	i := m.index(id)
	if i < 0 {
		return types.Caption{}, false
	}
	return m.captions[i], true
}

// Captions returns a copy of the collection in paint order
func (m *Model) Captions() []types.Caption {
	out := make([]types.Caption, len(m.captions))
	copy(out, m.captions)
	return out
}

// Len returns the number of captions
func (m *Model) Len() int {
	return len(m.captions)
}

// Clear removes every caption and the selection. IDs keep counting up.
func (m *Model) Clear() {
	m.captions = nil
	m.selected = 0
}

// Rescale multiplies caption positions by (sx, sy) and sizes by sx
func (m *Model) Rescale(sx, sy float64) {
	for i := range m.captions {
		c := &m.captions[i]
		c.X *= sx
		c.Y *= sy
		c.Size = ClampSize(c.Size * sx)
	}
}

func (m *Model) index(id types.CaptionID) int {
	if id == 0 {
		return -1
	}
	for i := range m.captions {
		if m.captions[i].ID == id {
			return i
		}
	}
	return -1
}
