package types

import "image"

// CaptionID identifies a caption for its whole lifetime. Zero means "none".
type CaptionID uint64

// Caption is one positioned, styled text overlay
type Caption struct {
	ID       CaptionID `json:"id"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Text     string    `json:"text"`
	Size     float64   `json:"size"`
	Color    string    `json:"color"`
	Font     string    `json:"font"`
	Dragging bool      `json:"dragging"`
}

// CaptionPatch carries a partial caption update. Nil fields are left untouched.
type CaptionPatch struct {
	X     *float64 `json:"x,omitempty"`
	Y     *float64 `json:"y,omitempty"`
	Text  *string  `json:"text,omitempty"`
	Size  *float64 `json:"size,omitempty"`
	Color *string  `json:"color,omitempty"`
	Font  *string  `json:"font,omitempty"`
}

// Size holds the intrinsic dimensions of a base image
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Empty reports whether no image is loaded
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// SizeOf returns the dimensions of img, or the zero Size for nil
func SizeOf(img image.Image) Size {
	if img == nil {
		return Size{}
	}
	b := img.Bounds()
	return Size{Width: b.Dx(), Height: b.Dy()}
}

// RenderConfig is the current filter and optional frame overlay
type RenderConfig struct {
	Filter string
	Frame  image.Image
}

// String returns a pointer to s, for building patches
func String(s string) *string { return &s }

// Float returns a pointer to f, for building patches
func Float(f float64) *float64 { return &f }
