// Package session holds the state of one editing session: the base photo,
// the captions and selection, the render settings and the surface they are
// composited onto. Every accepted mutation re-renders the surface; rejected
// ones leave both state and pixels untouched.
package session

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"

	"github.com/menta2k/meme-maker/pkg/caption"
	"github.com/menta2k/meme-maker/pkg/compositor"
	"github.com/menta2k/meme-maker/pkg/types"
)

// ErrNoImage is returned by mutations that need a base image
var ErrNoImage = errors.New("session: no image loaded")

// ReplacePolicy decides what happens to captions when the base image changes
type ReplacePolicy int

const (
	// ReplaceClear drops captions and selection on a new image
	ReplaceClear ReplacePolicy = iota
	// ReplaceRescale keeps captions, scaled to the new image size
	ReplaceRescale
)

// String implements fmt.Stringer
func (p ReplacePolicy) String() string {
	if p == ReplaceRescale {
		return "rescale"
	}
	return "clear"
}

// ParseReplacePolicy parses "clear" or "rescale"; empty means clear
func ParseReplacePolicy(s string) (ReplacePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "clear":
		return ReplaceClear, nil
	case "rescale":
		return ReplaceRescale, nil
	}
	return ReplaceClear, fmt.Errorf("unknown replace policy %q (use clear or rescale)", s)
}

// Options configures a session
type Options struct {
	Policy     ReplacePolicy
	Defaults   caption.Defaults
	Compositor *compositor.Compositor
	Logger     *slog.Logger
}

// Point is a position in pixels
type Point struct {
	X, Y float64
}

type dragState struct {
	id   types.CaptionID
	last Point
}

// Session is one editing session. It is not safe for concurrent use; all
// mutations are expected to come from a single event loop.
type Session struct {
	base     image.Image
	dims     types.Size
	captions *caption.Model
	config   types.RenderConfig
	surface  *compositor.Surface
	comp     *compositor.Compositor
	policy   ReplacePolicy
	drag     *dragState
	renders  int
	logger   *slog.Logger
}

// New creates a session with default options
func New() *Session {
	return NewWithOptions(Options{})
}

// NewWithOptions creates a session
func NewWithOptions(opts Options) *Session {
	model := caption.New()
	if opts.Defaults != (caption.Defaults{}) {
		model = caption.NewWithDefaults(opts.Defaults)
	}
	if opts.Compositor == nil {
		opts.Compositor = compositor.New()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Session{
		captions: model,
		surface:  compositor.NewSurface(),
		comp:     opts.Compositor,
		policy:   opts.Policy,
		logger:   opts.Logger,
	}
}

// SetImage replaces the base image, applying the replacement policy to
// existing captions
func (s *Session) SetImage(img image.Image) error {
	if img == nil || img.Bounds().Empty() {
		return errors.New("session: empty image")
	}
	prev := s.dims
	next := types.SizeOf(img)

	switch {
	case s.policy == ReplaceRescale && !prev.Empty():
		s.captions.Rescale(float64(next.Width)/float64(prev.Width), float64(next.Height)/float64(prev.Height))
	default:
		s.captions.Clear()
	}
	if s.drag != nil {
		s.captions.SetDragging(s.drag.id, false)
		s.drag = nil
	}
	s.base = img
	s.dims = next
	s.logger.Debug("base image set", "width", next.Width, "height", next.Height, "policy", s.policy)
	s.Render()
	return nil
}

// ClearImage drops the base image and every caption
func (s *Session) ClearImage() {
	s.base = nil
	s.dims = types.Size{}
	s.captions.Clear()
	s.drag = nil
	s.surface = compositor.NewSurface()
	s.Render()
}

// AddCaption appends a caption with default properties and selects it
func (s *Session) AddCaption() (types.Caption, error) {
	c, ok := s.captions.Add(s.dims)
	if !ok {
		return types.Caption{}, ErrNoImage
	}
	s.Render()
	return c, nil
}

// UpdateCaption merges patch into a caption; unknown ids are ignored
func (s *Session) UpdateCaption(id types.CaptionID, patch types.CaptionPatch) bool {
	if !s.captions.Update(id, patch) {
		return false
	}
	s.Render()
	return true
}

// MoveCaption sets a caption's anchor
func (s *Session) MoveCaption(id types.CaptionID, x, y float64) bool {
	if !s.captions.Move(id, x, y) {
		return false
	}
	s.Render()
	return true
}

// RemoveCaption deletes a caption, clearing the selection if it was selected
func (s *Session) RemoveCaption(id types.CaptionID) bool {
	if !s.captions.Remove(id) {
		return false
	}
	if s.drag != nil && s.drag.id == id {
		s.drag = nil
	}
	s.Render()
	return true
}

// Select changes the selection. Selection does not affect pixels.
func (s *Session) Select(id types.CaptionID) bool {
	return s.captions.Select(id)
}

// Deselect clears the selection
func (s *Session) Deselect() {
	s.captions.Deselect()
}

// SetFilter sets the named base-image filter
func (s *Session) SetFilter(name string) error {
	if !compositor.KnownFilter(name) {
		return fmt.Errorf("unknown filter %q", name)
	}
	s.config.Filter = strings.ToLower(strings.TrimSpace(name))
	s.Render()
	return nil
}

// SetFrame sets the overlay frame; nil removes it
func (s *Session) SetFrame(frame image.Image) {
	s.config.Frame = frame
	s.Render()
}

// Render redraws the surface from the current state
func (s *Session) Render() {
	s.renders++
	if s.base == nil {
		return
	}
	s.comp.Render(s.surface, s.base, s.config.Frame, s.captions.Captions(), s.config.Filter)
}

// HasImage reports whether a base image is loaded
func (s *Session) HasImage() bool { return s.base != nil }

// Base returns the base image
func (s *Session) Base() image.Image { return s.base }

// Size returns the base image's intrinsic size
func (s *Session) Size() types.Size { return s.dims }

// Captions returns the captions in paint order
func (s *Session) Captions() []types.Caption { return s.captions.Captions() }

// Caption returns one caption
func (s *Session) Caption(id types.CaptionID) (types.Caption, bool) { return s.captions.Get(id) }

// SelectedID returns the selected caption id, or 0
func (s *Session) SelectedID() types.CaptionID { return s.captions.SelectedID() }

// Selected returns the selected caption
func (s *Session) Selected() (types.Caption, bool) { return s.captions.Selected() }

// Config returns the render settings
func (s *Session) Config() types.RenderConfig { return s.config }

// Policy returns the replacement policy
func (s *Session) Policy() ReplacePolicy { return s.policy }

// Surface returns the render target
func (s *Session) Surface() *compositor.Surface { return s.surface }

// Compositor returns the compositor used for rendering
func (s *Session) Compositor() *compositor.Compositor { return s.comp }

// Renders returns how many times the surface has been redrawn
func (s *Session) Renders() int { return s.renders }

// DebugOverlay returns the surface annotated with caption anchors and the
// selection box
func (s *Session) DebugOverlay() *image.RGBA {
	return s.comp.DebugOverlay(s.surface, s.captions.Captions(), s.captions.SelectedID())
}
