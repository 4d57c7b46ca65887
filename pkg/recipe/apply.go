package recipe

import (
	"fmt"

	"github.com/menta2k/meme-maker/pkg/codec"
	"github.com/menta2k/meme-maker/pkg/session"
	"github.com/menta2k/meme-maker/pkg/source"
	"github.com/menta2k/meme-maker/pkg/types"
)

// LineSpacing is the distance between stacked caption baselines, as a
// multiple of the caption size
const LineSpacing = 1.2

// BottomMargin is the gap between the last bottom caption's baseline and
// the bottom edge
const BottomMargin = 20

// Apply loads the recipe's image and frame into s and adds its captions.
// Without an image in the recipe, s must already have one.
func (r *Recipe) Apply(s *session.Session, loader *source.Loader) error {
	if loader == nil {
		loader = source.New()
	}
	if r.Image != "" {
		img, err := loader.LoadImage(r.Image)
		if err != nil {
			return err
		}
		if err := s.SetImage(img); err != nil {
			return err
		}
	}
	if !s.HasImage() {
		return session.ErrNoImage
	}
	if r.Frame != "" {
		frame, _, err := codec.LoadFile(r.Frame)
		if err != nil {
			return fmt.Errorf("failed to load frame: %w", err)
		}
		s.SetFrame(frame)
	}
	if r.Filter != "" {
		if err := s.SetFilter(r.Filter); err != nil {
			return err
		}
	}

	groups := map[Position][]types.CaptionID{}
	for _, rc := range r.Captions {
		c, err := s.AddCaption()
		if err != nil {
			return err
		}
		s.UpdateCaption(c.ID, rc.patch())
		if rc.Y == nil {
			pos := rc.position()
			groups[pos] = append(groups[pos], c.ID)
		}
	}
	stack(s, groups)
	return nil
}

func (c Caption) patch() types.CaptionPatch {
	p := types.CaptionPatch{
		X:    c.X,
		Y:    c.Y,
		Size: c.Size,
	}
	if c.Text != "" {
		p.Text = types.String(c.Text)
	}
	if c.Color != "" {
		p.Color = types.String(c.Color)
	}
	if c.Font != "" {
		p.Font = types.String(c.Font)
	}
	return p
}

// stack lays out captions without an explicit Y as lines of text: top
// lines go down from the default offset, bottom lines end at the bottom
// margin and center lines are centered as a block.
func stack(s *session.Session, groups map[Position][]types.CaptionID) {
	height := float64(s.Size().Height)
	for _, pos := range []Position{Top, Center, Bottom} {
		ids := groups[pos]
		if len(ids) == 0 {
			continue
		}
		lines := make([]types.Caption, len(ids))
		for i, id := range ids {
			lines[i], _ = s.Caption(id)
		}

		ys := make([]float64, len(lines))
		ys[0] = lines[0].Y
		for i := 1; i < len(lines); i++ {
			ys[i] = ys[i-1] + LineSpacing*lines[i].Size
		}

		var shift float64
		switch pos {
		case Center:
			shift = height/2 - (ys[0]+ys[len(ys)-1])/2
		case Bottom:
			shift = height - BottomMargin - ys[len(ys)-1]
		}
		for i, c := range lines {
			s.MoveCaption(c.ID, c.X, ys[i]+shift)
		}
	}
}
