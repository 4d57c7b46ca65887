package compositor

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// DefaultFill is used for empty or unparsable caption colors
var DefaultFill = color.NRGBA{255, 255, 255, 255}

// StrokeColor is the outline drawn beneath every caption
var StrokeColor = color.NRGBA{0, 0, 0, 255}

// ParseColor understands SVG/CSS color names, #rgb, #rgba, #rrggbb,
// #rrggbbaa, rgb(r,g,b) and rgba(r,g,b,a).
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return color.NRGBA{}, fmt.Errorf("empty color")
	}
	if s == "transparent" {
		return color.NRGBA{}, nil
	}
	if c, ok := colornames.Map[s]; ok {
		return color.NRGBA{c.R, c.G, c.B, c.A}, nil
	}
	if hex, ok := strings.CutPrefix(s, "#"); ok {
		return parseHex(hex)
	}
	if args, ok := cutFunc(s, "rgba"); ok {
		return parseRGB(args, true)
	}
	if args, ok := cutFunc(s, "rgb"); ok {
		return parseRGB(args, false)
	}
	return color.NRGBA{}, fmt.Errorf("unknown color %q", s)
}

// fillColor resolves a caption color, falling back to white
func fillColor(s string) color.NRGBA {
	c, err := ParseColor(s)
	if err != nil {
		return DefaultFill
	}
	return c
}

func parseHex(hex string) (color.NRGBA, error) {
	switch len(hex) {
	case 3, 4:
		expanded := make([]byte, 0, len(hex)*2)
		for i := 0; i < len(hex); i++ {
			expanded = append(expanded, hex[i], hex[i])
		}
		hex = string(expanded)
	case 6, 8:
	default:
		return color.NRGBA{}, fmt.Errorf("bad hex color #%s", hex)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("bad hex color #%s: %w", hex, err)
	}
	return color.NRGBA{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

func cutFunc(s, name string) (string, bool) {
	rest, ok := strings.CutPrefix(s, name+"(")
	if !ok {
		return "", false
	}
	return strings.CutSuffix(rest, ")")
}

func parseRGB(args string, withAlpha bool) (color.NRGBA, error) {
	parts := strings.Split(args, ",")
	if (withAlpha && len(parts) != 4) || (!withAlpha && len(parts) != 3) {
		return color.NRGBA{}, fmt.Errorf("bad rgb color %q", args)
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || v < 0 || v > 255 {
			return color.NRGBA{}, fmt.Errorf("bad rgb channel %q", parts[i])
		}
		ch[i] = uint8(v)
	}
	a := uint8(255)
	if withAlpha {
		f, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || f < 0 || f > 1 {
			return color.NRGBA{}, fmt.Errorf("bad alpha %q", parts[3])
		}
		a = uint8(math.Round(f * 255))
	}
	return color.NRGBA{ch[0], ch[1], ch[2], a}, nil
}
