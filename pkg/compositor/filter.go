package compositor

import (
	"image"
	"image/color"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
)

// FilterNone leaves the base image untouched
const FilterNone = "none"

// FilterFunc transforms the base image before anything is drawn over it
type FilterFunc func(image.Image) image.Image

var filters = map[string]FilterFunc{
	"grayscale": func(img image.Image) image.Image { return imaging.Grayscale(img) },
	"sepia":     sepia,
	"invert":    func(img image.Image) image.Image { return imaging.Invert(img) },
	"blur":      func(img image.Image) image.Image { return imaging.Blur(img, 2) },
	"sharpen":   func(img image.Image) image.Image { return imaging.Sharpen(img, 1.5) },
	"brighten":  func(img image.Image) image.Image { return imaging.AdjustBrightness(img, 20) },
	"darken":    func(img image.Image) image.Image { return imaging.AdjustBrightness(img, -20) },
	"contrast":  func(img image.Image) image.Image { return imaging.AdjustContrast(img, 30) },
	"saturate":  func(img image.Image) image.Image { return imaging.AdjustSaturation(img, 40) },
	"vintage": func(img image.Image) image.Image {
		return imaging.AdjustGamma(imaging.AdjustContrast(sepia(img), -10), 1.1)
	},
}

// FilterNames lists the known filters, "none" first
func FilterNames() []string {
	names := make([]string, 0, len(filters)+1)
	for name := range filters {
		names = append(names, name)
	}
	sort.Strings(names)
	return append([]string{FilterNone}, names...)
}

// KnownFilter reports whether name is a filter (or "none"/empty)
func KnownFilter(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == FilterNone {
		return true
	}
	_, ok := filters[name]
	return ok
}

// ApplyFilter runs the named filter; unknown names and "none" return img as is
func ApplyFilter(name string, img image.Image) image.Image {
	fn, ok := filters[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return img
	}
	return fn(img)
}

func sepia(img image.Image) image.Image {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		r, g, b := float64(c.R), float64(c.G), float64(c.B)
		return color.NRGBA{
			R: clampChannel(0.393*r + 0.769*g + 0.189*b),
			G: clampChannel(0.349*r + 0.686*g + 0.168*b),
			B: clampChannel(0.272*r + 0.534*g + 0.131*b),
			A: c.A,
		}
	})
}

func clampChannel(v float64) uint8 {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return uint8(v + 0.5)
}
