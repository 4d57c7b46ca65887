// Package recipe reads caption recipes: files describing a photo, its
// filter and frame and the captions to put on it.
//
//	image: photo.jpg
//	filter: vintage
//	captions:
//	  - text: ONE DOES NOT SIMPLY
//	  - text: WRITE A MEME BY HAND
//	    position: bottom
//	    color: "#ffcc00"
//
// Recipes may be written in YAML, TOML or JSON; the file extension decides.
package recipe

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/menta2k/meme-maker/pkg/compositor"
)

// ErrUnknownFormat is returned for recipe files with an unknown extension
var ErrUnknownFormat = errors.New("recipe: unknown file format")

// Position places captions that have no explicit Y
type Position string

const (
	Top    Position = "top"
	Center Position = "center"
	Bottom Position = "bottom"
)

// Recipe describes one meme
type Recipe struct {
	Image    string    `json:"image,omitempty" yaml:"image,omitempty" toml:"image,omitempty"`
	Frame    string    `json:"frame,omitempty" yaml:"frame,omitempty" toml:"frame,omitempty"`
	Filter   string    `json:"filter,omitempty" yaml:"filter,omitempty" toml:"filter,omitempty"`
	Captions []Caption `json:"captions" yaml:"captions" toml:"captions"`
}

// Caption is one caption line. Unset fields keep the caption defaults.
type Caption struct {
	Text     string   `json:"text" yaml:"text" toml:"text"`
	Position Position `json:"position,omitempty" yaml:"position,omitempty" toml:"position,omitempty"`
	X        *float64 `json:"x,omitempty" yaml:"x,omitempty" toml:"x,omitempty"`
	Y        *float64 `json:"y,omitempty" yaml:"y,omitempty" toml:"y,omitempty"`
	Size     *float64 `json:"size,omitempty" yaml:"size,omitempty" toml:"size,omitempty"`
	Color    string   `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty"`
	Font     string   `json:"font,omitempty" yaml:"font,omitempty" toml:"font,omitempty"`
}

// Load reads a recipe file. Relative image and frame paths are resolved
// against the recipe's directory.
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe: %w", err)
	}
	r, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	dir := filepath.Dir(path)
	r.Image = resolve(dir, r.Image)
	r.Frame = resolve(dir, r.Frame)
	return r, nil
}

// Parse decodes a recipe; format is a file extension or name such as
// ".yaml", "toml" or "json"
func Parse(data []byte, format string) (*Recipe, error) {
	var r Recipe
	switch strings.TrimPrefix(strings.ToLower(format), ".") {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("failed to parse YAML recipe: %w", err)
		}
	case "toml":
		if _, err := toml.Decode(string(data), &r); err != nil {
			return nil, fmt.Errorf("failed to parse TOML recipe: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("failed to parse JSON recipe: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Validate checks filter and caption positions
func (r *Recipe) Validate() error {
	if !compositor.KnownFilter(r.Filter) {
		return fmt.Errorf("unknown filter %q", r.Filter)
	}
	for i, c := range r.Captions {
		switch c.position() {
		case Top, Center, Bottom:
		default:
			return fmt.Errorf("caption %d: unknown position %q", i+1, c.Position)
		}
	}
	return nil
}

func (c Caption) position() Position {
	p := Position(strings.ToLower(strings.TrimSpace(string(c.Position))))
	if p == "" {
		return Top
	}
	return p
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
