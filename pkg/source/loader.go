// Package source turns image bytes handed over by an image source provider
// (camera, photo library, file input) into a decoded base image.
package source

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"strings"

	"github.com/menta2k/meme-maker/pkg/codec"
)

var (
	// ErrUnsupportedFormat is returned for decodable but disallowed formats
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrTooSmall is returned for images below the configured minimum side
	ErrTooSmall = errors.New("image too small")
	// ErrTooLarge is returned for images above the configured maximum side
	ErrTooLarge = errors.New("image too large")
)

// Loader decodes and validates base images
type Loader struct {
	config Config
}

// Config holds configuration for the loader
type Config struct {
	SupportedFormats []string
	MinImageSize     int
	// MaxImageSize bounds the longer side; 0 disables the check.
	MaxImageSize int
}

// DefaultConfig returns the configuration used by New
func DefaultConfig() Config {
	return Config{
		SupportedFormats: []string{"jpeg", "png", "webp", "gif"},
		MinImageSize:     1,
		MaxImageSize:     12000,
	}
}

// New creates a new Loader with default configuration
func New() *Loader {
	return &Loader{config: DefaultConfig()}
}

// NewWithConfig creates a new Loader with custom configuration
func NewWithConfig(config Config) *Loader {
	return &Loader{config: config}
}

// LoadImage loads an image from file
func (l *Loader) LoadImage(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}
	img, err := l.LoadImageFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// LoadImageFromReader loads an image from an io.Reader
func (l *Loader) LoadImageFromReader(reader io.Reader) (image.Image, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return l.LoadImageFromBytes(data)
}

// LoadImageFromBytes decodes raw image bytes
// The header is checked against the size limits before any pixels are
// decoded.
func (l *Loader) LoadImageFromBytes(data []byte) (image.Image, error) {
	if cfg, format, err := codec.DecodeConfig(data); err == nil {
		if !l.isFormatSupported(format) {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
		}
		if err := l.checkSize(cfg.Width, cfg.Height); err != nil {
			return nil, err
		}
	}
	img, format, err := codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return l.accept(img, format)
}

// LoadDataURL decodes an image delivered as a base64 data URL, the form the
// camera plugin and file readers hand back.
func (l *Loader) LoadDataURL(dataURL string) (image.Image, error) {
	data, _, err := codec.ParseDataURL(dataURL)
	if err != nil {
		return nil, fmt.Errorf("failed to read data URL: %w", err)
	}
	return l.LoadImageFromBytes(data)
}

// Load accepts either raw bytes or the bytes of a data URL
func (l *Loader) Load(data []byte) (image.Image, error) {
	if strings.HasPrefix(string(data[:min(len(data), 5)]), "data:") {
		return l.LoadDataURL(string(data))
	}
	return l.LoadImageFromBytes(data)
}

func (l *Loader) accept(img image.Image, format string) (image.Image, error) {
	if !l.isFormatSupported(format) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err := l.ValidateImage(img); err != nil {
		return nil, err
	}
	return img, nil
}

// ImageInfo contains basic image metadata
type ImageInfo struct {
	Width       int
	Height      int
	AspectRatio float64
	Area        int
}

// GetImageInfo returns basic information about an image
func (l *Loader) GetImageInfo(img image.Image) ImageInfo {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	info := ImageInfo{
		Width:  width,
		Height: height,
		Area:   width * height,
	}
	if height > 0 {
		info.AspectRatio = float64(width) / float64(height)
	}
	return info
}

func (l *Loader) isFormatSupported(format string) bool {
	if format == "jpg" {
		format = "jpeg"
	}
	for _, supported := range l.config.SupportedFormats {
		if supported == "jpg" {
			supported = "jpeg"
		}
		if strings.EqualFold(format, supported) {
			return true
		}
	}
	return false
}

// ValidateImage checks if an image meets the size requirements
func (l *Loader) ValidateImage(img image.Image) error {
	bounds := img.Bounds()
	return l.checkSize(bounds.Dx(), bounds.Dy())
}

func (l *Loader) checkSize(width, height int) error {
	if width < l.config.MinImageSize || height < l.config.MinImageSize {
		return fmt.Errorf("%w: %dx%d (minimum: %d)",
			ErrTooSmall, width, height, l.config.MinImageSize)
	}
	if l.config.MaxImageSize > 0 && (width > l.config.MaxImageSize || height > l.config.MaxImageSize) {
		return fmt.Errorf("%w: %dx%d (maximum: %d)",
			ErrTooLarge, width, height, l.config.MaxImageSize)
	}
	return nil
}
