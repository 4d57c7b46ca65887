// Package exporter turns a rendered surface into image bytes and hands them
// to the platform for saving or sharing.
package exporter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/menta2k/meme-maker/internal/utils"
	"github.com/menta2k/meme-maker/pkg/codec"
	"github.com/menta2k/meme-maker/pkg/compositor"
	"github.com/menta2k/meme-maker/pkg/platform"
)

// ShareTitle is the title passed to every share request
const ShareTitle = "My Meme"

// FilenamePrefix starts every generated filename
const FilenamePrefix = "meme"

// ErrEmptySurface is returned when there is nothing rendered to export
var ErrEmptySurface = errors.New("exporter: nothing rendered")

// Exporter encodes surfaces and delivers them through a platform
type Exporter struct {
	caps   platform.Capabilities
	opts   codec.Options
	now    func() time.Time
	logger *slog.Logger
}

// New creates an exporter writing PNG at the default quality
func New(caps platform.Capabilities) *Exporter {
	return NewWithOptions(caps, codec.Options{Format: codec.PNG, Quality: codec.DefaultQuality}, nil)
}

// NewWithOptions creates an exporter with explicit encoding options
func NewWithOptions(caps platform.Capabilities, opts codec.Options, logger *slog.Logger) *Exporter {
	if opts.Format == "" {
		opts.Format = codec.PNG
	}
	if opts.Quality <= 0 {
		opts.Quality = codec.DefaultQuality
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{caps: caps, opts: opts, now: time.Now, logger: logger}
}

// Options returns the encoding options in use
func (e *Exporter) Options() codec.Options {
	return e.opts
}

// Encode encodes the surface's current pixels
func (e *Exporter) Encode(s *compositor.Surface) ([]byte, error) {
	if s == nil || s.Empty() {
		return nil, ErrEmptySurface
	}
	data, err := codec.EncodeBytes(s.Image(), e.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", e.opts.Format, err)
	}
	return data, nil
}

// Filename returns the unique, time-based name for an export made at now
func (e *Exporter) Filename(now time.Time) string {
	return utils.TimestampedFilename(FilenamePrefix, now, e.opts.Format.Ext())
}

// Save encodes the surface and persists it, returning the stored location
func (e *Exporter) Save(ctx context.Context, s *compositor.Surface) (string, error) {
	data, err := e.Encode(s)
	if err != nil {
		return "", err
	}
	name := e.Filename(e.now())
	location, err := e.caps.Persist(ctx, name, data)
	if err != nil {
		return "", fmt.Errorf("failed to persist %s: %w", name, err)
	}
	e.logger.Info("meme exported", "platform", e.caps.Name(), "location", location, "format", e.opts.Format)
	return location, nil
}

// Share encodes the surface and hands it to the platform share mechanism
func (e *Exporter) Share(ctx context.Context, s *compositor.Surface) error {
	data, err := e.Encode(s)
	if err != nil {
		return err
	}
	name := e.Filename(e.now())
	if err := e.caps.Share(ctx, ShareTitle, name, data, e.opts.Format.MimeType()); err != nil {
		return fmt.Errorf("failed to share: %w", err)
	}
	return nil
}
