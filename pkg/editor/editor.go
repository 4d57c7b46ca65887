// Package editor is the controller behind the editing screen. It is written
// once against platform.Capabilities and works the same on every variant.
// Failures are logged and leave the session as it was.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/menta2k/meme-maker/pkg/codec"
	"github.com/menta2k/meme-maker/pkg/exporter"
	"github.com/menta2k/meme-maker/pkg/platform"
	"github.com/menta2k/meme-maker/pkg/session"
	"github.com/menta2k/meme-maker/pkg/source"
)

// ErrNoImage is returned when saving or sharing before an image is chosen
var ErrNoImage = errors.New("editor: no image loaded")

// Config holds the editor's collaborators; nil fields get defaults
type Config struct {
	Session  *session.Session
	Loader   *source.Loader
	Exporter *exporter.Exporter
	Logger   *slog.Logger
}

// Editor coordinates image acquisition, editing and export
type Editor struct {
	caps     platform.Capabilities
	session  *session.Session
	loader   *source.Loader
	exporter *exporter.Exporter
	logger   *slog.Logger
}

// New creates an editor with default collaborators
func New(caps platform.Capabilities) *Editor {
	return NewWithConfig(caps, Config{})
}

// NewWithConfig creates an editor
func NewWithConfig(caps platform.Capabilities, cfg Config) *Editor {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Session == nil {
		cfg.Session = session.NewWithOptions(session.Options{Logger: cfg.Logger})
	}
	if cfg.Loader == nil {
		cfg.Loader = source.New()
	}
	if cfg.Exporter == nil {
		cfg.Exporter = exporter.NewWithOptions(caps, codec.Options{}, cfg.Logger)
	}
	return &Editor{
		caps:     caps,
		session:  cfg.Session,
		loader:   cfg.Loader,
		exporter: cfg.Exporter,
		logger:   cfg.Logger.With("platform", caps.Name()),
	}
}

// Session returns the editing session
func (e *Editor) Session() *session.Session { return e.session }

// Platform returns the host capabilities
func (e *Editor) Platform() platform.Capabilities { return e.caps }

// ChooseImage acquires an image from the platform and makes it the new
// base image
func (e *Editor) ChooseImage(ctx context.Context) error {
	data, err := e.caps.AcquireImage(ctx)
	if err != nil {
		if errors.Is(err, platform.ErrCancelled) {
			e.logger.Info("image selection cancelled")
		} else {
			e.logger.Error("image acquisition failed", "err", err)
		}
		return err
	}
	img, err := e.loader.Load(data)
	if err != nil {
		e.logger.Error("image load failed", "err", err, "bytes", len(data))
		return fmt.Errorf("failed to load chosen image: %w", err)
	}
	if err := e.session.SetImage(img); err != nil {
		e.logger.Error("image rejected", "err", err)
		return err
	}
	info := e.loader.GetImageInfo(img)
	e.logger.Info("image loaded", "width", info.Width, "height", info.Height,
		"aspect", fmt.Sprintf("%.2f", info.AspectRatio))
	return nil
}

// Save exports the current meme to platform storage
func (e *Editor) Save(ctx context.Context) (string, error) {
	if !e.session.HasImage() {
		e.logger.Warn("save requested without an image")
		return "", ErrNoImage
	}
	location, err := e.exporter.Save(ctx, e.session.Surface())
	if err != nil {
		e.logger.Error("save failed", "err", err)
		return "", err
	}
	return location, nil
}

// Share exports the current meme and hands it to the platform share
// mechanism
func (e *Editor) Share(ctx context.Context) error {
	if !e.session.HasImage() {
		e.logger.Warn("share requested without an image")
		return ErrNoImage
	}
	if err := e.exporter.Share(ctx, e.session.Surface()); err != nil {
		e.logger.Error("share failed", "err", err)
		return err
	}
	return nil
}
