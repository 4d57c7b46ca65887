// Package platform abstracts the host the editor runs on. The editor is
// written once against Capabilities; NativeShell and Browser supply image
// acquisition, storage and sharing the way a packaged app shell and a plain
// web page would.
package platform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/menta2k/meme-maker/pkg/codec"
	"github.com/menta2k/meme-maker/pkg/share"
)

// ErrCancelled is returned when the user dismisses the image picker
var ErrCancelled = errors.New("platform: image acquisition cancelled")

// EnvPlatform overrides platform detection
const EnvPlatform = "MEME_PLATFORM"

const (
	KindAuto    = "auto"
	KindNative  = "native"
	KindBrowser = "browser"
)

// Capabilities is everything the editor needs from its host
type Capabilities interface {
	Name() string
	// AcquireImage returns the encoded bytes of the chosen image, or a data
	// URL. It is called once per "choose image" action.
	AcquireImage(ctx context.Context) ([]byte, error)
	// Persist stores data and returns where it ended up.
	Persist(ctx context.Context, filename string, data []byte) (string, error)
	// Share hands data to the host's share mechanism under filename.
	Share(ctx context.Context, title, filename string, data []byte, mimeType string) error
}

// Config selects and configures a platform variant
type Config struct {
	Kind          string
	DataDir       string
	DownloadDir   string
	ShareCommand  []string
	BridgeCommand []string
	PreviewDir    string
	Opener        []string

	// Picker supplies images; Input, when set, is read by the first
	// Browser acquisition instead.
	Picker Picker
	Input  io.Reader
}

// Detect builds the platform variant named by cfg.Kind. In auto mode the
// native shell is used when MEME_PLATFORM says so or a bridge command is
// configured, the browser otherwise.
func Detect(cfg Config, logger *slog.Logger) (Capabilities, error) {
	kind, err := resolveKind(cfg)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("platform detected", "kind", kind)
	if kind == KindNative {
		return NewNativeShell(cfg, logger), nil
	}
	return NewBrowser(cfg, logger), nil
}

func resolveKind(cfg Config) (string, error) {
	kind := strings.ToLower(strings.TrimSpace(cfg.Kind))
	switch kind {
	case KindNative, KindBrowser:
		return kind, nil
	case "", KindAuto:
		env := strings.ToLower(strings.TrimSpace(os.Getenv(EnvPlatform)))
		if env == KindNative || len(cfg.BridgeCommand) > 0 {
			return KindNative, nil
		}
		return KindBrowser, nil
	}
	return "", fmt.Errorf("unknown platform %q (use auto, native or browser)", cfg.Kind)
}

// sharePayload wraps a share request; without a filename one is derived
// from the media type
func sharePayload(title, filename string, data []byte, mimeType string) share.Payload {
	if filename == "" {
		ext := codec.PNG.Ext()
		if f, err := codec.FormatForMime(mimeType); err == nil {
			ext = f.Ext()
		}
		filename = "meme." + ext
	}
	return share.Payload{
		Title:    title,
		Filename: filename,
		MimeType: mimeType,
		Data:     data,
	}
}
