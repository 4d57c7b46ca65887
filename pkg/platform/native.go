package platform

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/menta2k/meme-maker/internal/utils"
	"github.com/menta2k/meme-maker/pkg/share"
)

// NativeShell is the packaged-app variant: images come from a picker, files
// go to an app-private data directory, and sharing tries the OS share
// sheet, then the shell's bridge plugin, then a preview window.
type NativeShell struct {
	Picker  Picker
	DataDir string
	Shares  *share.Chain

	logger *slog.Logger
}

// NewNativeShell creates a native shell from cfg
func NewNativeShell(cfg Config, logger *slog.Logger) *NativeShell {
	if logger == nil {
		logger = slog.Default()
	}
	var sheet, bridge share.Target
	if len(cfg.ShareCommand) > 0 {
		sheet = &share.SheetTarget{Command: cfg.ShareCommand, TempDir: cfg.PreviewDir}
	}
	if len(cfg.BridgeCommand) > 0 {
		bridge = &share.BridgeTarget{Bridge: &share.CommandBridge{Command: cfg.BridgeCommand}}
	}
	preview := &share.PreviewTarget{Dir: cfg.PreviewDir, Opener: cfg.Opener}

	return &NativeShell{
		Picker:  cfg.Picker,
		DataDir: cfg.DataDir,
		Shares:  share.NewChain(logger, sheet, bridge, preview),
		logger:  logger,
	}
}

// Name implements Capabilities
func (n *NativeShell) Name() string { return KindNative }

// AcquireImage implements Capabilities
func (n *NativeShell) AcquireImage(ctx context.Context) ([]byte, error) {
	if n.Picker == nil {
		return nil, ErrCancelled
	}
	path, err := n.Picker.Pick(ctx)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read picked image: %w", err)
	}
	n.log().Debug("image acquired", "path", path, "bytes", len(data))
	return data, nil
}

// Persist implements Capabilities. Files land in DataDir under filename.
func (n *NativeShell) Persist(ctx context.Context, filename string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dir := n.DataDir
	if dir == "" {
		dir = "."
	}
	if err := utils.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	path := filepath.Join(dir, filepath.Base(filename))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	n.log().Info("image saved", "path", path, "size", utils.FormatFileSize(int64(len(data))))
	return path, nil
}

// Share implements Capabilities
func (n *NativeShell) Share(ctx context.Context, title, filename string, data []byte, mimeType string) error {
	if n.Shares == nil {
		return share.ErrNoTarget
	}
	return n.Shares.Share(ctx, sharePayload(title, filename, data, mimeType))
}

func (n *NativeShell) log() *slog.Logger {
	if n.logger == nil {
		return slog.Default()
	}
	return n.logger
}
