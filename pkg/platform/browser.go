package platform

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/menta2k/meme-maker/internal/utils"
	"github.com/menta2k/meme-maker/pkg/share"
)

// Browser is the plain web page variant: images come from a file input,
// saving triggers a download, and sharing has no bridge plugin to try.
type Browser struct {
	// Input is consumed by the next acquisition, like a file input's
	// selected file. Picker is used when Input is empty.
	Input       io.Reader
	Picker      Picker
	DownloadDir string
	Shares      *share.Chain

	logger *slog.Logger
}

// NewBrowser creates a browser platform from cfg
func NewBrowser(cfg Config, logger *slog.Logger) *Browser {
	if logger == nil {
		logger = slog.Default()
	}
	var sheet share.Target
	if len(cfg.ShareCommand) > 0 {
		sheet = &share.SheetTarget{Command: cfg.ShareCommand, TempDir: cfg.PreviewDir}
	}
	preview := &share.PreviewTarget{Dir: cfg.PreviewDir, Opener: cfg.Opener}

	return &Browser{
		Input:       cfg.Input,
		Picker:      cfg.Picker,
		DownloadDir: cfg.DownloadDir,
		Shares:      share.NewChain(logger, sheet, preview),
		logger:      logger,
	}
}

// Name implements Capabilities
func (b *Browser) Name() string { return KindBrowser }

// AcquireImage implements Capabilities
func (b *Browser) AcquireImage(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if b.Input != nil {
		in := b.Input
		b.Input = nil
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("failed to read file input: %w", err)
		}
		if len(data) == 0 {
			return nil, ErrCancelled
		}
		return data, nil
	}
	if b.Picker == nil {
		return nil, ErrCancelled
	}
	path, err := b.Picker.Pick(ctx)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read selected file: %w", err)
	}
	return data, nil
}

// Persist implements Capabilities by downloading into DownloadDir. An
// existing file is never overwritten; the name gets a " (n)" suffix.
func (b *Browser) Persist(ctx context.Context, filename string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dir := b.DownloadDir
	if dir == "" {
		dir = "."
	}
	if err := utils.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}
	path := utils.UniquePath(filepath.Join(dir, filepath.Base(filename)))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("download failed: %w", err)
	}
	b.log().Info("image downloaded", "path", path, "size", utils.FormatFileSize(int64(len(data))))
	return path, nil
}

// Share implements Capabilities
func (b *Browser) Share(ctx context.Context, title, filename string, data []byte, mimeType string) error {
	if b.Shares == nil {
		return share.ErrNoTarget
	}
	return b.Shares.Share(ctx, sharePayload(title, filename, data, mimeType))
}

func (b *Browser) log() *slog.Logger {
	if b.logger == nil {
		return slog.Default()
	}
	return b.logger
}
