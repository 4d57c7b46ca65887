package share

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/menta2k/meme-maker/internal/utils"
	"github.com/menta2k/meme-maker/pkg/codec"
)

// Runner executes an external command
type Runner func(ctx context.Context, name string, args []string, stdin io.Reader) error

// ExecRunner runs commands with os/exec
func ExecRunner(ctx context.Context, name string, args []string, stdin io.Reader) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// LookPath reports whether a command can be found
type LookPath func(file string) (string, error)

// SheetTarget is the native OS share sheet, reached through a helper
// command that receives the path of the image file as its last argument.
type SheetTarget struct {
	Command []string
	TempDir string
	Run     Runner
	Look    LookPath
}

// Name implements Target
func (t *SheetTarget) Name() string { return "share-sheet" }

// Available implements Target
func (t *SheetTarget) Available() bool {
	if len(t.Command) == 0 {
		return false
	}
	look := t.Look
	if look == nil {
		look = exec.LookPath
	}
	_, err := look(t.Command[0])
	return err == nil
}

// Share implements Target
func (t *SheetTarget) Share(ctx context.Context, p Payload) error {
	path, err := writeTemp(t.TempDir, p)
	if err != nil {
		return err
	}
	run := t.Run
	if run == nil {
		run = ExecRunner
	}
	args := append(append([]string(nil), t.Command[1:]...), path)
	return run(ctx, t.Command[0], args, nil)
}

// Bridge is a share plugin exposed by a packaged app shell. It receives the
// image as a data URL.
type Bridge interface {
	Share(ctx context.Context, title, url string) error
}

// BridgeTarget shares through a platform bridge plugin
type BridgeTarget struct {
	Bridge Bridge
}

// Name implements Target
func (t *BridgeTarget) Name() string { return "bridge" }

// Available implements Target
func (t *BridgeTarget) Available() bool { return t.Bridge != nil }

// Share implements Target
func (t *BridgeTarget) Share(ctx context.Context, p Payload) error {
	return t.Bridge.Share(ctx, p.Title, codec.DataURL(p.Data, p.MimeType))
}

// CommandBridge talks to a shell's share plugin over a helper command. The
// request is written to its stdin as JSON: {"title": ..., "url": ...}.
type CommandBridge struct {
	Command []string
	Run     Runner
}

// Share implements Bridge
func (b *CommandBridge) Share(ctx context.Context, title, url string) error {
	if len(b.Command) == 0 {
		return fmt.Errorf("bridge command not configured")
	}
	req, err := json.Marshal(struct {
		Title string `json:"title"`
		URL   string `json:"url"`
	}{title, url})
	if err != nil {
		return err
	}
	run := b.Run
	if run == nil {
		run = ExecRunner
	}
	return run(ctx, b.Command[0], b.Command[1:], bytes.NewReader(req))
}

// PreviewTarget writes an HTML page showing the image and opens it, the
// equivalent of a new browser window. It is always available.
type PreviewTarget struct {
	Dir    string
	Opener []string
	Run    Runner
	Look   LookPath

	// LastPath is the page written by the most recent Share.
	LastPath string
}

// Name implements Target
func (t *PreviewTarget) Name() string { return "preview" }

// Available implements Target
func (t *PreviewTarget) Available() bool { return true }

// Share implements Target
func (t *PreviewTarget) Share(ctx context.Context, p Payload) error {
	dir := t.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create preview dir: %w", err)
	}
	name := payloadName(p, "preview.png")
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" {
		name = "preview"
	}
	path := filepath.Join(dir, name+".html")
	page := fmt.Sprintf("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>%s</title></head>\n<body><img src=\"%s\"/></body></html>\n",
		html.EscapeString(p.Title), codec.DataURL(p.Data, p.MimeType))
	if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
		return fmt.Errorf("write preview: %w", err)
	}
	t.LastPath = path

	opener := t.Opener
	if len(opener) == 0 {
		opener = DefaultOpener()
	}
	look := t.Look
	if look == nil {
		look = exec.LookPath
	}
	if len(opener) == 0 {
		return nil
	}
	if _, err := look(opener[0]); err != nil {
		// nothing to open it with; the page is still on disk
		return nil
	}
	run := t.Run
	if run == nil {
		run = ExecRunner
	}
	args := append(append([]string(nil), opener[1:]...), path)
	return run(ctx, opener[0], args, nil)
}

// DefaultOpener returns the desktop "open this file" command for the host OS
func DefaultOpener() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"open"}
	case "windows":
		return []string{"rundll32", "url.dll,FileProtocolHandler"}
	case "linux", "freebsd", "openbsd", "netbsd":
		return []string{"xdg-open"}
	}
	return nil
}

func writeTemp(dir string, p Payload) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create share dir: %w", err)
	}
	path := filepath.Join(dir, payloadName(p, "share.png"))
	if err := os.WriteFile(path, p.Data, 0o644); err != nil {
		return "", fmt.Errorf("write share file: %w", err)
	}
	return path, nil
}

// payloadName is the payload's filename made safe to use inside a
// directory, or fallback when nothing usable is left
func payloadName(p Payload, fallback string) string {
	name := utils.SanitizeFilename(p.Filename)
	if name == "" {
		return fallback
	}
	return name
}
