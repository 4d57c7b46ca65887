package platform

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Picker chooses an image file, standing in for the camera or photo library
type Picker interface {
	Pick(ctx context.Context) (string, error)
}

// StaticPicker always picks the same path; an empty path is a cancelled pick
type StaticPicker string

// Pick implements Picker
func (p StaticPicker) Pick(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(string(p)) == "" {
		return "", ErrCancelled
	}
	return string(p), nil
}

// PromptPicker asks for a path on a line-oriented terminal
type PromptPicker struct {
	In     io.Reader
	Out    io.Writer
	Prompt string

	scanner *bufio.Scanner
}

// Pick implements Picker. An empty line or end of input cancels.
func (p *PromptPicker) Pick(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p.scanner == nil {
		p.scanner = bufio.NewScanner(p.In)
	}
	if p.Out != nil {
		prompt := p.Prompt
		if prompt == "" {
			prompt = "image path: "
		}
		fmt.Fprint(p.Out, prompt)
	}
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", fmt.Errorf("read picker input: %w", err)
		}
		return "", ErrCancelled
	}
	path := strings.TrimSpace(p.scanner.Text())
	if path == "" {
		return "", ErrCancelled
	}
	return path, nil
}
