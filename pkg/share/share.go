// Package share hands an exported image to whatever share mechanism the
// host offers: the OS share sheet, a platform-bridge plugin inside a
// packaged app shell, or a preview window as the last resort.
package share

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrNoTarget is returned when no target in a chain is available
var ErrNoTarget = errors.New("share: no target available")

// Payload is the image being shared
type Payload struct {
	Title    string
	Filename string
	MimeType string
	Data     []byte
}

// Target is one share mechanism
type Target interface {
	Name() string
	// Available reports whether the mechanism exists on this host.
	// Unavailable targets are skipped, not treated as failures.
	Available() bool
	Share(ctx context.Context, p Payload) error
}

// Chain tries targets in priority order and uses the first available one
type Chain struct {
	targets []Target
	logger  *slog.Logger
}

// NewChain builds a chain; nil targets are dropped
func NewChain(logger *slog.Logger, targets ...Target) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Chain{logger: logger}
	for _, t := range targets {
		if t != nil {
			c.targets = append(c.targets, t)
		}
	}
	return c
}

// Targets returns the configured targets in priority order
func (c *Chain) Targets() []Target {
	return append([]Target(nil), c.targets...)
}

// Select returns the target Share would use
func (c *Chain) Select() (Target, error) {
	for _, t := range c.targets {
		if t.Available() {
			return t, nil
		}
		c.logger.Debug("share target unavailable", "target", t.Name())
	}
	return nil, ErrNoTarget
}

// Share hands p to the first available target. A failure of that target
// is returned as is; the chain does not fall through on errors.
func (c *Chain) Share(ctx context.Context, p Payload) error {
	t, err := c.Select()
	if err != nil {
		return err
	}
	c.logger.Info("sharing image", "target", t.Name(), "title", p.Title, "bytes", len(p.Data))
	if err := t.Share(ctx, p); err != nil {
		return fmt.Errorf("share via %s: %w", t.Name(), err)
	}
	return nil
}
