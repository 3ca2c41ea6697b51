package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"

	"github.com/IshaanNene/CommentGoat/internal/config"
	"github.com/IshaanNene/CommentGoat/internal/types"
)

// Capturer reads the DOM of a page that is already open in a running
// browser. It never navigates, scrolls, or clicks: loading the comments is
// left to whoever is driving the tab.
type Capturer struct {
	cfg    config.SnapshotConfig
	logger *slog.Logger
}

// NewCapturer creates a Capturer for the browser named in cfg.
func NewCapturer(cfg config.SnapshotConfig, logger *slog.Logger) *Capturer {
	return &Capturer{
		cfg:    cfg,
		logger: logger.With("component", "capturer"),
	}
}

// Capture connects to the browser's DevTools endpoint and snapshots the
// first open page whose URL contains the configured match string.
func (c *Capturer) Capture(ctx context.Context) (*types.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	controlURL, err := launcher.ResolveURL(c.cfg.BrowserURL)
	if err != nil {
		return nil, fmt.Errorf("resolve browser url: %w", err)
	}

	// Close would shut down the user's browser; the connection is released
	// with ctx instead.
	browser := rod.New().Context(ctx).ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	pages, err := browser.Pages()
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	for _, page := range pages {
		info, err := page.Info()
		if err != nil {
			c.logger.Debug("skipping page without info", "error", err)
			continue
		}
		if !matchesPage(info.URL, c.cfg.PageMatch) {
			continue
		}

		html, err := page.Context(ctx).HTML()
		if err != nil {
			return nil, &types.SnapshotError{Source: info.URL, Err: err}
		}
		if c.cfg.MaxBytes > 0 && int64(len(html)) > c.cfg.MaxBytes {
			return nil, &types.SnapshotError{Source: info.URL, Err: types.ErrSnapshotTooLarge}
		}

		snap := types.NewSnapshot(info.URL, []byte(html))
		snap.URL = info.URL
		c.logger.Info("page captured", "url", info.URL, "title", info.Title, "size", len(html))
		return snap, nil
	}

	return nil, fmt.Errorf("%w %q (%d pages open)", types.ErrNoMatchingPage, c.cfg.PageMatch, len(pages))
}

// matchesPage reports whether a page URL contains match. An empty match
// accepts any page except blank ones.
func matchesPage(pageURL, match string) bool {
	if pageURL == "" || pageURL == "about:blank" {
		return false
	}
	return strings.Contains(pageURL, match)
}
