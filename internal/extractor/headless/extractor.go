// Package headless extracts candidate profiles by driving a browser session
// against the directory site.
package headless

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/eventra/judge-scout/internal/extractor/listing"
	"github.com/eventra/judge-scout/internal/scout"
)

// Config controls the headless extraction adapter.
type Config struct {
	// Endpoint is the remote browser websocket endpoint, e.g.
	// wss://chrome.browserless.io. Empty means launch a local browser.
	Endpoint string
	// Token authenticates against the remote browser service.
	Token string
	// BaseURL is the directory site root, e.g. https://clarity.fm.
	BaseURL string
	// WaitTimeout bounds the wait for the candidate list to render.
	WaitTimeout time.Duration
	// MaxProfiles caps how many items are extracted per run.
	MaxProfiles int
	UserAgent   string
}

// Extractor implements scout.Extractor using chromedp. Each call acquires a
// fresh browser session and releases it before returning, on every path.
type Extractor struct {
	cfg      Config
	snapshot scout.SnapshotStore
	logger   *zap.Logger
}

// New builds an Extractor. The snapshot store is optional; when set, the
// rendered page HTML is archived after each successful extraction.
func New(cfg Config, snapshot scout.SnapshotStore, logger *zap.Logger) (*Extractor, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if cfg.WaitTimeout <= 0 {
		cfg.WaitTimeout = 20 * time.Second
	}
	if cfg.MaxProfiles <= 0 {
		cfg.MaxProfiles = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{cfg: cfg, snapshot: snapshot, logger: logger}, nil
}

// Extract navigates to the topic's browse page, waits for the candidate list
// and returns the raw profiles in DOM order, truncated to MaxProfiles. The
// topic is interpolated into the path as-is; callers are expected to have
// validated it against a slug allow-list.
func (e *Extractor) Extract(ctx context.Context, topic string) ([]scout.RawProfile, error) {
	allocCtx, allocCancel := e.newAllocator(ctx)
	defer allocCancel()

	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	defer tabCancel()

	// Establishing the session up front keeps connection failures distinct
	// from navigation failures.
	if err := chromedp.Run(tabCtx, e.sessionSetup()); err != nil {
		return nil, fmt.Errorf("%w: %v", scout.ErrConnection, err)
	}

	pageURL := fmt.Sprintf("%s/browse/%s", e.cfg.BaseURL, topic)
	if err := chromedp.Run(tabCtx, chromedp.Navigate(pageURL)); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", scout.ErrNavigation, pageURL, err)
	}

	html, err := e.waitAndSnapshot(tabCtx)
	if err != nil {
		return nil, err
	}

	profiles, err := listing.Parse([]byte(html), e.cfg.MaxProfiles)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", scout.ErrStructureTimeout, err)
	}

	e.archive(ctx, topic, html)
	e.logger.Debug("extraction complete",
		zap.String("topic", topic),
		zap.Int("profiles", len(profiles)),
	)
	return profiles, nil
}

// waitAndSnapshot blocks until the candidate list renders, then captures the
// page DOM. A deadline hit here is the structure timeout, not a navigation
// problem.
func (e *Extractor) waitAndSnapshot(tabCtx context.Context) (string, error) {
	waitCtx, cancel := context.WithTimeout(tabCtx, e.cfg.WaitTimeout)
	defer cancel()

	var html string
	err := chromedp.Run(waitCtx,
		chromedp.WaitVisible(listing.ContainerSelector, chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		if errors.Is(waitCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: waited %s for %q", scout.ErrStructureTimeout, e.cfg.WaitTimeout, listing.ContainerSelector)
		}
		return "", fmt.Errorf("%w: %v", scout.ErrStructureTimeout, err)
	}
	return html, nil
}

func (e *Extractor) newAllocator(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.cfg.Endpoint != "" {
		return chromedp.NewRemoteAllocator(ctx, e.websocketURL())
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
	)
	return chromedp.NewExecAllocator(ctx, opts...)
}

func (e *Extractor) sessionSetup() chromedp.Tasks {
	tasks := chromedp.Tasks{network.Enable()}
	if e.cfg.UserAgent != "" {
		tasks = append(tasks, emulation.SetUserAgentOverride(e.cfg.UserAgent))
	}
	return tasks
}

// websocketURL appends the auth token to the remote endpoint.
func (e *Extractor) websocketURL() string {
	if e.cfg.Token == "" {
		return e.cfg.Endpoint
	}
	return fmt.Sprintf("%s?token=%s", e.cfg.Endpoint, url.QueryEscape(e.cfg.Token))
}

// archive is best effort; a snapshot failure never fails the extraction.
func (e *Extractor) archive(ctx context.Context, topic, html string) {
	if e.snapshot == nil {
		return
	}
	path := fmt.Sprintf("listings/%s/%d.html", topic, time.Now().UTC().UnixNano())
	uri, err := e.snapshot.Put(ctx, path, "text/html; charset=utf-8", []byte(html))
	if err != nil {
		e.logger.Warn("archive listing snapshot failed",
			zap.String("topic", topic),
			zap.Error(err),
		)
		return
	}
	e.logger.Debug("listing snapshot archived", zap.String("uri", uri))
}
