// Package static implements extraction with a plain HTTP fetch via Colly,
// for deployments where the directory renders the candidate list server-side
// and a browser session is unnecessary.
package static

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/eventra/judge-scout/internal/extractor/listing"
	"github.com/eventra/judge-scout/internal/scout"
)

// Config controls the static extraction engine.
type Config struct {
	BaseURL     string
	Timeout     time.Duration
	MaxProfiles int
	UserAgent   string
}

// Extractor implements scout.Extractor with a single GET per run.
type Extractor struct {
	cfg    Config
	logger *zap.Logger
}

// New builds a static Extractor.
func New(cfg Config, logger *zap.Logger) (*Extractor, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.MaxProfiles <= 0 {
		cfg.MaxProfiles = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{cfg: cfg, logger: logger}, nil
}

// Extract fetches the topic's browse page and parses the candidate list. The
// failure taxonomy mirrors the headless engine: transport errors surface as
// connection failures, bad statuses as navigation failures, and a page
// without the list container as a structure failure.
func (e *Extractor) Extract(ctx context.Context, topic string) ([]scout.RawProfile, error) {
	collector := colly.NewCollector(colly.Async(false))
	if e.cfg.UserAgent != "" {
		collector.UserAgent = e.cfg.UserAgent
	}
	collector.IgnoreRobotsTxt = true
	collector.SetRequestTimeout(e.cfg.Timeout)

	var (
		body       []byte
		statusCode int
	)
	collector.OnResponse(func(resp *colly.Response) {
		statusCode = resp.StatusCode
		body = append([]byte(nil), resp.Body...)
	})
	collector.OnError(func(resp *colly.Response, _ error) {
		if resp != nil {
			statusCode = resp.StatusCode
		}
	})

	pageURL := fmt.Sprintf("%s/browse/%s", e.cfg.BaseURL, topic)
	if err := e.visit(ctx, collector, pageURL); err != nil {
		if statusCode != 0 && statusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: %s: status %d", scout.ErrNavigation, pageURL, statusCode)
		}
		return nil, fmt.Errorf("%w: %s: %v", scout.ErrConnection, pageURL, err)
	}

	if statusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: status %d", scout.ErrNavigation, pageURL, statusCode)
	}
	if !listing.HasContainer(body) {
		return nil, fmt.Errorf("%w: %q missing from %s", scout.ErrStructureTimeout, listing.ContainerSelector, pageURL)
	}

	profiles, err := listing.Parse(body, e.cfg.MaxProfiles)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", scout.ErrStructureTimeout, err)
	}
	e.logger.Debug("static extraction complete",
		zap.String("topic", topic),
		zap.Int("profiles", len(profiles)),
	)
	return profiles, nil
}

func (e *Extractor) visit(ctx context.Context, collector *colly.Collector, pageURL string) error {
	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(pageURL)
	}()
	select {
	case <-ctx.Done():
		return fmt.Errorf("fetch canceled: %w", ctx.Err())
	case err := <-done:
		return err
	}
}
