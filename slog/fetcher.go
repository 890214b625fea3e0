package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/webtab"
)

// Ensure LoggingFetcher implements webtab.Fetcher.
var _ webtab.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with per-page logging.
type LoggingFetcher struct {
	next   webtab.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next webtab.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL, markup size and latency of each page load.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (markup string, err error) {
	defer func(begin time.Time) {
		f.logger.Info("fetch",
			"url", url,
			"bytes", len(markup),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
