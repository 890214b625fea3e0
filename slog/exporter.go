package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/webtab"
)

var _ webtab.Exporter = (*LoggingExporter)(nil)

// LoggingExporter wraps an Exporter and logs what was written.
type LoggingExporter struct {
	next   webtab.Exporter
	logger *slog.Logger
}

// NewLoggingExporter creates a new LoggingExporter.
func NewLoggingExporter(next webtab.Exporter, logger *slog.Logger) *LoggingExporter {
	return &LoggingExporter{next: next, logger: logger}
}

// Export logs the number of results and written sheets.
func (e *LoggingExporter) Export(ctx context.Context, results []*webtab.Result) (err error) {
	defer func(begin time.Time) {
		sheets := 0
		for _, r := range results {
			if r.Status() == webtab.StatusOK {
				sheets++
			}
		}
		e.logger.Info("export",
			"results", len(results),
			"sheets", sheets,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Export(ctx, results)
}
