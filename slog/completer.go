package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/webtab"
)

var _ webtab.Completer = (*LoggingCompleter)(nil)

// LoggingCompleter wraps a Completer with per-call logging. Prompts and
// responses are logged by size only.
type LoggingCompleter struct {
	next   webtab.Completer
	logger *slog.Logger
}

// NewLoggingCompleter creates a new LoggingCompleter.
func NewLoggingCompleter(next webtab.Completer, logger *slog.Logger) *LoggingCompleter {
	return &LoggingCompleter{next: next, logger: logger}
}

// Complete logs the model, prompt and response sizes and latency.
func (c *LoggingCompleter) Complete(ctx context.Context, prompt string) (response string, err error) {
	defer func(begin time.Time) {
		c.logger.Info("complete",
			"model", c.next.Model(),
			"prompt_chars", len([]rune(prompt)),
			"response_chars", len([]rune(response)),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Complete(ctx, prompt)
}

// Model delegates to the wrapped completer.
func (c *LoggingCompleter) Model() string {
	return c.next.Model()
}
