// Package slog provides log/slog decorators for the webtab service
// interfaces. Each decorator logs one line per call at Info level, so a
// discarding logger silences them entirely.
package slog
